package cmd

import (
	"context"
	"time"

	"github.com/de-vri-es/brightness-ctl/internal/notify"
	"github.com/de-vri-es/brightness-ctl/pkg/operation"
	"github.com/spf13/cobra"
)

const notifyDeadline = 5 * time.Second

func newChangeCmd(a *app, use, short string, kind operation.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   use + " VALUE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := operation.ParseValue(args[0])
			if err != nil {
				a.log.Error("invalid percentage", "error", err)
				return errExit
			}

			ctrl, err := a.openController()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			op := operation.Op{Kind: kind, Value: value}
			before := ctrl.Percentage()
			pct, err := operation.Brightness.Run(ctrl, op)
			if err != nil {
				a.log.Error("failed to change brightness", "error", err)
				return errExit
			}
			a.log.Debug("changed brightness", "op", kind, "value", value, "from", before, "to", pct)

			a.showNotification(cmd.Context(), pct)
			return nil
		},
	}
}

// showNotification never fails the command.
func (a *app) showNotification(ctx context.Context, pct float64) {
	if a.newNotifier == nil {
		return
	}
	n := a.newNotifier(notify.Options{
		Enabled: a.cfg.Notify,
		Icon:    a.cfg.NotifyIcon,
		Timeout: a.cfg.NotifyTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, notifyDeadline)
	defer cancel()

	if err := n.Notify(ctx, pct); err != nil {
		a.log.Error("failed to show notification", "error", err)
	}
}
