package cmd

import (
	"bytes"
	"fmt"

	"github.com/de-vri-es/brightness-ctl/pkg/displayinfo"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current screen brightness as a percentage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.openController()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			fmt.Fprintf(a.stdout, "%.0f\n", ctrl.Percentage())
			return nil
		},
	}
}

func newListControllersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-controllers",
		Short: "Print a list of screen brightness controllers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := a.enumerator().List()
			if err != nil {
				return errExit
			}
			for dev := range devices {
				fmt.Fprintln(a.stdout, dev.Name)
			}
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	var output string
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print details of the selected controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.openController()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			data, err := displayinfo.Format(ctrl, output)
			if err != nil {
				a.log.Error("failed to format controller info", "error", err)
				return errExit
			}
			if !bytes.HasSuffix(data, []byte("\n")) {
				data = append(data, '\n')
			}
			a.stdout.Write(data)
			return nil
		},
	}
	infoCmd.Flags().StringVarP(&output, "output", "o", "json", "Output format (json or yaml)")
	return infoCmd
}
