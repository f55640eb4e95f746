package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/de-vri-es/brightness-ctl/internal/logging"
	"github.com/de-vri-es/brightness-ctl/internal/manager"
	"github.com/de-vri-es/brightness-ctl/internal/notify"
	"github.com/de-vri-es/brightness-ctl/pkg/backlight"
	"github.com/de-vri-es/brightness-ctl/pkg/operation"
	"github.com/spf13/cobra"
)

var Version = "0.1.1"

// errExit signals a non-zero exit after the command already logged why.
var errExit = errors.New("exit")

// app holds what the subcommands share for one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	verbose    int
	quiet      int
	configPath string

	log *slog.Logger
	cfg *manager.Config

	newNotifier func(notify.Options) notify.Notifier
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "brightness-ctl",
		Version: Version,
		Short:   "Set or get the brightness of your display",
		Long: "brightness-ctl controls the brightness of your laptop screen through\n" +
			"the kernel backlight interface in " + backlight.DefaultRoot + ".",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logging.New(a.stderr, logging.Level(a.verbose, a.quiet))

			cfg, err := manager.NewConfigManager().Load(a.configPath, cmd.Flags())
			if err != nil {
				a.log.Error("failed to load config", "error", err)
				return errExit
			}
			if cfg.File != "" {
				a.log.Debug("loaded config", "path", cfg.File)
			}
			a.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbose, "verbose", "v", "Show more log messages")
	flags.CountVarP(&a.quiet, "quiet", "q", "Show less log messages")
	flags.StringP("controller", "c", "", "The backlight controller to use (default: first available, see list-controllers)")
	flags.StringVar(&a.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/brightness-ctl/config.yaml)")
	flags.Bool("no-notify", false, "Do not show a desktop notification")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(
		newChangeCmd(a, "up", "Increase the screen brightness with the given percentage", operation.Up),
		newChangeCmd(a, "down", "Decrease the screen brightness with the given percentage", operation.Down),
		newChangeCmd(a, "set", "Set the screen brightness to the given percentage", operation.Set),
		newGetCmd(a),
		newListControllersCmd(a),
		newInfoCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, newNotifier func(notify.Options) notify.Notifier) int {
	a := &app{stdout: stdout, stderr: stderr, newNotifier: newNotifier}
	rootCmd := newRootCmd(a)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, notify.New))
}

func (a *app) enumerator() *backlight.Enumerator {
	e := backlight.NewEnumerator(a.cfg.Root, a.log)
	e.Sorted = a.cfg.SortControllers
	return e
}

// openController opens the configured controller, or the first one that
// works when none is configured. Failures are logged here.
func (a *app) openController() (*backlight.Controller, error) {
	e := a.enumerator()

	var (
		ctrl *backlight.Controller
		err  error
	)
	if a.cfg.Controller != "" {
		ctrl, err = e.OpenByName(a.cfg.Controller)
	} else {
		ctrl, err = e.OpenFirst()
	}
	if err != nil {
		a.log.Error("failed to open controller", "error", err)
		return nil, errExit
	}
	a.log.Debug("opened controller", "name", ctrl.Name(), "path", ctrl.Path(), "raw", ctrl.Raw(), "max", ctrl.Max())
	return ctrl, nil
}
