package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type configView struct {
	Controller      string `yaml:"controller"`
	Root            string `yaml:"root"`
	Notify          bool   `yaml:"notify"`
	NotifyIcon      string `yaml:"notify-icon"`
	NotifyTimeout   int32  `yaml:"notify-timeout"`
	SortControllers bool   `yaml:"sort-controllers"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long:  "Print the effective configuration as YAML. The output can be saved as\n$XDG_CONFIG_HOME/brightness-ctl/config.yaml.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := configView{
				Controller:      a.cfg.Controller,
				Root:            a.cfg.Root,
				Notify:          a.cfg.Notify,
				NotifyIcon:      a.cfg.NotifyIcon,
				NotifyTimeout:   a.cfg.NotifyTimeout,
				SortControllers: a.cfg.SortControllers,
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(view); err != nil {
				a.log.Error("failed to encode config", "error", err)
				return errExit
			}
			return enc.Close()
		},
	}
}
