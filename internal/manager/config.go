package manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-vri-es/brightness-ctl/internal/notify"
	"github.com/de-vri-es/brightness-ctl/pkg/backlight"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "BRIGHTNESS_CTL"
	configName = "config"
	configDir  = "brightness-ctl"
)

// Config is the resolved configuration of one run.
type Config struct {
	Controller      string
	Root            string
	Notify          bool
	NotifyIcon      string
	NotifyTimeout   int32
	SortControllers bool

	// File is the config file that was read, if any.
	File string
}

type ConfigManager struct {
	v *viper.Viper
}

func NewConfigManager() *ConfigManager {
	v := viper.New()
	v.SetDefault("controller", "")
	v.SetDefault("root", backlight.DefaultRoot)
	v.SetDefault("notify", true)
	v.SetDefault("notify-icon", notify.DefaultIcon)
	v.SetDefault("notify-timeout", -1)
	v.SetDefault("sort-controllers", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &ConfigManager{v: v}
}

// Load reads the config file and merges the flags on top of it. An empty
// path searches the user config directory, and a missing file there is not
// an error. A path given explicitly must exist.
func (c *ConfigManager) Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := c.v

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configDir))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		if f := flags.Lookup("controller"); f != nil {
			if err := v.BindPFlag("controller", f); err != nil {
				return nil, err
			}
		}
		if noNotify, err := flags.GetBool("no-notify"); err == nil && noNotify {
			v.Set("notify", false)
		}
	}

	return &Config{
		Controller:      v.GetString("controller"),
		Root:            v.GetString("root"),
		Notify:          v.GetBool("notify"),
		NotifyIcon:      v.GetString("notify-icon"),
		NotifyTimeout:   v.GetInt32("notify-timeout"),
		SortControllers: v.GetBool("sort-controllers"),
		File:            v.ConfigFileUsed(),
	}, nil
}
