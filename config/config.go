// Package config loads the application's own configuration: where the
// assistant settings files live, how to log, and how requests go out. The
// catalog's servers and prompts live in those settings files, not here.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/inkwell-ai/inkwell/errors"
)

// Config is the process configuration.
type Config struct {
	// Settings are the catalog settings files, in override order: later
	// files win item by item.
	Settings []string `mapstructure:"settings"`
	// AllowLocal admits localhost and private-network endpoint URLs, for
	// self-hosted model servers.
	AllowLocal bool `mapstructure:"allow_local"`
	Log        Log  `mapstructure:"log"`
}

// Log configures the global logger.
type Log struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// Dir is the user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inkwell"
	}
	return filepath.Join(home, ".inkwell")
}

// Load reads config.yaml from the user configuration directory or the
// working directory, with INKWELL_* environment overrides. A missing file
// yields the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	v.AddConfigPath(".")
	v.SetEnvPrefix("INKWELL")
	v.AutomaticEnv()

	v.SetDefault("settings", []string{
		filepath.Join(Dir(), "settings.yaml"),
		filepath.Join(Dir(), "settings.user.yaml"),
	})
	v.SetDefault("allow_local", false)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}
	return cfg, nil
}
