package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the root configuration structure
type Config struct {
	NarrowOnJump bool          `mapstructure:"narrow_on_jump"`
	Debounce     time.Duration `mapstructure:"debounce"`
	Panel        PanelConfig   `mapstructure:"panel"`
	Log          LogConfig     `mapstructure:"log"`
}

// PanelConfig holds outline panel preferences
type PanelConfig struct {
	Width int `mapstructure:"width"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Load reads configuration from configFile, or from
// $HOME/.config/mdtree/config.yaml and the working directory when
// configFile is empty. Environment variables prefixed MDTREE_ override
// file values. A missing default config file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("$HOME/.config/mdtree")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("MDTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	applyDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if cfg.Debounce < time.Millisecond || cfg.Debounce > 5*time.Second {
		return fmt.Errorf("debounce must be between 1ms and 5s, got %v", cfg.Debounce)
	}
	if cfg.Panel.Width < 10 || cfg.Panel.Width > 200 {
		return fmt.Errorf("panel.width must be between 10 and 200, got %d", cfg.Panel.Width)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	for _, level := range validLevels {
		if cfg.Log.Level == level {
			return nil
		}
	}
	return fmt.Errorf("log.level must be one of: %v, got %s", validLevels, cfg.Log.Level)
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	v.SetDefault("narrow_on_jump", true)
	v.SetDefault("debounce", "50ms")
	v.SetDefault("panel.width", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}
