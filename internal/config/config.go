// Package config loads calc settings from a YAML file through viper.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/calc/internal/calculator"
)

// Config is the top-level calc configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version" json:"config_version"`
	Storage       StorageConfig  `mapstructure:"storage" yaml:"storage" json:"storage"`
	Display       DisplayConfig  `mapstructure:"display" yaml:"display" json:"display"`
	Feedback      FeedbackConfig `mapstructure:"feedback" yaml:"feedback" json:"feedback"`
	Logging       LoggingConfig  `mapstructure:"logging" yaml:"logging" json:"logging"`
	Mode          string         `mapstructure:"mode" yaml:"mode" json:"mode"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// MaxPrecision bounds display.precision; float64 carries about 17 digits.
const MaxPrecision = 17

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// DisplayConfig controls result formatting. Precision -1 keeps the shortest
// round-trip form.
type DisplayConfig struct {
	Precision int `mapstructure:"precision" yaml:"precision" json:"precision"`
}

// FeedbackConfig controls the per-keystroke cue.
type FeedbackConfig struct {
	Bell bool `mapstructure:"bell" yaml:"bell" json:"bell"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() (Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Storage:       StorageConfig{Path: filepath.Join(dir, "calc.db")},
		Display:       DisplayConfig{Precision: -1},
		Feedback:      FeedbackConfig{Bell: false},
		Logging:       LoggingConfig{Level: "info"},
		Mode:          calculator.Normal.String(),
	}, nil
}

// DefaultDir returns the directory holding the config file and database.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".calc"), nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// CalculatorMode parses the configured initial mode.
func (c Config) CalculatorMode() (calculator.Mode, error) {
	return calculator.ParseMode(c.Mode)
}

// SlogLevel parses logging.level ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Logging.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// Validate checks values that viper cannot type-check.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if c.Display.Precision < -1 || c.Display.Precision > MaxPrecision {
		return fmt.Errorf("display.precision must be between -1 and %d, got %d", MaxPrecision, c.Display.Precision)
	}
	if _, err := c.CalculatorMode(); err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}
