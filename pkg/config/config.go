// Package config defines the cinta configuration model and loads it through
// viper from the config file, CINTA_* environment variables and bound flags.
package config

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/Manu343726/cinta/pkg/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys
const (
	KeyDelay      = "delay"
	KeyMaxSteps   = "max_steps"
	KeyWindowSize = "window.size"
	KeyLogLevel   = "log.level"
	KeyLogFile    = "log.file"
)

// EnvPrefix is the prefix of the environment variables read by Load
const EnvPrefix = "CINTA"

// LogLevels are the accepted values of log.level
var LogLevels = []string{"debug", "info", "warn", "error"}

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full cinta configuration
type Config struct {
	// Delay between two auto-run steps
	Delay time.Duration `mapstructure:"delay"`
	// MaxSteps stops a run after that many instructions, 0 = unlimited
	MaxSteps int `mapstructure:"max_steps"`
	// Window configures the tape view of the visualizer
	Window WindowConfig `mapstructure:"window"`
	// Log configures logging
	Log LogConfig `mapstructure:"log"`
}

// WindowConfig configures the visualizer tape window
type WindowConfig struct {
	// Size is the number of cells shown at once
	Size int `mapstructure:"size"`
}

// LogConfig configures the logger
type LogConfig struct {
	// Level is one of LogLevels
	Level string `mapstructure:"level"`
	// File, if set, receives JSON logs in addition to stderr
	File string `mapstructure:"file"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		Delay:  30 * time.Millisecond,
		Window: WindowConfig{Size: 15},
		Log:    LogConfig{Level: "warn"},
	}
}

// SetDefaults registers the defaults in v so every key is known to viper
// (required for environment variables to be picked up by Unmarshal)
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyDelay, d.Delay)
	v.SetDefault(KeyMaxSteps, d.MaxSteps)
	v.SetDefault(KeyWindowSize, d.Window.Size)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFile, d.Log.File)
}

// BindEnv makes v read CINTA_* environment variables, CINTA_WINDOW_SIZE for
// window.size and so on
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, utils.MakeError(ErrInvalidConfig, "%v", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Delay < 0 {
		return utils.MakeError(ErrInvalidConfig, "%s must not be negative, got %v", KeyDelay, c.Delay)
	}
	if c.MaxSteps < 0 {
		return utils.MakeError(ErrInvalidConfig, "%s must not be negative, got %d", KeyMaxSteps, c.MaxSteps)
	}
	if c.Window.Size < 1 {
		return utils.MakeError(ErrInvalidConfig, "%s must be at least 1, got %d", KeyWindowSize, c.Window.Size)
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.Log.Level)) {
		return utils.MakeError(ErrInvalidConfig, "%s must be one of %s, got %q", KeyLogLevel, strings.Join(LogLevels, ", "), c.Log.Level)
	}
	return nil
}

// document is the YAML layout of a Config. Durations are written in their
// string form so the output can be read back by Load.
type document struct {
	Delay    string `yaml:"delay"`
	MaxSteps int    `yaml:"max_steps"`
	Window   struct {
		Size int `yaml:"size"`
	} `yaml:"window"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"log"`
}

// YAML serializes the configuration in the config file format
func (c *Config) YAML() ([]byte, error) {
	var doc document
	doc.Delay = c.Delay.String()
	doc.MaxSteps = c.MaxSteps
	doc.Window.Size = c.Window.Size
	doc.Log.Level = c.Log.Level
	doc.Log.File = c.Log.File
	return yaml.Marshal(&doc)
}
