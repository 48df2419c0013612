package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/spf13/viper"
)

// Labeler interfaces selectable with training.interface.
const (
	InterfaceCLI = "cli"
	InterfaceTUI = "tui"
)

// Config keys.
const (
	KeyDatabasePath    = "database.path"
	KeyTolerance       = "matching.tolerance"
	KeyOnlyNumbers     = "matching.only_numbers"
	KeyTrainingEnabled = "training.enabled"
	KeyInterface       = "training.interface"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyThreshold       = "glyph.threshold"
	KeyDarkInk         = "glyph.dark_ink"
)

// DefaultDatabasePath is where the pattern database lives unless configured.
const DefaultDatabasePath = "~/.local/share/glyph/patterns.db"

// Config is the resolved application configuration.
type Config struct {
	DatabasePath string
	Interface    string
	LogLevel     string
	LogFormat    string
	Tolerance    float64
	Threshold    int
	OnlyNumbers  bool
	DarkInk      bool

	// TrainingEnabled is nil unless set, in which case it overrides the stored setting.
	TrainingEnabled *bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyTolerance, model.DefaultTolerance)
	v.SetDefault(KeyOnlyNumbers, false)
	v.SetDefault(KeyInterface, InterfaceCLI)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyThreshold, 128)
	v.SetDefault(KeyDarkInk, false)
}

// Load reads and validates the configuration from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		Interface:    strings.ToLower(v.GetString(KeyInterface)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		Tolerance:    v.GetFloat64(KeyTolerance),
		Threshold:    v.GetInt(KeyThreshold),
		OnlyNumbers:  v.GetBool(KeyOnlyNumbers),
		DarkInk:      v.GetBool(KeyDarkInk),
	}
	if v.IsSet(KeyTrainingEnabled) {
		enabled := v.GetBool(KeyTrainingEnabled)
		cfg.TrainingEnabled = &enabled
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", common.ErrInvalidConfig, KeyTolerance, c.Tolerance)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("%w: %s must be within 0-255, got %d", common.ErrInvalidConfig, KeyThreshold, c.Threshold)
	}
	switch c.Interface {
	case InterfaceCLI, InterfaceTUI:
	default:
		return fmt.Errorf("%w: %s must be %q or %q, got %q",
			common.ErrInvalidConfig, KeyInterface, InterfaceCLI, InterfaceTUI, c.Interface)
	}
	return nil
}
