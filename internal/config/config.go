// Package config provides Viper-based configuration loading for dloc.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ExportConfig holds settings for export operations.
type ExportConfig struct {
	// Format is the interchange format: "json", "yaml", or "txt". "yml" and
	// "text" are accepted on load.
	Format string `mapstructure:"format"`
	// AddLanguageNames prefixes every exported line with "<Language>:: ".
	// It applies to the txt format only.
	AddLanguageNames bool `mapstructure:"add_language_names"`
}

// ImportConfig holds settings for import operations.
type ImportConfig struct {
	// DontSkip writes the output even when the import changed nothing.
	DontSkip bool `mapstructure:"dont_skip"`
}

// GroupConfig holds settings for directory operations.
type GroupConfig struct {
	// Extension is the file extension, without the dot, of core files.
	Extension string `mapstructure:"extension"`
}

// Config is the top-level application configuration.
type Config struct {
	// Game selects the title: "auto", "hzd", or "ds".
	Game    string        `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
	Export  ExportConfig  `mapstructure:"export"`
	Import  ImportConfig  `mapstructure:"import"`
	Group   GroupConfig   `mapstructure:"group"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	validGames := map[string]bool{"auto": true, "hzd": true, "ds": true}
	if !validGames[c.Game] {
		errs = append(errs, fmt.Sprintf("game must be one of [auto, hzd, ds], got %q", c.Game))
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateExport(c.Export); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGroup(c.Group); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateExport(e ExportConfig) error {
	validFormats := map[string]bool{"json": true, "yaml": true, "txt": true}
	if !validFormats[e.Format] {
		return fmt.Errorf("export.format must be one of [json, yaml, txt], got %q", e.Format)
	}
	return nil
}

// formatAliases maps accepted spellings onto canonical export formats.
var formatAliases = map[string]string{"yml": "yaml", "text": "txt"}

func normalizeFormat(f string) string {
	f = strings.ToLower(f)
	if canonical, ok := formatAliases[f]; ok {
		return canonical
	}
	return f
}

func validateGroup(g GroupConfig) error {
	var errs []string
	if g.Extension == "" {
		errs = append(errs, "group.extension must not be empty")
	}
	if strings.HasPrefix(g.Extension, ".") {
		errs = append(errs, fmt.Sprintf("group.extension must not start with a dot, got %q", g.Extension))
	}
	if strings.ContainsAny(g.Extension, `/\`) {
		errs = append(errs, fmt.Sprintf("group.extension must not contain a path separator, got %q", g.Extension))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// NewViper returns a Viper instance with defaults and DLOC_ environment
// overrides applied, ready for flags to be bound onto it.
//
// Postcondition: Returns a non-nil *viper.Viper.
func NewViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with DLOC_ prefix
	v.SetEnvPrefix("DLOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Precondition: path is empty or names a readable YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return LoadFromViper(v)
}

// ReadFile merges the configuration file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Game = strings.ToLower(cfg.Game)
	cfg.Export.Format = normalizeFormat(cfg.Export.Format)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game", "auto")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("export.format", "json")
	v.SetDefault("export.add_language_names", false)

	v.SetDefault("import.dont_skip", false)

	v.SetDefault("group.extension", "core")
}
