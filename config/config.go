// Package config loads gdocsmd settings from defaults, an optional YAML
// file, GDOCSMD_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override (GDOCSMD_WORKERS, ...).
	EnvPrefix = "GDOCSMD"

	// FileName is the config file name searched for when none is given.
	FileName = "gdocsmd"
)

// Config is the full gdocsmd configuration.
type Config struct {
	DownloadImages bool          `mapstructure:"download_images" yaml:"download_images"`
	ImagesDir      string        `mapstructure:"images_dir" yaml:"images_dir"`
	ExportFormat   string        `mapstructure:"export_format" yaml:"export_format" validate:"oneof=markdown html"`
	RenderFormat   string        `mapstructure:"render_format" yaml:"render_format" validate:"oneof=markdown md pdf json"`
	Workers        int           `mapstructure:"workers" yaml:"workers"`
	ChunkSize      int           `mapstructure:"chunk_size" yaml:"chunk_size" validate:"gte=0"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout" yaml:"-" validate:"gte=0"`
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	Google         GoogleConfig  `mapstructure:"google" yaml:"google"`
}

// GoogleConfig configures the Drive and Docs API collaborator.
type GoogleConfig struct {
	DriveBaseURL      string  `mapstructure:"drive_base_url" yaml:"drive_base_url" validate:"required,url"`
	DocsBaseURL       string  `mapstructure:"docs_base_url" yaml:"docs_base_url" validate:"required,url"`
	MaxAttempts       uint    `mapstructure:"max_attempts" yaml:"max_attempts"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DownloadImages: true,
		ExportFormat:   "markdown",
		RenderFormat:   "markdown",
		Workers:        1,
		ChunkSize:      512,
		FetchTimeout:   30 * time.Second,
		UserAgent:      "gdocsmd/1.0 (https://github.com/gaurav-prasanna/gdocsmd)",
		LogLevel:       "info",
		Google: GoogleConfig{
			DriveBaseURL:      "https://www.googleapis.com/drive/v3",
			DocsBaseURL:       "https://docs.googleapis.com/v1",
			MaxAttempts:       3,
			RequestsPerSecond: 5,
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"download-images": "download_images",
	"images-dir":      "images_dir",
	"export":          "export_format",
	"render":          "render_format",
	"workers":         "workers",
	"chunk-size":      "chunk_size",
	"fetch-timeout":   "fetch_timeout",
	"log-level":       "log_level",
}

// Load builds the configuration. cfgFile may be empty, in which case
// ./gdocsmd.yaml and $HOME/.gdocsmd/gdocsmd.yaml are tried and a missing
// file is not an error. flags may be nil; changed flags override every
// other source.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("download_images", defaults.DownloadImages)
	v.SetDefault("images_dir", defaults.ImagesDir)
	v.SetDefault("export_format", defaults.ExportFormat)
	v.SetDefault("render_format", defaults.RenderFormat)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("chunk_size", defaults.ChunkSize)
	v.SetDefault("fetch_timeout", defaults.FetchTimeout)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("google.drive_base_url", defaults.Google.DriveBaseURL)
	v.SetDefault("google.docs_base_url", defaults.Google.DocsBaseURL)
	v.SetDefault("google.max_attempts", defaults.Google.MaxAttempts)
	v.SetDefault("google.requests_per_second", defaults.Google.RequestsPerSecond)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gdocsmd")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings and clamps numeric ones.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Google.MaxAttempts < 1 {
		c.Google.MaxAttempts = 1
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// MarshalYAML writes FetchTimeout as a duration string.
func (c Config) MarshalYAML() (any, error) {
	type plain Config
	return struct {
		plain        `yaml:",inline"`
		FetchTimeout string `yaml:"fetch_timeout"`
	}{plain(c), c.FetchTimeout.String()}, nil
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# gdocsmd configuration
# Every key can be overridden with a GDOCSMD_ environment variable,
# e.g. GDOCSMD_WORKERS=4 or GDOCSMD_GOOGLE_MAX_ATTEMPTS=5.
# Google APIs are called with Application Default Credentials.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
