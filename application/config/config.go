// Package config loads and validates the add-in configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cdsmodel/cellbridge/application/schema"
	"github.com/cdsmodel/cellbridge/application/validation"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
)

var validate = validator.New()

// LogConfig controls the diagnostic log the add-in exposes to worksheets.
type LogConfig struct {
	// Lines is the number of messages the ring keeps.
	Lines int `yaml:"lines,omitempty" json:"lines,omitempty" validate:"gte=1,lte=1000" jsonschema:"minimum=1,maximum=1000"`

	// Width is the longest message kept in the ring, in bytes.
	Width int `yaml:"width,omitempty" json:"width,omitempty" validate:"gte=16,lte=4096" jsonschema:"minimum=16,maximum=4096"`

	// Enabled turns recording on at load.
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// File mirrors every message to a file when set.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Append keeps an existing File instead of truncating it.
	Append bool `yaml:"append,omitempty" json:"append,omitempty"`

	// Level is the lowest slog level recorded.
	Level string `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Config is the add-in configuration.
type Config struct {
	// Prefix is prepended to every function name as "<Prefix>_<Name>".
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty" validate:"required,alphanum,max=32" jsonschema:"pattern=^[A-Za-z0-9]+$,maxLength=32"`

	// Category groups the functions in the host's function wizard.
	Category string `yaml:"category,omitempty" json:"category,omitempty" validate:"required,max=255" jsonschema:"maxLength=255"`

	// LibraryName is reported by the add-in manager and in load alerts.
	LibraryName string `yaml:"library_name,omitempty" json:"library_name,omitempty" validate:"required,max=64" jsonschema:"maxLength=64"`

	// ArenaCapacity is the per-call result arena size in bytes.
	ArenaCapacity int `yaml:"arena_capacity,omitempty" json:"arena_capacity,omitempty" validate:"gte=1024" jsonschema:"minimum=1024"`

	// MaxObjects caps the object registry; 0 means unbounded.
	MaxObjects int `yaml:"max_objects,omitempty" json:"max_objects,omitempty" validate:"gte=0" jsonschema:"minimum=0"`

	// HandlePrefix starts the handles generated for objects stored without
	// a name, as in "obj-1a2b3c4d".
	HandlePrefix string `yaml:"handle_prefix,omitempty" json:"handle_prefix,omitempty" validate:"required,alphanum,max=16" jsonschema:"pattern=^[A-Za-z0-9]+$,maxLength=16"`

	Log LogConfig `yaml:"log,omitempty" json:"log,omitempty"`
}

// Default returns the configuration of the stock add-in.
func Default() Config {
	return Config{
		Prefix:        "CDS",
		Category:      "CDS",
		LibraryName:   "CDS analytics",
		ArenaCapacity: 10240,
		MaxObjects:    4096,
		HandlePrefix:  "obj",
		Log: LogConfig{
			Lines: 20,
			Width: 128,
			Level: "info",
		},
	}
}

// Option adjusts a Config.
type Option func(*Config)

// WithPrefix sets the function name prefix.
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithArenaCapacity sets the arena size.
func WithArenaCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ArenaCapacity = n
		}
	}
}

// WithMaxObjects sets the object registry capacity.
func WithMaxObjects(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.MaxObjects = n
		}
	}
}

// WithHandlePrefix sets the prefix of generated object handles.
func WithHandlePrefix(prefix string) Option {
	return func(c *Config) {
		c.HandlePrefix = prefix
	}
}

// WithLogging turns diagnostic recording on or off at load.
func WithLogging(enabled bool) Option {
	return func(c *Config) {
		c.Log.Enabled = enabled
	}
}

// New returns Default with opts applied.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Validate runs the struct validation tags.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &domainerrors.ConfigError{Field: verrs[0].Namespace(), Err: err}
	}
	return &domainerrors.ConfigError{Err: err}
}

// SlogLevel maps Log.Level to a slog level; empty means info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Schema returns the JSON schema of a configuration document.
func Schema() ([]byte, error) {
	return schema.GenerateSchema(Config{})
}

// Load reads a YAML configuration file. See Parse.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse validates a YAML document against the configuration schema, decodes
// it over Default, and runs struct validation.
func Parse(data []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, &domainerrors.ConfigError{Err: fmt.Errorf("parse yaml: %w", err)}
	}
	if doc != nil {
		sch, err := Schema()
		if err != nil {
			return Config{}, err
		}
		res, err := validation.ValidateDocument(sch, doc)
		if err != nil {
			return Config{}, &domainerrors.ConfigError{Err: err}
		}
		if !res.Valid {
			return Config{}, &domainerrors.ConfigError{
				Field: res.Errors[0].Field,
				Err:   errors.New(res.Summary()),
			}
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &domainerrors.ConfigError{Err: fmt.Errorf("decode config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
