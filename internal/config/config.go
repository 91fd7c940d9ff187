// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all assistant configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	Display Display `yaml:"display"`
	Search  Search  `yaml:"search"`
}

// Storage holds the location of the address book document.
type Storage struct {
	Path     string `yaml:"path"`
	Autosave bool   `yaml:"autosave"` // Save after every command that changes data
}

// Logging holds log destination settings.
type Logging struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	File   string `yaml:"file"`   // Empty disables logging
	Format string `yaml:"format"` // "json" | "console"
}

// Display holds interactive front-end settings.
type Display struct {
	Plain  bool   `yaml:"plain"` // Force the line-based loop even on a TTY
	Prompt string `yaml:"prompt"`
}

// Search holds search tuning.
type Search struct {
	MinNoteTerm int `yaml:"min_note_term"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Path: "$HOME/.assistant/book.json",
		},
		Logging: Logging{
			Level:  "info",
			File:   "$HOME/.assistant/assistant.log",
			Format: "json",
		},
		Display: Display{
			Prompt: "Enter a command: ",
		},
		Search: Search{
			MinNoteTerm: 3,
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return errors.New("config: storage.path cannot be empty")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
		// valid
	default:
		return fmt.Errorf("config: logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	if c.Search.MinNoteTerm < 1 {
		return fmt.Errorf("config: search.min_note_term must be positive, got %d", c.Search.MinNoteTerm)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ASSISTANT_DATA_FILE, ASSISTANT_AUTOSAVE,
// ASSISTANT_LOG_LEVEL, ASSISTANT_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ASSISTANT_DATA_FILE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ASSISTANT_AUTOSAVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid ASSISTANT_AUTOSAVE %q: %w", v, err)
		}
		c.Storage.Autosave = b
	}
	if v := os.Getenv("ASSISTANT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("ASSISTANT_LOG_FILE"); ok {
		// An explicitly empty value turns logging off.
		c.Logging.File = v
	}
	return nil
}

// ExpandPaths expands environment references such as $HOME in file paths.
func (c *Config) ExpandPaths() {
	c.Storage.Path = os.ExpandEnv(c.Storage.Path)
	c.Logging.File = os.ExpandEnv(c.Logging.File)
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Logging *rawLogging `yaml:"logging"`
	Display *rawDisplay `yaml:"display"`
	Search  *rawSearch  `yaml:"search"`
}

type rawStorage struct {
	Path     *string `yaml:"path"`
	Autosave *bool   `yaml:"autosave"`
}

type rawLogging struct {
	Level  *string `yaml:"level"`
	File   *string `yaml:"file"`
	Format *string `yaml:"format"`
}

type rawDisplay struct {
	Plain  *bool   `yaml:"plain"`
	Prompt *string `yaml:"prompt"`
}

type rawSearch struct {
	MinNoteTerm *int `yaml:"min_note_term"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		if layer.Storage.Path != nil {
			c.Storage.Path = *layer.Storage.Path
		}
		if layer.Storage.Autosave != nil {
			c.Storage.Autosave = *layer.Storage.Autosave
		}
	}
	if layer.Logging != nil {
		if layer.Logging.Level != nil {
			c.Logging.Level = *layer.Logging.Level
		}
		if layer.Logging.File != nil {
			c.Logging.File = *layer.Logging.File
		}
		if layer.Logging.Format != nil {
			c.Logging.Format = *layer.Logging.Format
		}
	}
	if layer.Display != nil {
		if layer.Display.Plain != nil {
			c.Display.Plain = *layer.Display.Plain
		}
		if layer.Display.Prompt != nil {
			c.Display.Prompt = *layer.Display.Prompt
		}
	}
	if layer.Search != nil {
		if layer.Search.MinNoteTerm != nil {
			c.Search.MinNoteTerm = *layer.Search.MinNoteTerm
		}
	}
}
