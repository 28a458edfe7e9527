// Package config loads the analyzer configuration: the scoring table plus
// logging, output and batch settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"spineperf/internal/score"
)

// EnvConfig names the config file when no --config flag is given.
const EnvConfig = "SPINEPERF_CONFIG"

// Report formats understood by the renderers.
var Formats = []string{"text", "markdown", "html", "json"}

// Log formats understood by the logging package.
var LogFormats = []string{"human", "json"}

// Config holds the scoring table and tool settings.
type Config struct {
	Scoring   score.Tuning `json:"scoring" toml:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Logging   Logging      `json:"logging" toml:"logging" yaml:"logging" mapstructure:"logging"`
	Output    Output       `json:"output" toml:"output" yaml:"output" mapstructure:"output"`
	Workers   int          `json:"workers" toml:"workers" yaml:"workers" mapstructure:"workers"`
	HistoryDB string       `json:"history_db" toml:"history_db" yaml:"history_db" mapstructure:"history_db"`
}

type Logging struct {
	Format string `json:"format" toml:"format" yaml:"format" mapstructure:"format"`
	Level  string `json:"level" toml:"level" yaml:"level" mapstructure:"level"`
}

type Output struct {
	Format string `json:"format" toml:"format" yaml:"format" mapstructure:"format"`
	Dir    string `json:"dir" toml:"dir" yaml:"dir" mapstructure:"dir"`
	// Gzip compresses the batch manifest.
	Gzip bool `json:"gzip" toml:"gzip" yaml:"gzip" mapstructure:"gzip"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scoring:   score.Default(),
		Logging:   Logging{Format: "human", Level: "info"},
		Output:    Output{Format: "text", Dir: "."},
		HistoryDB: filepath.Join(".spineperf", "history.db"),
	}
}

// Path returns flagPath, or the SPINEPERF_CONFIG file when flagPath is empty.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvConfig)
}

// Load reads a json, toml or yaml config file on top of Default.
// Fields not set in the file keep their default values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Marshal encodes cfg as json, toml or yaml.
func Marshal(cfg Config, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "toml":
		data, err = toml.Marshal(cfg)
	case "yaml", "yml":
		data, err = yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("config: unsupported config format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("config: encode %s: %w", format, err)
	}
	return data, nil
}

// Save writes cfg in the format named by the file extension.
func Save(path string, cfg Config) error {
	data, err := Marshal(cfg, filepath.Ext(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Format    string
	OutputDir string
	Workers   int
	LogFormat string
	LogLevel  string
	HistoryDB string
}

// Resolve applies CLI flags, then fills any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Format != "" {
		c.Output.Format = flags.Format
	}
	if flags.OutputDir != "" {
		c.Output.Dir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogFormat != "" {
		c.Logging.Format = flags.LogFormat
	}
	if flags.LogLevel != "" {
		c.Logging.Level = flags.LogLevel
	}
	if flags.HistoryDB != "" {
		c.HistoryDB = flags.HistoryDB
	}

	def := Default()
	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.HistoryDB == "" {
		c.HistoryDB = def.HistoryDB
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate checks the scoring table and the enumerated settings.
func (c Config) Validate() error {
	var errs []error
	if err := c.Scoring.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(Formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("config: output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format))
	}
	if !slices.Contains(LogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("config: logging.format must be one of %s, got %q", strings.Join(LogFormats, ", "), c.Logging.Format))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: workers must be >= 0, got %d", c.Workers))
	}
	return errors.Join(errs...)
}
