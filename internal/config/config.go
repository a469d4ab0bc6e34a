// Package config loads run configuration: built-in defaults, then an
// optional YAML file, then PATHFINDER_* environment variables (a local .env
// file is read first and never overrides variables already set).
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceFile       = "file"
	SourceRows       = "rows"
	SourceSQLite     = "sqlite"
	SourcePostgres   = "postgres"
	SourceClickhouse = "clickhouse"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full application configuration.
type Config struct {
	Engine struct {
		Workers       int   `yaml:"workers"`
		IncludeTokens []int `yaml:"include_tokens"`
		ProgressEvery int   `yaml:"progress_every"`
	} `yaml:"engine"`
	Source struct {
		Kind     string `yaml:"kind"`
		Path     string `yaml:"path"`     // snapshot file, rows file or sqlite database
		DSN      string `yaml:"dsn"`      // postgres / clickhouse
		Exchange string `yaml:"exchange"` // load only this exchange's pools when set
	} `yaml:"source"`
	Registry struct {
		Exchanges []string `yaml:"exchanges"`
	} `yaml:"registry"`
	Output struct {
		Dir     string   `yaml:"dir"`
		Formats []string `yaml:"formats"`
	} `yaml:"output"`
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Addr            string `yaml:"addr"`
		IntervalSeconds int    `yaml:"interval_seconds"`
	} `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Engine.Workers = 5
	c.Engine.ProgressEvery = 10000
	c.Source.Kind = SourceFile
	c.Source.Path = "pools.json"
	c.Registry.Exchanges = []string{"sushiswap_v2", "meshswap"}
	c.Output.Dir = "output"
	c.Output.Formats = []string{FormatJSON, FormatMarkdown}
	c.Logging.Level = "info"
	c.Server.Addr = ":9090"
	c.Server.IntervalSeconds = 300
	return c
}

// Load builds the configuration. path may be empty, in which case
// PATHFINDER_CONFIG is consulted; a missing file is an error only when a
// path was given explicitly.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c := Default()

	if path == "" {
		path = os.Getenv("PATHFINDER_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func applyEnv(c *Config) error {
	if v := os.Getenv("PATHFINDER_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PATHFINDER_WORKERS=%q", ErrInvalidConfig, v)
		}
		c.Engine.Workers = n
	}
	if v := os.Getenv("PATHFINDER_INCLUDE_TOKENS"); v != "" {
		tokens, err := ParseTokenList(v)
		if err != nil {
			return fmt.Errorf("%w: PATHFINDER_INCLUDE_TOKENS: %v", ErrInvalidConfig, err)
		}
		c.Engine.IncludeTokens = tokens
	}
	if v := os.Getenv("PATHFINDER_SOURCE"); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv("PATHFINDER_SOURCE_PATH"); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv("PATHFINDER_SOURCE_EXCHANGE"); v != "" {
		c.Source.Exchange = v
	}
	// DSNs only from env in deployments; YAML value is kept otherwise
	if v := os.Getenv("POSTGRES_DSN"); v != "" && c.Source.Kind == SourcePostgres {
		c.Source.DSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" && c.Source.Kind == SourceClickhouse {
		c.Source.DSN = v
	}
	if v := os.Getenv("PATHFINDER_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("PATHFINDER_OUTPUT_FORMATS"); v != "" {
		c.Output.Formats = splitCSV(v)
	}
	if v := os.Getenv("PATHFINDER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PATHFINDER_LOG_PRETTY"); v == "1" || v == "true" {
		c.Logging.Pretty = true
	}
	if v := os.Getenv("PATHFINDER_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.Engine.Workers < 1 {
		return fmt.Errorf("%w: engine.workers must be >= 1, got %d", ErrInvalidConfig, c.Engine.Workers)
	}
	for _, t := range c.Engine.IncludeTokens {
		if t < 0 {
			return fmt.Errorf("%w: engine.include_tokens contains negative id %d", ErrInvalidConfig, t)
		}
	}

	switch c.Source.Kind {
	case SourceFile, SourceRows, SourceSQLite:
		if c.Source.Path == "" {
			return fmt.Errorf("%w: source.path is required for %s source", ErrInvalidConfig, c.Source.Kind)
		}
	case SourcePostgres, SourceClickhouse:
		if c.Source.DSN == "" {
			return fmt.Errorf("%w: source.dsn is required for %s source", ErrInvalidConfig, c.Source.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind)
	}

	if len(c.Registry.Exchanges) == 0 {
		return fmt.Errorf("%w: registry.exchanges must not be empty", ErrInvalidConfig)
	}
	if c.Source.Exchange != "" && !slices.Contains(c.Registry.Exchanges, c.Source.Exchange) {
		return fmt.Errorf("%w: source.exchange %q is not in registry.exchanges", ErrInvalidConfig, c.Source.Exchange)
	}

	for _, f := range c.Output.Formats {
		switch f {
		case FormatJSON, FormatCSV, FormatMarkdown:
		default:
			return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, f)
		}
	}
	return nil
}

// ParseTokenList parses a comma-separated list of token ids.
func ParseTokenList(s string) ([]int, error) {
	var out []int
	for _, part := range splitCSV(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse token id %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
