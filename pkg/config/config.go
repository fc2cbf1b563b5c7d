package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// DefaultDecimals is the display precision used when valuation.decimals is unset.
const DefaultDecimals int32 = 2

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"127.0.0.1"`
		Port            int           `yaml:"port" default:"3333"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout"` // bounds whole responses, streams included; 0 disables
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled     bool          `yaml:"enabled"`
		Path        string        `yaml:"path" default:"/metrics"`
		SlowRequest time.Duration `yaml:"slow_request" default:"2s"`
	} `yaml:"metrics"`
	Stream struct {
		DemoMessage    string        `yaml:"demo_message" default:"Hello, world!"`
		WSWriteTimeout time.Duration `yaml:"ws_write_timeout" default:"10s"`
		SlowSend       time.Duration `yaml:"slow_send" default:"1s"`
		DatastarURL    string        `yaml:"datastar_url"`
	} `yaml:"stream"`
	Valuation struct {
		Decimals        *int32 `yaml:"decimals"` // pointer so an explicit 0 survives default filling
		AllowDegenerate bool   `yaml:"allow_degenerate"`
	} `yaml:"valuation"`
}

// Default returns a configuration built from struct defaults only.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. Unset keys take their
// struct defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DEMO_MESSAGE"); v != "" {
		c.Stream.DemoMessage = v
	}
	if v := os.Getenv("VALUATION_DECIMALS"); v != "" {
		d, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("VALUATION_DECIMALS: %w", err)
		}
		decimals := int32(d)
		c.Valuation.Decimals = &decimals
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json', got '%s'", c.Log.Format)
	}
	if c.Stream.DemoMessage == "" {
		return fmt.Errorf("stream.demo_message cannot be empty")
	}
	// Prefixes are cut by rune and inserted verbatim, so markup would break.
	if strings.ContainsAny(c.Stream.DemoMessage, "<&") {
		return fmt.Errorf("stream.demo_message must be plain text without '<' or '&'")
	}
	if d := c.DisplayDecimals(); d < 0 || d > 12 {
		return fmt.Errorf("valuation.decimals must be in 0..12, got %d", d)
	}
	return nil
}

// DisplayDecimals returns valuation.decimals, or DefaultDecimals when unset.
func (c *Config) DisplayDecimals() int32 {
	if c.Valuation.Decimals == nil {
		return DefaultDecimals
	}
	return *c.Valuation.Decimals
}
