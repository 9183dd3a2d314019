package config

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/kbukum/tripcart/redis"
)

// Identity storage backends.
const (
	IdentityBackendMemory = "memory"
	IdentityBackendFile   = "file"
	IdentityBackendRedis  = "redis"
)

// ClientConfig is the configuration of the tripcart client and shell.
type ClientConfig struct {
	ServiceConfig `mapstructure:",squash"`

	API           APIConfig           `yaml:"api" mapstructure:"api"`
	Identity      IdentityConfig      `yaml:"identity" mapstructure:"identity"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// APIConfig describes the marketplace backend and the executor defaults.
type APIConfig struct {
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Retries  int           `yaml:"retries" mapstructure:"retries"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// IdentityConfig selects where the identity mirror is kept between runs.
type IdentityConfig struct {
	Backend string       `yaml:"backend" mapstructure:"backend"`
	Path    string       `yaml:"path" mapstructure:"path"`
	Redis   redis.Config `yaml:"redis" mapstructure:"redis"`
}

// ObservabilityConfig configures OTLP export of traces and metrics.
type ObservabilityConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// Executor defaults.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultRetries  = 3
	DefaultCacheTTL = 5 * time.Minute
)

// ClientDefaults returns the default value of every overridable key.
func ClientDefaults() map[string]any {
	return map[string]any{
		"name":                      "tripcart",
		"environment":               EnvDevelopment,
		"debug":                     false,
		"logging.level":             "info",
		"logging.format":            "console",
		"logging.output":            "stderr",
		"logging.timestamp":         true,
		"api.base_url":              "http://localhost:8080",
		"api.timeout":               DefaultTimeout,
		"api.retries":               DefaultRetries,
		"api.cache_ttl":             DefaultCacheTTL,
		"identity.backend":          IdentityBackendFile,
		"identity.path":             "",
		"identity.redis.enabled":    false,
		"identity.redis.addr":       "localhost:6379",
		"identity.redis.password":   "",
		"identity.redis.db":         0,
		"observability.enabled":     false,
		"observability.endpoint":    "localhost:4318",
		"observability.insecure":    true,
		"observability.sample_rate": 1.0,
	}
}

// LoadClientConfig loads, defaults and validates the client configuration.
func LoadClientConfig(opts ...LoaderOption) (*ClientConfig, error) {
	var cfg ClientConfig
	opts = append([]LoaderOption{WithDefaults(ClientDefaults())}, opts...)
	if err := Load("tripcart", &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero values of every section.
func (c *ClientConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.API.ApplyDefaults()
	c.Identity.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *ClientConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("config.api: %w", err)
	}
	if err := c.Identity.Validate(); err != nil {
		return fmt.Errorf("config.identity: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

func (c *APIConfig) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries < 0 {
		c.Retries = DefaultRetries
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https (got: %s)", c.BaseURL)
	}
	if c.Retries > 10 {
		return fmt.Errorf("retries must be <= 10 (got: %d)", c.Retries)
	}
	return nil
}

func (c *IdentityConfig) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = IdentityBackendFile
	}
	if c.Backend == IdentityBackendRedis {
		c.Redis.Enabled = true
		c.Redis.ApplyDefaults()
	}
}

func (c *IdentityConfig) Validate() error {
	valid := []string{IdentityBackendMemory, IdentityBackendFile, IdentityBackendRedis}
	if !slices.Contains(valid, c.Backend) {
		return fmt.Errorf("backend must be one of %v (got: %s)", valid, c.Backend)
	}
	if c.Backend == IdentityBackendRedis {
		return c.Redis.Validate()
	}
	return nil
}

func (c *ObservabilityConfig) ApplyDefaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = 1.0
	}
}

func (c *ObservabilityConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when enabled")
	}
	if c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be in (0, 1] (got: %v)", c.SampleRate)
	}
	return nil
}
