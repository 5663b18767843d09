// Package config loads the rpg-lore YAML configuration
package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/redis"
)

// Defaults applied by Validate
const (
	DefaultHTTPAddress     = ":8080"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultGRPCPort        = 50051
	DefaultCacheTTL        = time.Hour
	DefaultMissTTL         = 5 * time.Minute
	DefaultSRDBaseURL      = "https://www.dnd5eapi.co/api/2014/"
	DefaultSRDTimeout      = 30 * time.Second
	DefaultTick            = 16 * time.Millisecond
	DefaultIdleTTL         = 30 * time.Minute
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Config is the full application configuration
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Redis    RedisConfig    `yaml:"redis"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	SRD      SRDConfig      `yaml:"srd"`
	Tooltip  TooltipConfig  `yaml:"tooltip"`
	Batch    BatchConfig    `yaml:"batch"`
	Sessions SessionsConfig `yaml:"sessions"`
	Log      LogConfig      `yaml:"log"`
}

// HTTPConfig configures the HTTP API listener
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GRPCConfig configures the gRPC health listener
type GRPCConfig struct {
	Port     int  `yaml:"port"`
	Disabled bool `yaml:"disabled"`
}

// RedisConfig configures the reference cache. No endpoints means no cache.
type RedisConfig struct {
	Mode       string        `yaml:"mode"`
	Endpoints  []string      `yaml:"endpoints"`
	MasterName string        `yaml:"master_name"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	UseTLS     bool          `yaml:"use_tls"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	// MissTTL caches lookups that found nothing; negative disables it
	MissTTL time.Duration `yaml:"miss_ttl"`
}

// Enabled reports whether a cache should be opened
func (c RedisConfig) Enabled() bool {
	return len(c.Endpoints) > 0
}

// CatalogConfig points at local game data files
type CatalogConfig struct {
	Dir string `yaml:"dir"`
}

// SRDConfig configures the dnd5e API fallback store
type SRDConfig struct {
	Disabled bool          `yaml:"disabled"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TooltipConfig tunes every tooltip manager
type TooltipConfig struct {
	ShowDelay      time.Duration `yaml:"show_delay"`
	HideDelay      time.Duration `yaml:"hide_delay"`
	ResolveTimeout time.Duration `yaml:"resolve_timeout"`
	Viewport       ViewportSize  `yaml:"viewport"`
}

// ViewportSize is a default host viewport
type ViewportSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BatchConfig tunes document processing
type BatchConfig struct {
	Tick                 time.Duration `yaml:"tick"`
	InlineFormatting     bool          `yaml:"inline_formatting"`
	ContentSelectors     []string      `yaml:"content_selectors"`
	DisplayNameSelectors []string      `yaml:"display_name_selectors"`
}

// SessionsConfig configures server-side tooltip sessions
type SessionsConfig struct {
	Disabled bool          `yaml:"disabled"`
	IdleTTL  time.Duration `yaml:"idle_ttl"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	// defaults never fail validation
	_ = cfg.Validate()
	return cfg
}

// Load reads a YAML file. An empty path returns the defaults. Unknown
// keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("config file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse decodes YAML bytes and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse config")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate checks values and fills in defaults
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.GRPC.Port < 0 || c.GRPC.Port > 65535 {
		vb.InvalidField("grpc.port", "must be between 0 and 65535")
	}
	if c.Redis.Enabled() {
		if c.Redis.Mode == "" {
			c.Redis.Mode = redis.ModeSingle
		}
		errors.ValidateEnum("redis.mode", c.Redis.Mode,
			[]string{redis.ModeSingle, redis.ModeCluster, redis.ModeFailover}, vb)
		if c.Redis.Mode == redis.ModeFailover && c.Redis.MasterName == "" {
			vb.RequiredField("redis.master_name")
		}
	}
	if c.Redis.CacheTTL < 0 {
		vb.InvalidField("redis.cache_ttl", "must not be negative")
	}
	for field, d := range map[string]time.Duration{
		"tooltip.show_delay":      c.Tooltip.ShowDelay,
		"tooltip.hide_delay":      c.Tooltip.HideDelay,
		"tooltip.resolve_timeout": c.Tooltip.ResolveTimeout,
		"batch.tick":              c.Batch.Tick,
		"sessions.idle_ttl":       c.Sessions.IdleTTL,
		"srd.timeout":             c.SRD.Timeout,
		"http.shutdown_timeout":   c.HTTP.ShutdownTimeout,
	} {
		if d < 0 {
			vb.InvalidField(field, "must not be negative")
		}
	}
	if c.Log.Level != "" {
		errors.ValidateEnum("log.level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "error"}, vb)
	}
	if c.Log.Format != "" {
		errors.ValidateEnum("log.format", c.Log.Format, []string{"text", "json"}, vb)
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if c.HTTP.Address == "" {
		c.HTTP.Address = DefaultHTTPAddress
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = DefaultGRPCPort
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = DefaultCacheTTL
	}
	if c.Redis.MissTTL == 0 {
		c.Redis.MissTTL = DefaultMissTTL
	}
	if c.SRD.BaseURL == "" {
		c.SRD.BaseURL = DefaultSRDBaseURL
	}
	if c.SRD.Timeout == 0 {
		c.SRD.Timeout = DefaultSRDTimeout
	}
	if c.Batch.Tick == 0 {
		c.Batch.Tick = DefaultTick
	}
	if c.Sessions.IdleTTL == 0 {
		c.Sessions.IdleTTL = DefaultIdleTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	return nil
}

// RedisClientConfig converts the cache settings for redis.Open
func (c *Config) RedisClientConfig() *redis.Config {
	return &redis.Config{
		Mode:       c.Redis.Mode,
		Endpoints:  c.Redis.Endpoints,
		MasterName: c.Redis.MasterName,
		Options: &redis.Options{
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			UseTLS:   c.Redis.UseTLS,
		},
	}
}
