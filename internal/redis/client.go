// Package redis opens go-redis clients for the reference cache
package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// Connection modes
const (
	ModeSingle   = "single"
	ModeCluster  = "cluster"
	ModeFailover = "failover"
)

// Options configures connection pooling shared by every mode
type Options struct {
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	UseTLS          bool
	ReadOnly        bool // cluster only
}

// Config selects a connection mode and its endpoints
type Config struct {
	Mode       string
	Endpoints  []string
	MasterName string
	Options    *Options
}

// Validate checks the endpoints required by the chosen mode
func (c *Config) Validate() error {
	if c.Mode == "" {
		c.Mode = ModeSingle
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("Mode", c.Mode, []string{ModeSingle, ModeCluster, ModeFailover}, vb)
	if len(c.Endpoints) == 0 {
		vb.RequiredField("Endpoints")
	}
	if c.Mode == ModeFailover && c.MasterName == "" {
		vb.RequiredField("MasterName")
	}
	return vb.Build()
}

// Open creates a client for the configured mode
func Open(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid redis config")
	}

	switch cfg.Mode {
	case ModeCluster:
		return NewClusterClient(cfg.Endpoints, cfg.Options)
	case ModeFailover:
		return NewFailoverClient(cfg.MasterName, cfg.Endpoints, cfg.Options)
	default:
		return NewClient(cfg.Endpoints[0], cfg.Options)
	}
}

// Ping verifies the server answers within the context deadline
func Ping(ctx context.Context, client Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "redis ping failed")
	}
	return nil
}

func tlsConfig(opts *Options) *tls.Config {
	if !opts.UseTLS {
		return nil
	}
	return &tls.Config{
		InsecureSkipVerify: true, // #nosec G402 // self-signed certs in dev clusters
	}
}

// NewClient creates a client for a single instance
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	return redis.NewClient(&redis.Options{
		Addr:            endpoint,
		Password:        opts.Password,
		DB:              opts.DB,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
		TLSConfig:       tlsConfig(opts),
	}), nil
}

// NewClusterClient creates a client for cluster mode
func NewClusterClient(endpoints []string, opts *Options) (Client, error) {
	if len(endpoints) == 0 {
		return nil, errors.InvalidArgument("redis: at least one endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	return redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        endpoints,
		Password:     opts.Password,
		MinIdleConns: opts.MinIdleConns,
		PoolSize:     opts.PoolSize,
		MaxRetries:   opts.MaxRetries,
		ReadOnly:     opts.ReadOnly,
		TLSConfig:    tlsConfig(opts),
	}), nil
}

// NewFailoverClient creates a client that follows a sentinel-managed master
func NewFailoverClient(masterName string, sentinelAddrs []string, opts *Options) (Client, error) {
	if masterName == "" {
		return nil, errors.InvalidArgument("redis: master name is required")
	}
	if len(sentinelAddrs) == 0 {
		return nil, errors.InvalidArgument("redis: at least one sentinel address is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	return redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:    masterName,
		SentinelAddrs: sentinelAddrs,
		Password:      opts.Password,
		DB:            opts.DB,
		MinIdleConns:  opts.MinIdleConns,
		PoolSize:      opts.PoolSize,
		MaxRetries:    opts.MaxRetries,
		TLSConfig:     tlsConfig(opts),
	}), nil
}
