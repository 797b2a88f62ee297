package config

import (
	"time"

	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/pricing"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/softclose"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Bidding   BiddingConfig   `yaml:"bidding"`
	SoftClose SoftCloseConfig `yaml:"soft_close"`
	Closer    CloserConfig    `yaml:"closer"`
	Events    EventsConfig    `yaml:"events"`
	Redis     RedisConfig     `yaml:"redis"`
	NATS      NATSConfig      `yaml:"nats"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token validation settings. Tokens are issued by the
// identity service; this service only validates them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"lotbid"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig limits bid submissions per client address.
type RateLimitConfig struct {
	BidsPerMinute   int           `yaml:"bids_per_minute"  env:"RATE_LIMIT_BIDS_PER_MINUTE" env-default:"60"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP"         env-default:"5m"`
}

// BiddingConfig holds the coordinator settings.
type BiddingConfig struct {
	IncrementTiersRaw string        `yaml:"increment_tiers"  env:"BIDDING_INCREMENT_TIERS"  env-default:"9.99:1,24.99:2,49.99:5,99.99:5,249.99:10,499.99:25,999.99:50,*:100"`
	MaxRetries        int           `yaml:"max_retries"      env:"BIDDING_MAX_RETRIES"      env-default:"5"`
	RetryBaseDelay    time.Duration `yaml:"retry_base_delay" env:"BIDDING_RETRY_BASE_DELAY" env-default:"10ms"`

	// Policy is parsed from IncrementTiersRaw during validation.
	Policy *pricing.Policy `yaml:"-" env:"-"`
}

// SoftCloseConfig holds the defaults applied when an auction leaves its
// soft-close numbers unset.
type SoftCloseConfig struct {
	WindowSec   int `yaml:"window_sec"   env:"SOFT_CLOSE_WINDOW_SEC"   env-default:"120"`
	ExtendSec   int `yaml:"extend_sec"   env:"SOFT_CLOSE_EXTEND_SEC"   env-default:"60"`
	ExtendLimit int `yaml:"extend_limit" env:"SOFT_CLOSE_EXTEND_LIMIT" env-default:"5"`
}

// Defaults converts the section to calculator defaults.
func (c SoftCloseConfig) Defaults() softclose.Defaults {
	return softclose.Defaults{
		Window:      time.Duration(c.WindowSec) * time.Second,
		Extend:      time.Duration(c.ExtendSec) * time.Second,
		ExtendLimit: c.ExtendLimit,
	}
}

// CloserConfig controls the lot expiry closer. The in-process runner is on
// unless Disabled is set; replicas that leave sweeping to an external
// scheduler set it.
type CloserConfig struct {
	Disabled      bool          `yaml:"disabled"       env:"CLOSER_DISABLED"`
	Interval      time.Duration `yaml:"interval"       env:"CLOSER_INTERVAL"       env-default:"60s"`
	BatchSize     int           `yaml:"batch_size"     env:"CLOSER_BATCH_SIZE"     env-default:"100"`
	Parallelism   int           `yaml:"parallelism"    env:"CLOSER_PARALLELISM"    env-default:"4"`
	TriggerSecret string        `yaml:"trigger_secret" env:"CLOSER_TRIGGER_SECRET"`
	LeaseTTL      time.Duration `yaml:"lease_ttl"      env:"CLOSER_LEASE_TTL"      env-default:"55s"`
}

// Enabled reports whether the in-process closer runner should start.
func (c CloserConfig) Enabled() bool { return !c.Disabled }

// EventsConfig controls the in-process event bus.
type EventsConfig struct {
	QueueSize      int           `yaml:"queue_size"      env:"EVENTS_QUEUE_SIZE"      env-default:"1024"`
	Workers        int           `yaml:"workers"         env:"EVENTS_WORKERS"         env-default:"4"`
	DeliverTimeout time.Duration `yaml:"deliver_timeout" env:"EVENTS_DELIVER_TIMEOUT" env-default:"5s"`
}

// RedisConfig enables the live broadcast channel and the closer lease.
// An empty Addr disables both.
type RedisConfig struct {
	Addr          string `yaml:"addr"           env:"REDIS_ADDR"`
	Password      string `yaml:"password"       env:"REDIS_PASSWORD"`
	DB            int    `yaml:"db"             env:"REDIS_DB"             env-default:"0"`
	ChannelPrefix string `yaml:"channel_prefix" env:"REDIS_CHANNEL_PREFIX" env-default:"auction"`
	LeaseKey      string `yaml:"lease_key"      env:"REDIS_LEASE_KEY"      env-default:"lotbid:closer:lease"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// NATSConfig enables publishing domain events to JetStream. An empty URL
// disables it.
type NATSConfig struct {
	URL            string        `yaml:"url"             env:"NATS_URL"`
	Stream         string        `yaml:"stream"          env:"NATS_STREAM"          env-default:"AUCTION_EVENTS"`
	SubjectPrefix  string        `yaml:"subject_prefix"  env:"NATS_SUBJECT_PREFIX"  env-default:"auction"`
	MaxAge         time.Duration `yaml:"max_age"         env:"NATS_MAX_AGE"         env-default:"168h"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"NATS_CONNECT_TIMEOUT" env-default:"5s"`
}

// Enabled reports whether a NATS URL is configured.
func (c NATSConfig) Enabled() bool { return c.URL != "" }
