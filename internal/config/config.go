package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "LINKRELAY"

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Resolver   ResolverConfig   `mapstructure:"resolver"`
	Credential CredentialConfig `mapstructure:"credential"`
	Recorder   RecorderConfig   `mapstructure:"recorder"`
	GeoIP      GeoIPConfig      `mapstructure:"geoip"`
	Session    SessionConfig    `mapstructure:"session"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	RocketMQ   RocketMQConfig   `mapstructure:"rocketmq"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// TrustedProxies lists the addresses allowed to set X-Forwarded-For.
	// Empty means the client address is always the TCP peer.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver string      `mapstructure:"driver"`
	DSN    string      `mapstructure:"dsn"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig represents Redis configuration. An empty Addr disables the link cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the Redis link cache
type CacheConfig struct {
	LinkTTL time.Duration `mapstructure:"link_ttl"`
}

// ResolverConfig bounds the blocking calls made while resolving a short code
type ResolverConfig struct {
	StorageTimeout    time.Duration `mapstructure:"storage_timeout"`
	CredentialTimeout time.Duration `mapstructure:"credential_timeout"`
}

// CredentialConfig represents password hashing configuration
type CredentialConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// RecorderConfig represents the click recorder configuration
type RecorderConfig struct {
	QueueSize    int           `mapstructure:"queue_size"`
	Workers      int           `mapstructure:"workers"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// GeoIPConfig represents visitor region lookup configuration
type GeoIPConfig struct {
	DBPath          string `mapstructure:"db_path"`
	TrustCountryHdr bool   `mapstructure:"trust_country_header"`
	CountryHeader   string `mapstructure:"country_header"`
}

// SessionConfig represents the unlock cookie session configuration
type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	MaxAge int    `mapstructure:"max_age"`
	Secure bool   `mapstructure:"secure"`
}

// RateLimitConfig represents per-IP limits on password submissions
type RateLimitConfig struct {
	UnlockRPS   float64 `mapstructure:"unlock_rps"`
	UnlockBurst int     `mapstructure:"unlock_burst"`
}

// RocketMQConfig represents RocketMQ configuration. An empty NameServer keeps
// click events on the in-process path.
type RocketMQConfig struct {
	NameServer string `mapstructure:"nameserver"`
	Topic      string `mapstructure:"topic"`
	Group      string `mapstructure:"group"`
}

// Global config instance
var cfg *Config

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand environment variables
	c.Database.DSN = expandEnv(c.Database.DSN)
	c.Database.Redis.Password = expandEnv(c.Database.Redis.Password)
	c.Session.Secret = expandEnv(c.Session.Secret)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg = c
	return c, nil
}

// Get returns the global config instance
func Get() *Config {
	return cfg
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Resolver.StorageTimeout <= 0 || c.Resolver.CredentialTimeout <= 0 {
		return fmt.Errorf("resolver timeouts must be positive")
	}
	if c.Recorder.QueueSize <= 0 || c.Recorder.Workers <= 0 {
		return fmt.Errorf("recorder queue_size and workers must be positive")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("cache.link_ttl", 30*time.Second)
	v.SetDefault("resolver.storage_timeout", 2*time.Second)
	v.SetDefault("resolver.credential_timeout", 2*time.Second)
	v.SetDefault("credential.bcrypt_cost", 10)
	v.SetDefault("recorder.queue_size", 1024)
	v.SetDefault("recorder.workers", 4)
	v.SetDefault("recorder.write_timeout", 3*time.Second)
	v.SetDefault("geoip.country_header", "CF-IPCountry")
	v.SetDefault("session.name", "linkrelay")
	v.SetDefault("session.max_age", 3600)
	v.SetDefault("ratelimit.unlock_rps", 1.0)
	v.SetDefault("ratelimit.unlock_burst", 5)
	v.SetDefault("rocketmq.topic", "click_event")
	v.SetDefault("rocketmq.group", "linkrelay_consumer_group")
}

// expandEnv expands a whole-value ${VAR} reference
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}
