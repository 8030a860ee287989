package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"ymm/catalog/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Fitment    FitmentConfig    `mapstructure:"fitment"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Search     SearchConfig     `mapstructure:"search"`
	Events     EventsConfig     `mapstructure:"events"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	CORSOrigin      string `mapstructure:"cors_origin"`
	AppProxyPrefix  string `mapstructure:"app_proxy_prefix"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // Seconds
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxConns       int    `mapstructure:"max_conns"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	SessionTTL    int    `mapstructure:"session_ttl"` // Seconds
	StreamPrefix  string `mapstructure:"stream_prefix"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"` // Seconds
	MaxWorkers    int    `mapstructure:"max_workers"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FitmentConfig holds the fitment catalog API configuration
type FitmentConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	APIKey               string   `mapstructure:"api_key"`
	PerPage              int      `mapstructure:"per_page"`
	FacetPerPage         int      `mapstructure:"facet_per_page"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`
}

// StorefrontConfig holds the merchant storefront endpoints
type StorefrontConfig struct {
	BaseURL      string            `mapstructure:"base_url"`
	ProductLimit int               `mapstructure:"product_limit"`
	Timeout      int               `mapstructure:"timeout"`
	Sections     map[string]string `mapstructure:"sections"` // Section id -> CSS selector of its content
}

type SearchConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// EventsConfig controls where search and cart events are published
type EventsConfig struct {
	RedisStream   bool   `mapstructure:"redis_stream"`
	NATSURL       string `mapstructure:"nats_url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from config.yaml with environment variable overrides
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from config.yaml in the working directory when path is empty.
// A missing config.yaml is not an error: defaults and environment variables are enough to start.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Warn("⚠️ config.yaml not found, using defaults and environment")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects values no component can work with. A missing fitment API key is allowed:
// shops may store their own key, and the gap is reported per request.
func (c *Config) Validate() error {
	const op = "config.validate"

	switch {
	case c.Search.PageSize <= 0:
		return domain.NewConfigurationError(op, "search.page_size must be positive", nil)
	case c.Fitment.PerPage <= 0:
		return domain.NewConfigurationError(op, "fitment.per_page must be positive", nil)
	case c.Storefront.ProductLimit <= 0:
		return domain.NewConfigurationError(op, "storefront.product_limit must be positive", nil)
	case c.Fitment.BaseURL == "":
		return domain.NewConfigurationError(op, "fitment.base_url is required", nil)
	case c.Server.Port <= 0:
		return domain.NewConfigurationError(op, "server.port must be positive", nil)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.app_proxy_prefix", "/apps/ymm-widget")
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "ymm")
	v.SetDefault("database.user", "ymm_user")
	v.SetDefault("database.password", "ymm_pass")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.session_ttl", 86400)
	v.SetDefault("redis.stream_prefix", "ymm:stream:")
	v.SetDefault("redis.consumer_group", "ymm_activity")
	v.SetDefault("redis.min_idle_time", 60)
	v.SetDefault("redis.max_workers", 2)

	v.SetDefault("fitment.base_url", "https://webservice.opticatonline.com/autocare/v1/services/Catalog.jsonEndpoint")
	v.SetDefault("fitment.api_key", "")
	v.SetDefault("fitment.per_page", 100)
	v.SetDefault("fitment.facet_per_page", 1000)
	v.SetDefault("fitment.timeout", 30)
	v.SetDefault("fitment.max_requests_per_second", 10)
	v.SetDefault("fitment.proxies", []string{})

	v.SetDefault("storefront.base_url", "http://localhost:3000")
	v.SetDefault("storefront.product_limit", 250)
	v.SetDefault("storefront.timeout", 15)
	v.SetDefault("storefront.sections", map[string]string{
		"cart-drawer": ".cart-drawer__content",
	})

	v.SetDefault("search.page_size", 20)

	v.SetDefault("events.redis_stream", true)
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject_prefix", "ymm.events")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
