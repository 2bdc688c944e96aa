package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"` // "local" or "prod"
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // "postgres" or "sqlite"
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
	Path     string `mapstructure:"path"` // sqlite file
	LogMode  bool   `mapstructure:"log_mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Cookie string        `mapstructure:"cookie"`
	TTL    time.Duration `mapstructure:"ttl"`
	Secure bool          `mapstructure:"secure"`
}

type QuoteConfig struct {
	Provider          string            `mapstructure:"provider"` // "alphavantage" or "static"
	APIKey            string            `mapstructure:"api_key"`
	BaseURL           string            `mapstructure:"base_url"`
	RequestsPerMinute int               `mapstructure:"requests_per_minute"`
	Timeout           time.Duration     `mapstructure:"timeout"`
	CacheTTL          time.Duration     `mapstructure:"cache_ttl"`
	Static            map[string]string `mapstructure:"static"` // SYMBOL -> "Name|123.45"
}

type LedgerConfig struct {
	StartingCash string `mapstructure:"starting_cash"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Quote    QuoteConfig    `mapstructure:"quote"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Security SecurityConfig `mapstructure:"security"`
}

// legacyEnv keeps the variable names older deployments export.
var legacyEnv = map[string]string{
	"database.host":     "DB_HOST",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_NAME",
	"database.port":     "DB_PORT",
	"session.secret":    "JWT_SECRET",
	"quote.api_key":     "ALPHA_VANTAGE_API_KEY",
	"redis.addr":        "REDIS_ADDR",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", ":8080")
	v.SetDefault("app.env", "local")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.path", "data/finance.db")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.issuer", "paper-trader")
	v.SetDefault("session.cookie", "session")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("quote.provider", "alphavantage")
	v.SetDefault("quote.base_url", "https://www.alphavantage.co/query")
	v.SetDefault("quote.requests_per_minute", 30)
	v.SetDefault("quote.timeout", 10*time.Second)
	v.SetDefault("quote.cache_ttl", time.Minute)

	v.SetDefault("ledger.starting_cash", "10000.00")
	v.SetDefault("security.bcrypt_cost", 10)
}

// Load reads configuration from .env, an optional config file, environment
// variables and defaults, in increasing order of precedence for the latter.
// An empty path looks for config.yaml in the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Session.Secret == "" {
		return errors.New("config: session secret (JWT_SECRET) is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: session ttl must be positive")
	}
	switch c.Quote.Provider {
	case "alphavantage":
		if c.Quote.APIKey == "" {
			return errors.New("config: quote api key (ALPHA_VANTAGE_API_KEY) is required")
		}
	case "static":
		if len(c.Quote.Static) == 0 {
			return errors.New("config: static quote provider needs quote.static entries")
		}
	default:
		return fmt.Errorf("config: unknown quote provider %q", c.Quote.Provider)
	}
	return nil
}
