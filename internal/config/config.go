package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	ORS      ORSConfig
	Events   EventsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	Env                string
	CORSAllowedOrigins []string
}

// StoreConfig выбирает бэкенд хранилища маршрутов
type StoreConfig struct {
	Driver       string
	DatabaseFile string
	BusyTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ProviderCacheTTL time.Duration
}

// ORSConfig - настройки OpenRouteService
type ORSConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
}

type EventsConfig struct {
	Enabled bool
	Stream  string
}

type LogConfig struct {
	Level string
}

// Load читает .env (если он есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               v.GetString("API_HOST"),
			Port:               v.GetInt("API_PORT"),
			Env:                v.GetString("API_ENV"),
			CORSAllowedOrigins: parseList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		Store: StoreConfig{
			Driver:       strings.ToLower(v.GetString("STORE_DRIVER")),
			DatabaseFile: v.GetString("DATABASE_FILE"),
			BusyTimeout:  time.Duration(v.GetInt("STORE_BUSY_TIMEOUT")) * time.Millisecond,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ProviderCacheTTL: time.Duration(v.GetInt("PROVIDER_CACHE_TTL")) * time.Second,
		},
		ORS: ORSConfig{
			APIKey:         v.GetString("ORS_API_KEY"),
			BaseURL:        strings.TrimRight(v.GetString("ORS_BASE_URL"), "/"),
			RequestTimeout: time.Duration(v.GetInt("ORS_REQUEST_TIMEOUT")) * time.Second,
		},
		Events: EventsConfig{
			Enabled: v.GetBool("EVENTS_ENABLED"),
			Stream:  v.GetString("EVENTS_STREAM"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "127.0.0.1")
	v.SetDefault("API_PORT", 8000)
	v.SetDefault("API_ENV", "production")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://127.0.0.1:5500,http://localhost:5500")

	v.SetDefault("STORE_DRIVER", StoreDriverSQLite)
	v.SetDefault("DATABASE_FILE", "./data/appdata.db")
	v.SetDefault("STORE_BUSY_TIMEOUT", 5000)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 900)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("PROVIDER_CACHE_TTL", 3600)

	v.SetDefault("ORS_BASE_URL", "https://api.openrouteservice.org")
	v.SetDefault("ORS_REQUEST_TIMEOUT", 15)

	v.SetDefault("EVENTS_ENABLED", false)
	v.SetDefault("EVENTS_STREAM", "stream:routes:events")

	v.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverSQLite:
		if c.Store.DatabaseFile == "" {
			return fmt.Errorf("DATABASE_FILE must be set for the sqlite store")
		}
	case StoreDriverPostgres:
		if c.Database.DBName == "" {
			return fmt.Errorf("DB_NAME must be set for the postgres store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Events.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("EVENTS_ENABLED requires REDIS_ENABLED")
	}

	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения PostgreSQL в формате key=value для pgx
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
