package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage and stock backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendHTTP   = "http"
)

// Config groups the settings of the cart server and its tools. Values come
// from the environment, optionally from a .env or config file.
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	GRPC    GRPCConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Redis   RedisConfig
	MySQL   MySQLConfig
}

type AppConfig struct {
	Env      string // development, staging, production
	LogLevel string
}

type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type GRPCConfig struct {
	Port           int
	HealthInterval time.Duration
}

func (c GRPCConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// CatalogConfig points at the storefront API serving /products and /stock.
type CatalogConfig struct {
	BaseURL  string
	Timeout  time.Duration // 0 disables the per-request timeout
	SeedFile string        // used by the fake catalog server
	Port     int           // fake catalog server port
}

type CartConfig struct {
	StorageBackend string // memory, redis, mysql
	StockSource    string // http, redis, mysql
	StorageKey     string
}

type RedisConfig struct {
	Addr string
	DB   int
}

type MySQLConfig struct {
	DSN string
}

// Load reads the configuration. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	_ = v.MergeInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		GRPC: GRPCConfig{
			Port:           v.GetInt("GRPC_PORT"),
			HealthInterval: v.GetDuration("GRPC_HEALTH_INTERVAL"),
		},
		Catalog: CatalogConfig{
			BaseURL:  v.GetString("CATALOG_BASE_URL"),
			Timeout:  v.GetDuration("CATALOG_TIMEOUT"),
			SeedFile: v.GetString("CATALOG_SEED_FILE"),
			Port:     v.GetInt("CATALOG_PORT"),
		},
		Cart: CartConfig{
			StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
			StockSource:    strings.ToLower(v.GetString("STOCK_SOURCE")),
			StorageKey:     v.GetString("CART_STORAGE_KEY"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			DB:   v.GetInt("REDIS_DB"),
		},
		MySQL: MySQLConfig{
			DSN: v.GetString("MYSQL_DSN"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("GRPC_PORT", 50051)
	v.SetDefault("GRPC_HEALTH_INTERVAL", "10s")
	v.SetDefault("CATALOG_BASE_URL", "http://localhost:3333")
	v.SetDefault("CATALOG_TIMEOUT", "10s")
	v.SetDefault("CATALOG_SEED_FILE", "configs/catalog.json")
	v.SetDefault("CATALOG_PORT", 3333)
	v.SetDefault("STORAGE_BACKEND", BackendMemory)
	v.SetDefault("STOCK_SOURCE", BackendHTTP)
	v.SetDefault("CART_STORAGE_KEY", "@storefront:cart")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/storefront?parseTime=true")
}

func (c *Config) validate() error {
	switch c.Cart.StorageBackend {
	case BackendMemory, BackendRedis, BackendMySQL:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Cart.StorageBackend)
	}
	switch c.Cart.StockSource {
	case BackendHTTP, BackendRedis, BackendMySQL:
	default:
		return fmt.Errorf("unknown STOCK_SOURCE %q", c.Cart.StockSource)
	}
	if c.Cart.StorageKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY must not be empty")
	}
	if c.GRPC.HealthInterval <= 0 {
		return fmt.Errorf("GRPC_HEALTH_INTERVAL must be positive, got %s", c.GRPC.HealthInterval)
	}
	return nil
}
