package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Store     StoreConfig     `yaml:"store"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	TimeZone  string          `yaml:"time_zone"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // http or stdio
	// DefaultEmployee is used by MCP calls that carry no employee number.
	DefaultEmployee string `yaml:"default_employee"`
}

type StoreConfig struct {
	Driver        string        `yaml:"driver"` // sqlite or memory
	SnapshotPath  string        `yaml:"snapshot_path"`
	Autosave      bool          `yaml:"autosave"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
	Path   string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode:            "http",
			DefaultEmployee: "000000",
		},
		Store: StoreConfig{
			Driver:   "sqlite",
			Autosave: true,
		},
		DB: DBConfig{
			Path: "zisseki.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		TimeZone: "Asia/Tokyo",
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("ZISSEKI_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString("ZISSEKI_SERVER_HOST", &cfg.Server.Host)
	if err := setInt("ZISSEKI_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	setString("ZISSEKI_TRANSPORT_MODE", &cfg.Transport.Mode)
	setString("ZISSEKI_DEFAULT_EMPLOYEE", &cfg.Transport.DefaultEmployee)
	setString("ZISSEKI_STORE_DRIVER", &cfg.Store.Driver)
	setString("ZISSEKI_SNAPSHOT_PATH", &cfg.Store.SnapshotPath)
	if err := setBool("ZISSEKI_STORE_AUTOSAVE", &cfg.Store.Autosave); err != nil {
		return err
	}
	if err := setDuration("ZISSEKI_STORE_FLUSH_INTERVAL", &cfg.Store.FlushInterval); err != nil {
		return err
	}
	setString("ZISSEKI_DB_PATH", &cfg.DB.Path)
	setString("ZISSEKI_LOG_LEVEL", &cfg.Log.Level)
	setString("ZISSEKI_LOG_FORMAT", &cfg.Log.Format)
	setString("ZISSEKI_LOG_PATH", &cfg.Log.Path)
	setString("ZISSEKI_REDIS_ADDR", &cfg.Redis.Addr)
	setString("ZISSEKI_REDIS_PASSWORD", &cfg.Redis.Password)
	if err := setInt("ZISSEKI_REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}
	if err := setDuration("ZISSEKI_CACHE_TTL", &cfg.Cache.TTL); err != nil {
		return err
	}
	if err := setBool("ZISSEKI_METRICS_ENABLED", &cfg.Metrics.Enabled); err != nil {
		return err
	}
	setString("ZISSEKI_TIME_ZONE", &cfg.TimeZone)
	return nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q (want http or stdio)", c.Transport.Mode)
	}
	switch c.Store.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("invalid store driver %q (want sqlite or memory)", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone; empty means the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func setString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func setInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = n
	return nil
}

func setBool(name string, dst *bool) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = b
	return nil
}

func setDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
