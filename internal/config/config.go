package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration decodes "90s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config represents the complete configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Storage  StorageConfig  `toml:"storage"`
	Auth     AuthConfig     `toml:"auth"`
	Jobs     JobsConfig     `toml:"jobs"`
	Client   ClientConfig   `toml:"client"`
}

type ServerConfig struct {
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// DatabaseConfig: an empty URL serves the built-in demo data from memory.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// RedisConfig: an empty Addr disables the query cache.
type RedisConfig struct {
	Addr     string   `toml:"addr"`
	Password string   `toml:"password"`
	DB       int      `toml:"db"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// StorageConfig: an empty Endpoint disables export uploads and snapshots.
type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	JWKSURL   string `toml:"jwks_url"`
	Disabled  bool   `toml:"disabled"`
}

type JobsConfig struct {
	SnapshotInterval Duration `toml:"snapshot_interval"`
}

// ClientConfig is used by the CLI subcommands that talk to a running server.
type ClientConfig struct {
	APIURL   string   `toml:"api_url"`
	APIToken string   `toml:"api_token"`
	RPS      float64  `toml:"rps"`
	Timeout  Duration `toml:"timeout"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8000, LogLevel: "info"},
		Redis:   RedisConfig{CacheTTL: Duration{5 * time.Minute}},
		Storage: StorageConfig{Bucket: "assetdesk-exports"},
		Jobs:    JobsConfig{SnapshotInterval: Duration{24 * time.Hour}},
		Client: ClientConfig{
			APIURL:  "http://localhost:8000",
			RPS:     10,
			Timeout: Duration{15 * time.Second},
		},
	}
}

// Read builds the configuration from defaults, then the TOML file named by
// ASSETDESK_CONFIG (if set), then environment variables. It does not
// validate; the server and the CLI need different settings.
func Read() (*Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("ASSETDESK_CONFIG")); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the server configuration and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []string
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s must be an integer", key))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s must be true or false", key))
				return
			}
			*dst = b
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			if err := dst.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
				errs = append(errs, fmt.Sprintf("%s must be a duration such as 30s or 5m", key))
			}
		}
	}

	num("PORT", &cfg.Server.Port)
	str("LOG_LEVEL", &cfg.Server.LogLevel)
	str("DATABASE_URL", &cfg.Database.URL)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	num("REDIS_DB", &cfg.Redis.DB)
	dur("CACHE_TTL", &cfg.Redis.CacheTTL)
	str("MINIO_ENDPOINT", &cfg.Storage.Endpoint)
	str("MINIO_ACCESS_KEY", &cfg.Storage.AccessKey)
	str("MINIO_SECRET_KEY", &cfg.Storage.SecretKey)
	flag("MINIO_USE_SSL", &cfg.Storage.UseSSL)
	str("MINIO_BUCKET", &cfg.Storage.Bucket)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("JWKS_URL", &cfg.Auth.JWKSURL)
	flag("AUTH_DISABLED", &cfg.Auth.Disabled)
	dur("SNAPSHOT_INTERVAL", &cfg.Jobs.SnapshotInterval)
	str("API_URL", &cfg.Client.APIURL)
	str("API_TOKEN", &cfg.Client.APIToken)
	dur("API_TIMEOUT", &cfg.Client.Timeout)
	if v, ok := lookup("API_RPS"); ok && strings.TrimSpace(v) != "" {
		rps, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, "API_RPS must be a number")
		} else {
			cfg.Client.RPS = rps
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks combinations that cannot work together.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !c.Auth.Disabled && c.Auth.JWTSecret == "" && c.Auth.JWKSURL == "" {
		return fmt.Errorf("JWT_SECRET or JWKS_URL is required unless AUTH_DISABLED=true")
	}
	if c.Storage.Endpoint != "" && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	if c.Redis.CacheTTL.Duration <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Client.RPS <= 0 {
		return fmt.Errorf("API_RPS must be positive")
	}
	return nil
}

// ValidateClient checks only the settings the CLI client uses.
func (c *Config) ValidateClient() error {
	if strings.TrimSpace(c.Client.APIURL) == "" {
		return fmt.Errorf("API_URL is required")
	}
	if c.Client.RPS <= 0 {
		return fmt.Errorf("API_RPS must be positive")
	}
	return nil
}
