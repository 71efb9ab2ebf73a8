// Package config provides configuration loading and validation for the careers portal.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CAREERS_API_BASE_URL.
const EnvPrefix = "CAREERS"

// Config is the root portal configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Apply     ApplyConfig     `mapstructure:"apply"`
	Candidate CandidateConfig `mapstructure:"candidate"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig configures the portal HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	PublicURL       string        `mapstructure:"public_url"` // Used in share links
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// APIConfig points at the remote talent-acquisition API.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	AuthScheme   string        `mapstructure:"auth_scheme"` // Empty sends the raw token
}

// RedisConfig configures the Redis session store.
type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CatalogConfig controls how the job collection is fetched.
type CatalogConfig struct {
	PageSize        int           `mapstructure:"page_size"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 disables periodic refresh
}

// ApplyConfig holds application form limits.
type ApplyConfig struct {
	MaxImageBytes int64 `mapstructure:"max_image_bytes"`
}

// CandidateConfig holds the organisation ids sent with a registration.
type CandidateConfig struct {
	CompanyFID    int64 `mapstructure:"company_fid"`
	CompanyRegFID int64 `mapstructure:"company_reg_fid"`
	DepartmentFID int64 `mapstructure:"department_fid"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration from an optional YAML file and the environment.
// With an empty path it looks for config.yaml in ./configs and the working directory.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient reads configuration for commands that only call the remote API.
// Server and session settings are not validated.
func LoadClient(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateClient(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.image_base_url", "")
	v.SetDefault("api.timeout", 100*time.Second)
	v.SetDefault("api.auth_scheme", "Bearer")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "careers_session")
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("session.store", StoreMemory)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "careers:session:")

	v.SetDefault("catalog.page_size", 100)
	v.SetDefault("catalog.refresh_interval", 5*time.Minute)

	v.SetDefault("apply.max_image_bytes", 5*1024*1024)

	v.SetDefault("candidate.company_fid", 1)
	v.SetDefault("candidate.company_reg_fid", 1)
	v.SetDefault("candidate.department_fid", 2)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if err := c.validateClient(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("config error: 'catalog.refresh_interval' must be non-negative")
	}
	if c.Apply.MaxImageBytes <= 0 {
		return fmt.Errorf("config error: 'apply.max_image_bytes' must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit <= 0 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: 'rate_limit' needs a positive default_limit and default_window")
	}
	return c.Session.normalize(c.Redis)
}

func (c *Config) validateClient() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config error: 'api.base_url' is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config error: 'api.base_url' is not a valid URL: %s", c.API.BaseURL)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("config error: 'catalog.page_size' must be positive")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config error: 'logging.format' must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
