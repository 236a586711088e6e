package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/opening-hours/internal/domain/hours"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig       `yaml:"http"`
	Hours     HoursConfig      `yaml:"hours"`
	Locations []LocationConfig `yaml:"locations"`
	Postgres  PostgresConfig   `yaml:"postgres"`
	Valkey    ValkeyConfig     `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// HoursConfig tunes the hours domain.
type HoursConfig struct {
	CacheTTL time.Duration `yaml:"cacheTtl"`
}

// LocationConfig is a business location with its weekly schedule.
type LocationConfig struct {
	Slug     string           `yaml:"slug"`
	Name     string           `yaml:"name"`
	Timezone string           `yaml:"timezone"`
	Hours    []hours.DayHours `yaml:"hours"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
	Migrate  bool   `yaml:"migrate"`
}

// ValkeyConfig contains connection information for the status cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Load reads configuration from a .env file, a YAML file and environment variables, in that order.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("HOURS_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Hours.CacheTTL = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIGRATE"); v != "" {
		cfg.Postgres.Migrate = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("VALKEY_PREFIX"); v != "" {
		cfg.Valkey.Prefix = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 100 * time.Millisecond,
				Exclude: []string{
					"/healthz",
				},
			},
		},
		Hours: HoursConfig{
			CacheTTL: time.Minute,
		},
		Locations: []LocationConfig{
			{
				Slug:     "main",
				Name:     "Local Service Company",
				Timezone: "America/Phoenix",
				Hours: []hours.DayHours{
					{Day: "Monday", Open: "08:00", Close: "18:00"},
					{Day: "Tuesday", Open: "08:00", Close: "18:00"},
					{Day: "Wednesday", Open: "08:00", Close: "18:00"},
					{Day: "Thursday", Open: "08:00", Close: "18:00"},
					{Day: "Friday", Open: "08:00", Close: "18:00"},
					{Day: "Saturday", Open: "09:00", Close: "16:00"},
					{Day: "Sunday", Closed: true},
				},
			},
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Valkey: ValkeyConfig{
			Prefix: "hours",
		},
	}
}

// Validate ensures the configuration is safe to use. Location schedules are validated here so that
// evaluation never sees malformed hours.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Hours.CacheTTL < 0 {
		return errors.New("hours.cacheTtl cannot be negative")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when the valkey cache is enabled")
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns && c.Postgres.MaxConns > 0 {
		return errors.New("postgres.minConns cannot exceed postgres.maxConns")
	}
	if len(c.Locations) == 0 && strings.TrimSpace(c.Postgres.DSN) == "" {
		return errors.New("at least one location is required when postgres.dsn is empty")
	}
	seen := make(map[string]struct{}, len(c.Locations))
	for i, loc := range c.Locations {
		if _, err := loc.ToLocation(); err != nil {
			return fmt.Errorf("locations[%d]: %w", i, err)
		}
		slug := normalizeSlug(loc.Slug)
		if _, dup := seen[slug]; dup {
			return fmt.Errorf("locations[%d]: duplicate slug %q", i, slug)
		}
		seen[slug] = struct{}{}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}

// ToLocation validates the configured hours and converts them into a domain location.
func (l LocationConfig) ToLocation() (hours.Location, error) {
	slug := normalizeSlug(l.Slug)
	if slug == "" {
		return hours.Location{}, errors.New("slug cannot be empty")
	}
	schedule, err := hours.NewSchedule(l.Hours)
	if err != nil {
		return hours.Location{}, fmt.Errorf("location %q hours: %w", slug, err)
	}
	name := strings.TrimSpace(l.Name)
	if name == "" {
		name = slug
	}
	return hours.Location{
		Slug:     slug,
		Name:     name,
		Timezone: strings.TrimSpace(l.Timezone),
		Schedule: schedule,
	}, nil
}

// BuildLocations converts every configured location.
func (c *Config) BuildLocations() ([]hours.Location, error) {
	out := make([]hours.Location, 0, len(c.Locations))
	for i, loc := range c.Locations {
		converted, err := loc.ToLocation()
		if err != nil {
			return nil, fmt.Errorf("locations[%d]: %w", i, err)
		}
		out = append(out, converted)
	}
	return out, nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
