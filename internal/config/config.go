package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32         `mapstructure:"DB_MIN_CONNS"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	ValueSetCacheTTL time.Duration `mapstructure:"VALUESET_CACHE_TTL"`
	SlotTimezone     string        `mapstructure:"SLOT_TIMEZONE"`
	DisplayTimezone  string        `mapstructure:"DISPLAY_TIMEZONE"`
	FHIRBaseURL      string        `mapstructure:"FHIR_BASE_URL"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	BodyLimit        string        `mapstructure:"BODY_LIMIT"`
}

var envKeys = []string{
	"PORT",
	"ENV",
	"DATABASE_URL",
	"DB_MAX_CONNS",
	"DB_MIN_CONNS",
	"REDIS_URL",
	"VALUESET_CACHE_TTL",
	"SLOT_TIMEZONE",
	"DISPLAY_TIMEZONE",
	"FHIR_BASE_URL",
	"CORS_ORIGINS",
	"BODY_LIMIT",
}

// Load reads .env (when present) and the environment. DATABASE_URL and
// REDIS_URL are optional; without them only the stateless converters are
// served.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("VALUESET_CACHE_TTL", "10m")
	v.SetDefault("SLOT_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("DISPLAY_TIMEZONE", "")
	v.SetDefault("FHIR_BASE_URL", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("BODY_LIMIT", "2M")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.FHIRBaseURL = strings.TrimRight(cfg.FHIRBaseURL, "/")

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// HasDatabase reports whether the Postgres-backed FHIR endpoints are enabled.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasCache() bool {
	return c.RedisURL != ""
}

// SlotLocation is the zone slot wall-clock times are interpreted in.
func (c *Config) SlotLocation() (*time.Location, error) {
	return time.LoadLocation(c.SlotTimezone)
}

// DisplayLocation is the zone appointment list rows are rendered in. It is
// nil when unset, which keeps each timestamp's own offset.
func (c *Config) DisplayLocation() (*time.Location, error) {
	if c.DisplayTimezone == "" {
		return nil, nil
	}
	return time.LoadLocation(c.DisplayTimezone)
}

// Validate checks the values Load cannot reject on type alone.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.SlotTimezone == "" {
		return fmt.Errorf("SLOT_TIMEZONE must not be empty")
	}
	if _, err := c.SlotLocation(); err != nil {
		return fmt.Errorf("SLOT_TIMEZONE %q: %w", c.SlotTimezone, err)
	}
	if _, err := c.DisplayLocation(); err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	if c.ValueSetCacheTTL < 0 {
		return fmt.Errorf("VALUESET_CACHE_TTL must not be negative, got %s", c.ValueSetCacheTTL)
	}
	if c.DBMaxConns < 0 || c.DBMinConns < 0 {
		return fmt.Errorf("DB_MAX_CONNS and DB_MIN_CONNS must not be negative")
	}
	if c.DBMaxConns > 0 && c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return fmt.Errorf("REDIS_URL must use the redis:// or rediss:// scheme")
	}
	return nil
}
