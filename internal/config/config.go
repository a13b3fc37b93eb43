// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App         AppConfig         `koanf:"app"`
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Redis       RedisConfig       `koanf:"redis"`
	JWT         JWTConfig         `koanf:"jwt"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	CORS        CORSConfig        `koanf:"cors"`
	Log         LogConfig         `koanf:"log"`
	Otel        OtelConfig        `koanf:"otel"`
	Reservation ReservationConfig `koanf:"reservation"`
	Points      PointsConfig      `koanf:"points"`
	Ranking     RankingConfig     `koanf:"ranking"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath    string        `koanf:"private_key_path"`
	AccessTokenExpire time.Duration `koanf:"access_token_expire"`
	Issuer            string        `koanf:"issuer"`
	Audience          string        `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests int `koanf:"requests"`
	Burst    int `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// ReservationConfig holds the booking rules. Times are 24h "HH:MM" and both
// bounds are inclusive.
type ReservationConfig struct {
	OpeningTime        string `koanf:"opening_time"`
	ClosingTime        string `koanf:"closing_time"`
	MinPartySize       int    `koanf:"min_party_size"`
	MaxPartySize       int    `koanf:"max_party_size"`
	CreationBonus      int    `koanf:"creation_bonus"`
	UpcomingWindowDays int    `koanf:"upcoming_window_days"`
	TimeZone           string `koanf:"time_zone"`
}

type PointsConfig struct {
	// When false a cancellation only takes points back from the monthly
	// total; lifetime totals never decrease.
	ReverseLifetimeOnCancel bool `koanf:"reverse_lifetime_on_cancel"`
	HistoryLimit            int  `koanf:"history_limit"`
}

type RankingConfig struct {
	DefaultLimit int           `koanf:"default_limit"`
	MaxLimit     int           `koanf:"max_limit"`
	WinnersLimit int           `koanf:"winners_limit"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "Restaurant Rewards",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,

		"jwt.access_token_expire": "24h",
		"jwt.issuer":              "restaurant-rewards",
		"jwt.audience":            "restaurant-rewards-api",
		"jwt.private_key_path":    "keys/private.pem",

		"rate_limit.requests": 120,
		"rate_limit.burst":    30,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           3600,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "restaurant-rewards",

		"reservation.opening_time":         "11:00",
		"reservation.closing_time":         "23:00",
		"reservation.min_party_size":       1,
		"reservation.max_party_size":       20,
		"reservation.creation_bonus":       50,
		"reservation.upcoming_window_days": 3,
		"reservation.time_zone":            "America/Sao_Paulo",

		"points.reverse_lifetime_on_cancel": false,
		"points.history_limit":              50,

		"ranking.default_limit": 20,
		"ranking.max_limit":     100,
		"ranking.winners_limit": 12,
		"ranking.cache_ttl":     "30s",
	}
}

func loadDefaults(k *koanf.Koanf) error {
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}
	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"RESERVATION_OPENING_TIME":    "reservation.opening_time",
	"RESERVATION_CLOSING_TIME":    "reservation.closing_time",
	"RESERVATION_CREATION_BONUS":  "reservation.creation_bonus",
	"RESERVATION_TIME_ZONE":       "reservation.time_zone",
	"POINTS_REVERSE_LIFETIME":     "points.reverse_lifetime_on_cancel",
	"RANKING_CACHE_TTL":           "ranking.cache_ttl",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

var clockTime = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.JWT.PrivateKeyPath == "" {
		return fmt.Errorf("JWT_PRIVATE_KEY_PATH is required")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure {
		return fmt.Errorf("OTEL_INSECURE must be false in production")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return c.Reservation.validate()
}

func (r ReservationConfig) validate() error {
	if !clockTime.MatchString(r.OpeningTime) {
		return fmt.Errorf("reservation.opening_time must be HH:MM, got %q", r.OpeningTime)
	}

	if !clockTime.MatchString(r.ClosingTime) {
		return fmt.Errorf("reservation.closing_time must be HH:MM, got %q", r.ClosingTime)
	}

	if r.OpeningTime > r.ClosingTime {
		return fmt.Errorf("reservation.opening_time must not be after closing_time")
	}

	if r.MinPartySize < 1 || r.MaxPartySize < r.MinPartySize {
		return fmt.Errorf("reservation party size bounds are invalid: [%d, %d]", r.MinPartySize, r.MaxPartySize)
	}

	if r.CreationBonus < 0 {
		return fmt.Errorf("reservation.creation_bonus must not be negative")
	}

	if _, err := r.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves the restaurant time zone used for "today" and month
// boundaries.
func (r ReservationConfig) Location() (*time.Location, error) {
	if r.TimeZone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(r.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("reservation.time_zone: %w", err)
	}

	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
