// Package config loads the board's configuration from the environment.
//
// Variables use the BOARD_ prefix and dotted keys for nesting, so
// BOARD_SERVER.PORT lands in Config.Server.Port. A `.env` file in the
// working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
)

const (
	// EnvPrefix is stripped from every variable name before mapping.
	EnvPrefix = "BOARD_"

	// ServiceName tags every log line and New Relic transaction.
	ServiceName = "msgboard"

	corsOriginsKey = "server.cors_allowed_origins"
)

// Flash backends.
const (
	FlashBackendCookie = "cookie"
	FlashBackendRedis  = "redis"
)

// Config is the root configuration object.
//
// Observability is optional; defaults are injected when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Session       SessionConfig        `koanf:"session" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary describes the runtime environment ("local", "development",
// "production", ...). "local" turns on SQL query logging.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig holds HTTP server settings. Timeouts are in seconds,
// RateLimit in requests per second per client (0 means the default).
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	RateLimit          float64  `koanf:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig holds the PostgreSQL connection and pool settings.
// ConnMaxLifetime and ConnMaxIdleTime are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// SessionConfig controls the cookie that carries one-time notices.
type SessionConfig struct {
	SecretKey    string `koanf:"secret_key" validate:"required,min=32"`
	CookieName   string `koanf:"cookie_name"`
	Secure       bool   `koanf:"secure"`
	FlashBackend string `koanf:"flash_backend" validate:"omitempty,oneof=cookie redis"`
}

// RedisConfig is only needed for the redis flash backend. When Address is
// empty the board runs without Redis.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// DSN builds the postgres URL for the configured database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		urlEscape(d.Password),
		joinHostPort(d.Host, d.Port),
		d.Name,
		d.SSLMode,
	)
}

// LoadConfig reads BOARD_* variables, applies defaults, and validates the
// result. Any problem is returned; callers treat it as fatal.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s, v string) (string, any) {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if key == corsOriginsKey {
			return key, splitList(v)
		}
		return key, v
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 20
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "board_session"
	}
	if c.Session.FlashBackend == "" {
		c.Session.FlashBackend = FlashBackendCookie
	}
}

// Validate checks the rules struct tags cannot express.
func (c *Config) Validate() error {
	if c.Session.FlashBackend == FlashBackendRedis && c.Redis.Address == "" {
		return fmt.Errorf("session.flash_backend=redis requires redis.address")
	}
	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}
	return nil
}

// splitList turns a comma separated variable into its trimmed, non-empty parts.
func splitList(v string) []string {
	return lo.FilterMap(strings.Split(v, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}
