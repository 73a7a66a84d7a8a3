package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"BOARD_PRIMARY.ENV":                 "test",
		"BOARD_SERVER.PORT":                 "8080",
		"BOARD_SERVER.READ_TIMEOUT":         "30",
		"BOARD_SERVER.WRITE_TIMEOUT":        "30",
		"BOARD_SERVER.IDLE_TIMEOUT":         "60",
		"BOARD_SERVER.CORS_ALLOWED_ORIGINS": "http://localhost:3000,http://localhost:8080",
		"BOARD_DATABASE.HOST":               "localhost",
		"BOARD_DATABASE.PORT":               "5432",
		"BOARD_DATABASE.USER":               "board",
		"BOARD_DATABASE.PASSWORD":           "pa:ss@word",
		"BOARD_DATABASE.NAME":               "userdb",
		"BOARD_DATABASE.SSL_MODE":           "disable",
		"BOARD_DATABASE.MAX_OPEN_CONNS":     "10",
		"BOARD_DATABASE.MAX_IDLE_CONNS":     "5",
		"BOARD_DATABASE.CONN_MAX_LIFETIME":  "300",
		"BOARD_DATABASE.CONN_MAX_IDLE_TIME": "60",
		"BOARD_SESSION.SECRET_KEY":          strings.Repeat("k", 32),
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	req := require.New(t)
	setBaseEnv(t)

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal("test", cfg.Primary.Env)
	req.Equal("8080", cfg.Server.Port)
	req.Equal([]string{"http://localhost:3000", "http://localhost:8080"}, cfg.Server.CORSAllowedOrigins)
	req.Equal(5432, cfg.Database.Port)
	req.Equal(float64(20), cfg.Server.RateLimit)
	req.Equal("board_session", cfg.Session.CookieName)
	req.Equal(FlashBackendCookie, cfg.Session.FlashBackend)

	req.NotNil(cfg.Observability)
	req.Equal(ServiceName, cfg.Observability.ServiceName)
	req.Equal("test", cfg.Observability.Environment)
	req.Equal(5*time.Second, cfg.Observability.HealthCheckTimeout())
}

func TestLoadConfig_CORSOriginsList(t *testing.T) {
	req := require.New(t)
	setBaseEnv(t)
	t.Setenv("BOARD_SERVER.CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example,")

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal([]string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BOARD_SESSION.SECRET_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_RedisFlashNeedsAddress(t *testing.T) {
	req := require.New(t)
	setBaseEnv(t)
	t.Setenv("BOARD_SESSION.FLASH_BACKEND", "redis")

	_, err := LoadConfig()
	req.ErrorContains(err, "redis.address")

	t.Setenv("BOARD_REDIS.ADDRESS", "localhost:6379")
	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal("localhost:6379", cfg.Redis.Address)
}

func TestDSNEscapesPassword(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "board",
		Password: "pa:ss@word",
		Name:     "userdb",
		SSLMode:  "disable",
	}
	require.Equal(t, "postgres://board:pa%3Ass%40word@db:5432/userdb?sslmode=disable", d.DSN())
}

func TestObservabilityLogLevel(t *testing.T) {
	req := require.New(t)

	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""
	cfg.Environment = "production"
	req.Equal("info", cfg.GetLogLevel())

	cfg.Environment = "local"
	req.Equal("debug", cfg.GetLogLevel())

	cfg.Logging.Level = "warn"
	req.Equal("warn", cfg.GetLogLevel())

	cfg.Logging.Level = "verbose"
	req.Error(cfg.Validate())
}
