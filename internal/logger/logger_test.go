package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/msgboard/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	req := require.New(t)

	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := newLogger(cfg, NewLoggerService(cfg), &buf)
	log.Info().Str("username", "ada").Msg("user created")

	var line map[string]any
	req.NoError(json.Unmarshal(buf.Bytes(), &line))
	req.Equal("user created", line["message"])
	req.Equal("ada", line["username"])
	req.Equal(config.ServiceName, line["service"])
	req.Equal("production", line["environment"])
}

func TestLoggerLevel(t *testing.T) {
	req := require.New(t)

	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Msg("hidden")
	req.Zero(buf.Len())

	log.Warn().Msg("shown")
	req.Contains(buf.String(), "shown")
}

func TestLoggerServiceWithoutLicense(t *testing.T) {
	req := require.New(t)

	service := NewLoggerService(config.DefaultObservabilityConfig())
	req.Nil(service.GetApplication())
	service.Shutdown()

	var nilService *LoggerService
	req.Nil(nilService.GetApplication())
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	req := require.New(t)
	req.Equal(tracelog.LogLevelDebug, GetPgxTraceLogLevel(zerolog.DebugLevel))
	req.Equal(tracelog.LogLevelInfo, GetPgxTraceLogLevel(zerolog.InfoLevel))
	req.Equal(tracelog.LogLevelError, GetPgxTraceLogLevel(zerolog.FatalLevel))
	req.Equal(tracelog.LogLevelNone, GetPgxTraceLogLevel(zerolog.Disabled))
}
