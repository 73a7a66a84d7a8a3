package middleware

import (
	"github.com/deppfellow/msgboard/internal/logger"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// OwnerIDKey holds the :userId path parameter of nested routes, the
	// user a request acts on.
	OwnerIDKey = "owner_id"

	LoggerKey = "logger"

	ownerParam = "userId"
)

// ContextEnhancer builds the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext attaches a logger carrying request_id, method, route, ip,
// the New Relic trace ids and the owner id when the route has one. The
// logger is stored on the echo context and on the request context, where
// zerolog.Ctx finds it for the service layer.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if ownerID := c.Param(ownerParam); ownerID != "" {
				c.Set(OwnerIDKey, ownerID)
				contextLogger = contextLogger.With().Str("owner_id", ownerID).Logger()
			}

			c.Set(LoggerKey, &contextLogger)
			c.SetRequest(c.Request().WithContext(contextLogger.WithContext(c.Request().Context())))

			return next(c)
		}
	}
}

// GetOwnerID returns the raw :userId of the current route, or "".
func GetOwnerID(c echo.Context) string {
	if ownerID, ok := c.Get(OwnerIDKey).(string); ok {
		return ownerID
	}
	return ""
}

// GetLogger returns the request-scoped logger, or a no-op logger when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
