package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/msgboard/internal/config"
	"github.com/deppfellow/msgboard/internal/middleware"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthCheck struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

// checks lists the dependencies named in observability.health_checks.
// Redis is only required when notices are stored in it.
func (h *HealthHandler) checks() []healthCheck {
	cfg := h.server.Config
	enabled := []string{"database", "redis"}
	if cfg.Observability != nil && len(cfg.Observability.HealthChecks.Checks) > 0 {
		enabled = cfg.Observability.HealthChecks.Checks
	}

	var checks []healthCheck
	if lo.Contains(enabled, "database") && h.server.DB != nil {
		checks = append(checks, healthCheck{
			name:     "database",
			required: true,
			ping:     h.server.DB.Ping,
		})
	}
	if lo.Contains(enabled, "redis") && h.server.Redis != nil {
		checks = append(checks, healthCheck{
			name:     "redis",
			required: cfg.Session.FlashBackend == config.FlashBackendRedis,
			ping: func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			},
		})
	}
	return checks
}

// CheckHealth answers 200 when every required dependency responds and 503
// otherwise. Each check is reported with its response time.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := 5 * time.Second
	if h.server.Config.Observability != nil {
		timeout = h.server.Config.Observability.HealthCheckTimeout()
	}

	results := make(map[string]any)
	isHealthy := true

	for _, check := range h.checks() {
		healthy, result := h.runCheck(c.Request().Context(), logger, check, timeout)
		results[check.name] = result
		if !healthy && check.required {
			isHealthy = false
		}
	}

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      results,
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(ctx context.Context, logger zerolog.Logger, check healthCheck, timeout time.Duration) (bool, map[string]any) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checkStart := time.Now()
	err := check.ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordFailure(map[string]any{
			"check_type":       check.name,
			"error_type":       check.name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return false, map[string]any{
			"status":        "unhealthy",
			"required":      check.required,
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}
	}

	return true, map[string]any{
		"status":        "healthy",
		"required":      check.required,
		"response_time": elapsed.String(),
	}
}

// recordFailure emits a HealthCheckError custom event to New Relic.
func (h *HealthHandler) recordFailure(attributes map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		attributes["operation"] = "health_check"
		app.RecordCustomEvent("HealthCheckError", attributes)
	}
}
