// Package flash carries one-time notices across a redirect: a handler adds
// "User was successfully created." and the next page shows it once.
package flash

import (
	"github.com/deppfellow/msgboard/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Notifier stores notices for the browser behind c. Pop returns them in
// the order they were added and forgets them.
type Notifier interface {
	Add(c echo.Context, notice string) error
	Pop(c echo.Context) ([]string, error)
}

// New picks the backend named by cfg.Session.FlashBackend. The redis
// backend needs a client.
func New(cfg *config.Config, client *redis.Client) (Notifier, error) {
	switch cfg.Session.FlashBackend {
	case config.FlashBackendRedis:
		if client == nil {
			return nil, errors.New("redis flash backend selected but no redis client configured")
		}
		return NewRedisNotifier(client, cfg.Session.CookieName+"_flash", cfg.Session.Secure), nil
	case config.FlashBackendCookie, "":
		return NewCookieNotifier([]byte(cfg.Session.SecretKey), cfg.Session.CookieName, cfg.Session.Secure), nil
	default:
		return nil, errors.Errorf("unknown flash backend %q", cfg.Session.FlashBackend)
	}
}
