package flash

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an unread notice stays in Redis.
const DefaultTTL = 10 * time.Minute

// RedisNotifier keeps notices in a Redis list per browser. The browser is
// identified by a random id in its own cookie; the cookie holds nothing else.
type RedisNotifier struct {
	client     *redis.Client
	cookieName string
	secure     bool
	ttl        time.Duration
}

func NewRedisNotifier(client *redis.Client, cookieName string, secure bool) *RedisNotifier {
	return &RedisNotifier{
		client:     client,
		cookieName: cookieName,
		secure:     secure,
		ttl:        DefaultTTL,
	}
}

func (n *RedisNotifier) key(id string) string {
	return "flash:" + id
}

// browserID returns the id from the request cookie. When it is missing or
// malformed and create is set, a new id is issued on the response.
func (n *RedisNotifier) browserID(c echo.Context, create bool) (string, bool) {
	if cookie, err := c.Cookie(n.cookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String(), true
		}
	}
	if !create {
		return "", false
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     n.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   n.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true
}

func (n *RedisNotifier) Add(c echo.Context, notice string) error {
	id, _ := n.browserID(c, true)
	ctx := c.Request().Context()
	key := n.key(id)

	_, err := n.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, notice)
		pipe.Expire(ctx, key, n.ttl)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "pushing flash notice")
	}
	return nil
}

// Pop reads and deletes the list in one MULTI so a notice is never shown
// twice by concurrent requests.
func (n *RedisNotifier) Pop(c echo.Context) ([]string, error) {
	id, ok := n.browserID(c, false)
	if !ok {
		return nil, nil
	}
	ctx := c.Request().Context()
	key := n.key(id)

	var notices *redis.StringSliceCmd
	_, err := n.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		notices = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "popping flash notices")
	}

	if len(notices.Val()) == 0 {
		return nil, nil
	}
	return notices.Val(), nil
}
