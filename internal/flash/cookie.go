package flash

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// CookieNotifier keeps notices in a signed session cookie.
type CookieNotifier struct {
	store *sessions.CookieStore
	name  string
}

func NewCookieNotifier(secret []byte, cookieName string, secure bool) *CookieNotifier {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &CookieNotifier{store: store, name: cookieName}
}

// session ignores decode errors: a tampered or stale cookie yields a fresh
// session, which is then overwritten on save.
func (n *CookieNotifier) session(c echo.Context) *sessions.Session {
	session, _ := n.store.Get(c.Request(), n.name)
	return session
}

func (n *CookieNotifier) Add(c echo.Context, notice string) error {
	session := n.session(c)
	session.AddFlash(notice)

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return errors.Wrap(err, "saving flash session")
	}
	return nil
}

func (n *CookieNotifier) Pop(c echo.Context) ([]string, error) {
	session := n.session(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil, nil
	}

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return nil, errors.Wrap(err, "saving flash session")
	}

	return lo.FilterMap(flashes, func(f any, _ int) (string, bool) {
		notice, ok := f.(string)
		return notice, ok
	}), nil
}
