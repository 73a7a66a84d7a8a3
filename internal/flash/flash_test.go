package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/msgboard/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newContext(e *echo.Echo, cookies []*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCookieNotifier_ShowsNoticeOnce(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	n := NewCookieNotifier([]byte(testSecret), "board_session", false)

	c, rec := newContext(e, nil)
	req.NoError(n.Add(c, "User was successfully created."))
	cookies := rec.Result().Cookies()
	req.NotEmpty(cookies)

	c, rec = newContext(e, cookies)
	notices, err := n.Pop(c)
	req.NoError(err)
	req.Equal([]string{"User was successfully created."}, notices)

	c, _ = newContext(e, rec.Result().Cookies())
	notices, err = n.Pop(c)
	req.NoError(err)
	req.Empty(notices)
}

func TestCookieNotifier_KeepsOrder(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	n := NewCookieNotifier([]byte(testSecret), "board_session", false)

	c, rec := newContext(e, nil)
	req.NoError(n.Add(c, "first"))

	c, rec = newContext(e, rec.Result().Cookies())
	req.NoError(n.Add(c, "second"))

	c, _ = newContext(e, rec.Result().Cookies())
	notices, err := n.Pop(c)
	req.NoError(err)
	req.Equal([]string{"first", "second"}, notices)
}

func TestCookieNotifier_PopWithoutCookie(t *testing.T) {
	n := NewCookieNotifier([]byte(testSecret), "board_session", false)
	c, rec := newContext(echo.New(), nil)

	notices, err := n.Pop(c)
	require.NoError(t, err)
	require.Empty(t, notices)
	require.Empty(t, rec.Result().Cookies())
}

func TestCookieNotifier_IgnoresForgedCookie(t *testing.T) {
	n := NewCookieNotifier([]byte(testSecret), "board_session", false)
	c, _ := newContext(echo.New(), []*http.Cookie{{Name: "board_session", Value: "forged"}})

	notices, err := n.Pop(c)
	require.NoError(t, err)
	require.Empty(t, notices)
}

func TestNew(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{
		SecretKey:  testSecret,
		CookieName: "board_session",
	}}

	t.Run("cookie by default", func(t *testing.T) {
		n, err := New(cfg, nil)
		require.NoError(t, err)
		require.IsType(t, &CookieNotifier{}, n)
	})

	t.Run("redis needs a client", func(t *testing.T) {
		redisCfg := *cfg
		redisCfg.Session.FlashBackend = config.FlashBackendRedis
		_, err := New(&redisCfg, nil)
		require.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		badCfg := *cfg
		badCfg.Session.FlashBackend = "memcached"
		_, err := New(&badCfg, nil)
		require.Error(t, err)
	})
}
