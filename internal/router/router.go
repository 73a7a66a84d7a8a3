// Package router builds the Echo instance: middleware chain, error
// handler, renderer and the user/message routes.
package router

import (
	"net/http"

	"github.com/deppfellow/msgboard/internal/handler"
	"github.com/deppfellow/msgboard/internal/middleware"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Renderer = s.Renderer
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Pre(middlewares.Global.MethodOverride())

	router.Use(
		middlewares.RateLimit.RateLimiter(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	router.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/users")
	})

	registerUserRoutes(router, h.Users)
	registerMessageRoutes(router, h.Messages)

	return router
}

// registerUserRoutes maps the user resource. The form posts to /users;
// /users/new also accepts the POST.
func registerUserRoutes(r *echo.Echo, h *handler.UserHandler) {
	create := handler.HandleForm(h.Handler, h.Create, h.CreateInvalid)

	users := r.Group("/users")
	users.GET("", handler.Handle(h.Handler, h.Index))
	users.POST("", create)
	users.GET("/new", handler.Handle(h.Handler, h.New))
	users.POST("/new", create)
	users.GET("/:userId", handler.Handle(h.Handler, h.Show))
	users.PATCH("/:userId", handler.HandleForm(h.Handler, h.Update, h.UpdateInvalid))
	users.PUT("/:userId", handler.HandleForm(h.Handler, h.Update, h.UpdateInvalid))
	users.DELETE("/:userId", handler.Handle(h.Handler, h.Delete))
	users.GET("/:userId/edit", handler.Handle(h.Handler, h.Edit))
}

// registerMessageRoutes maps messages nested under their owner.
func registerMessageRoutes(r *echo.Echo, h *handler.MessageHandler) {
	create := handler.HandleForm(h.Handler, h.Create, h.CreateInvalid)
	update := handler.HandleForm(h.Handler, h.Update, h.UpdateInvalid)

	messages := r.Group("/users/:userId/messages")
	messages.GET("", handler.Handle(h.Handler, h.Index))
	messages.POST("", create)
	messages.GET("/new", handler.Handle(h.Handler, h.New))
	messages.POST("/new", create)
	messages.GET("/:messageId", handler.Handle(h.Handler, h.Show))
	messages.PATCH("/:messageId", update)
	messages.PUT("/:messageId", update)
	messages.DELETE("/:messageId", handler.Handle(h.Handler, h.Delete))
	messages.GET("/:messageId/edit", handler.Handle(h.Handler, h.Edit))
}
