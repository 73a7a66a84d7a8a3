package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/middleware"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/deppfellow/msgboard/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Handler holds the shared dependencies every handler needs.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Response is what a page handler produces on success: a View to render
// or a Redirect to follow.
type Response interface {
	write(h Handler, c echo.Context) error
	operation() string
}

// View renders the named template. Pending notices are popped and added
// to Data under "flashes". Status defaults to 200.
type View struct {
	Name   string
	Status int
	Data   map[string]any
}

func (v View) write(h Handler, c echo.Context) error {
	flashes, err := h.server.Flash.Pop(c)
	if err != nil {
		middleware.GetLogger(c).Warn().Err(err).Msg("failed to read notices")
	}

	status := v.Status
	if status == 0 {
		status = http.StatusOK
	}

	return c.Render(status, v.Name, lo.Assign(v.Data, map[string]any{"flashes": flashes}))
}

func (v View) operation() string {
	return "view"
}

// Redirect answers 303 See Other to To, leaving Notice for the next page.
type Redirect struct {
	To     string
	Notice string
}

func (r Redirect) write(h Handler, c echo.Context) error {
	if r.Notice != "" {
		if err := h.server.Flash.Add(c, r.Notice); err != nil {
			middleware.GetLogger(c).Warn().Err(err).Msg("failed to store notice")
		}
	}
	return c.Redirect(http.StatusSeeOther, r.To)
}

func (r Redirect) operation() string {
	return "redirect"
}

// HandlerFunc is a page handler receiving its bound, validated request.
type HandlerFunc[Req validation.Validatable] func(c echo.Context, req Req) (Response, error)

// InvalidFunc builds the page shown when a submitted form is rejected,
// either by validation or by a uniqueness conflict in the store. It must
// not touch the store. The View it returns is always sent with 400.
type InvalidFunc[Req validation.Validatable] func(c echo.Context, req Req, fieldErrors []errs.FieldError) View

// Handle wraps a page handler in the request pipeline.
//
//	e.GET("/users", handler.Handle(h.Handler, h.Index))
func Handle[T any, PT interface {
	*T
	validation.Validatable
}](h Handler, handler HandlerFunc[PT]) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest[T](c, h, handler, nil)
	}
}

// HandleForm is Handle for form submissions: field-level failures go to
// onInvalid instead of the error handler.
func HandleForm[T any, PT interface {
	*T
	validation.Validatable
}](h Handler, handler HandlerFunc[PT], onInvalid InvalidFunc[PT]) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest[T](c, h, handler, onInvalid)
	}
}

// handleRequest binds and validates a fresh request value, runs handler
// and writes its Response, timing each phase for the logs and New Relic.
func handleRequest[T any, PT interface {
	*T
	validation.Validatable
}](c echo.Context, h Handler, handler HandlerFunc[PT], onInvalid InvalidFunc[PT]) error {
	start := time.Now()
	route := c.Path()
	req := PT(new(T))

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "handler").
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return rejectForm(c, h, logger, req, err, onInvalid)
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	response, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}

		if len(errs.FieldErrorsOf(err)) > 0 && onInvalid != nil {
			logger.Warn().Err(err).Dur("handler_duration", handlerDuration).Msg("submission rejected by store")
			return rejectForm(c, h, logger, req, err, onInvalid)
		}

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		return err
	}

	totalDuration := time.Since(start)
	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.response", response.operation())
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
	}

	logger.Info().
		Str("response", response.operation()).
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return response.write(h, c)
}

// rejectForm shows the form again when err carries field errors and the
// route has a form to show; otherwise err goes to the error handler.
func rejectForm[Req validation.Validatable](
	c echo.Context,
	h Handler,
	logger zerolog.Logger,
	req Req,
	err error,
	onInvalid InvalidFunc[Req],
) error {
	fieldErrors := errs.FieldErrorsOf(err)
	if onInvalid == nil || len(fieldErrors) == 0 {
		return err
	}

	logger.Debug().
		Interface("field_errors", fieldErrors).
		Msg("showing form again")

	view := onInvalid(c, req, fieldErrors)
	view.Status = http.StatusBadRequest
	return view.write(h, c)
}
