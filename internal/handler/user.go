package handler

import (
	"fmt"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/deppfellow/msgboard/internal/service"
	"github.com/labstack/echo/v4"
)

// User views.
const (
	ViewUsersIndex = "users/index"
	ViewUsersNew   = "users/new"
	ViewUsersShow  = "users/show"
	ViewUsersEdit  = "users/edit"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func userPath(id int64) string {
	return fmt.Sprintf("/users/%d", id)
}

func (h *UserHandler) Index(c echo.Context, _ *model.ListUsersRequest) (Response, error) {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return View{Name: ViewUsersIndex, Data: map[string]any{
		"title": "Users",
		"users": users,
	}}, nil
}

func (h *UserHandler) New(_ echo.Context, _ *model.NewUserRequest) (Response, error) {
	return View{Name: ViewUsersNew, Data: map[string]any{
		"title": "New User",
		"form":  model.UserForm{},
	}}, nil
}

func (h *UserHandler) Create(c echo.Context, req *model.CreateUserRequest) (Response, error) {
	user, err := h.users.Create(c.Request().Context(), req.UserForm)
	if err != nil {
		return nil, err
	}

	return Redirect{To: userPath(user.ID), Notice: "User was successfully created."}, nil
}

// CreateInvalid shows the new user form with what was submitted.
func (h *UserHandler) CreateInvalid(_ echo.Context, req *model.CreateUserRequest, fieldErrors []errs.FieldError) View {
	return View{Name: ViewUsersNew, Data: map[string]any{
		"title":  "New User",
		"form":   req.UserForm,
		"errors": fieldErrors,
	}}
}

// Show renders the user with its messages.
func (h *UserHandler) Show(c echo.Context, req *model.UserPathRequest) (Response, error) {
	user, messages, err := h.users.WithMessages(c.Request().Context(), req.UserID)
	if err != nil {
		return nil, err
	}

	return View{Name: ViewUsersShow, Data: map[string]any{
		"title":    user.Username,
		"user":     user,
		"messages": messages,
	}}, nil
}

func (h *UserHandler) Edit(c echo.Context, req *model.UserPathRequest) (Response, error) {
	user, err := h.users.Get(c.Request().Context(), req.UserID)
	if err != nil {
		return nil, err
	}

	return View{Name: ViewUsersEdit, Data: map[string]any{
		"title": "Editing User",
		"user":  user,
		"form":  user.Form(),
	}}, nil
}

func (h *UserHandler) Update(c echo.Context, req *model.UpdateUserRequest) (Response, error) {
	user, err := h.users.Update(c.Request().Context(), req.UserID, req.UserForm)
	if err != nil {
		return nil, err
	}

	return Redirect{To: userPath(user.ID), Notice: "User was successfully updated."}, nil
}

func (h *UserHandler) UpdateInvalid(_ echo.Context, req *model.UpdateUserRequest, fieldErrors []errs.FieldError) View {
	return View{Name: ViewUsersEdit, Data: map[string]any{
		"title":  "Editing User",
		"user":   model.User{ID: req.UserID},
		"form":   req.UserForm,
		"errors": fieldErrors,
	}}
}

// Delete removes the user together with its messages.
func (h *UserHandler) Delete(c echo.Context, req *model.UserPathRequest) (Response, error) {
	removed, err := h.users.Delete(c.Request().Context(), req.UserID)
	if err != nil {
		return nil, err
	}

	notice := "User was successfully destroyed."
	if removed > 0 {
		notice = fmt.Sprintf("User was successfully destroyed along with %d message(s).", removed)
	}

	return Redirect{To: "/users", Notice: notice}, nil
}
