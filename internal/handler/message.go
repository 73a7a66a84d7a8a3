package handler

import (
	"fmt"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/deppfellow/msgboard/internal/service"
	"github.com/labstack/echo/v4"
)

// Message views.
const (
	ViewMessagesIndex = "messages/index"
	ViewMessagesNew   = "messages/new"
	ViewMessagesShow  = "messages/show"
	ViewMessagesEdit  = "messages/edit"
)

// MessageHandler serves messages nested under their owner,
// /users/:userId/messages.
type MessageHandler struct {
	Handler
	messages *service.MessageService
}

func NewMessageHandler(s *server.Server, messages *service.MessageService) *MessageHandler {
	return &MessageHandler{
		Handler:  NewHandler(s),
		messages: messages,
	}
}

func messagesPath(userID int64) string {
	return fmt.Sprintf("/users/%d/messages", userID)
}

func messagePath(userID, id int64) string {
	return fmt.Sprintf("/users/%d/messages/%d", userID, id)
}

func (h *MessageHandler) Index(c echo.Context, req *model.UserPathRequest) (Response, error) {
	user, messages, err := h.messages.List(c.Request().Context(), req.UserID)
	if err != nil {
		return nil, err
	}

	return View{Name: ViewMessagesIndex, Data: map[string]any{
		"title":    "Messages",
		"user":     user,
		"messages": messages,
	}}, nil
}

// New shows the blank form for an existing owner.
func (h *MessageHandler) New(c echo.Context, req *model.UserPathRequest) (Response, error) {
	user, err := h.messages.Owner(c.Request().Context(), req.UserID)
	if err != nil {
		return nil, err
	}

	return View{Name: ViewMessagesNew, Data: map[string]any{
		"title": "New Message",
		"user":  user,
		"form":  model.MessageForm{},
	}}, nil
}

func (h *MessageHandler) Create(c echo.Context, req *model.CreateMessageRequest) (Response, error) {
	message, err := h.messages.Create(c.Request().Context(), req.UserID, req.MessageForm)
	if err != nil {
		return nil, err
	}

	return Redirect{To: messagePath(req.UserID, message.ID), Notice: "Message was successfully created."}, nil
}

func (h *MessageHandler) CreateInvalid(_ echo.Context, req *model.CreateMessageRequest, fieldErrors []errs.FieldError) View {
	return View{Name: ViewMessagesNew, Data: map[string]any{
		"title":  "New Message",
		"user":   model.User{ID: req.UserID},
		"form":   req.MessageForm,
		"errors": fieldErrors,
	}}
}

func (h *MessageHandler) Show(c echo.Context, req *model.MessagePathRequest) (Response, error) {
	user, message, err := h.messages.Get(c.Request().Context(), req.UserID, req.MessageID)
	if err != nil {
		return nil, err
	}

	return View{Name: ViewMessagesShow, Data: map[string]any{
		"title":   "Message",
		"user":    user,
		"message": message,
	}}, nil
}

func (h *MessageHandler) Edit(c echo.Context, req *model.MessagePathRequest) (Response, error) {
	user, message, err := h.messages.Get(c.Request().Context(), req.UserID, req.MessageID)
	if err != nil {
		return nil, err
	}

	return View{Name: ViewMessagesEdit, Data: map[string]any{
		"title":   "Editing Message",
		"user":    user,
		"message": message,
		"form":    message.Form(),
	}}, nil
}

func (h *MessageHandler) Update(c echo.Context, req *model.UpdateMessageRequest) (Response, error) {
	message, err := h.messages.Update(c.Request().Context(), req.UserID, req.MessageID, req.MessageForm)
	if err != nil {
		return nil, err
	}

	return Redirect{To: messagePath(req.UserID, message.ID), Notice: "Message was successfully updated."}, nil
}

func (h *MessageHandler) UpdateInvalid(_ echo.Context, req *model.UpdateMessageRequest, fieldErrors []errs.FieldError) View {
	return View{Name: ViewMessagesEdit, Data: map[string]any{
		"title":   "Editing Message",
		"user":    model.User{ID: req.UserID},
		"message": model.Message{ID: req.MessageID, UserID: req.UserID},
		"form":    req.MessageForm,
		"errors":  fieldErrors,
	}}
}

// Delete returns to the owner's message list.
func (h *MessageHandler) Delete(c echo.Context, req *model.MessagePathRequest) (Response, error) {
	if err := h.messages.Delete(c.Request().Context(), req.UserID, req.MessageID); err != nil {
		return nil, err
	}

	return Redirect{To: messagesPath(req.UserID), Notice: "Message was successfully destroyed."}, nil
}
