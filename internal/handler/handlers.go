package handler

import (
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/deppfellow/msgboard/internal/service"
)

// Handlers groups every handler so the router receives one value.
type Handlers struct {
	Health   *HealthHandler
	Users    *UserHandler
	Messages *MessageHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		Users:    NewUserHandler(s, services.Users),
		Messages: NewMessageHandler(s, services.Messages),
	}
}
