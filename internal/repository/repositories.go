package repository

import (
	"github.com/deppfellow/msgboard/internal/server"
)

// Repositories groups the repositories the services are built from.
type Repositories struct {
	Users    *UserRepository
	Messages *MessageRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(s),
		Messages: NewMessageRepository(s),
	}
}
