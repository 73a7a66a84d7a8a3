package service

import (
	"context"

	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/repository"
)

// UserStore is what UserService needs from persistence. Errors are
// already *errs.HTTPError values.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, form model.UserForm) (*model.User, error)
	Update(ctx context.Context, id int64, form model.UserForm) (*model.User, error)
	// Delete removes the user with its messages and returns how many
	// messages were removed.
	Delete(ctx context.Context, id int64) (int64, error)
}

// MessageStore scopes every lookup by owner.
type MessageStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Message, error)
	Get(ctx context.Context, userID, id int64) (*model.Message, error)
	Create(ctx context.Context, userID int64, form model.MessageForm) (*model.Message, error)
	Update(ctx context.Context, userID, id int64, form model.MessageForm) (*model.Message, error)
	Delete(ctx context.Context, userID, id int64) error
}

type Services struct {
	Users    *UserService
	Messages *MessageService
}

// NewServices builds the services over the pgx repositories.
func NewServices(repos *repository.Repositories) *Services {
	return NewServicesWithStores(repos.Users, repos.Messages)
}

func NewServicesWithStores(users UserStore, messages MessageStore) *Services {
	return &Services{
		Users:    NewUserService(users, messages),
		Messages: NewMessageService(users, messages),
	}
}
