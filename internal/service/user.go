package service

import (
	"context"

	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/validation"
	"github.com/rs/zerolog"
)

type UserService struct {
	users    UserStore
	messages MessageStore
}

func NewUserService(users UserStore, messages MessageStore) *UserService {
	return &UserService{users: users, messages: messages}
}

// List returns every user in store order.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.users.Get(ctx, id)
}

// WithMessages returns the user and the messages it owns.
func (s *UserService) WithMessages(ctx context.Context, id int64) (*model.User, []model.Message, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.messages.ListByUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return user, messages, nil
}

// Create validates form and stores a new user. An invalid form never
// reaches the store.
func (s *UserService) Create(ctx context.Context, form model.UserForm) (*model.User, error) {
	if err := validation.Check(&form); err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, form)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("username", form.Username).Msg("user not created")
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "user_created").
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user created")

	return user, nil
}

// Update replaces all four editable fields. Submitting the current values
// again leaves the user unchanged.
func (s *UserService) Update(ctx context.Context, id int64, form model.UserForm) (*model.User, error) {
	if err := validation.Check(&form); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, id, form)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("user_id", id).Msg("user not updated")
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "user_updated").
		Int64("user_id", user.ID).
		Msg("user updated")

	return user, nil
}

// Delete removes the user and its messages, returning how many messages
// went with it.
func (s *UserService) Delete(ctx context.Context, id int64) (int64, error) {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return 0, err
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "user_deleted").
		Int64("user_id", id).
		Int64("messages_removed", removed).
		Msg("user deleted")

	return removed, nil
}
