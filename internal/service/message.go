package service

import (
	"context"

	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/validation"
	"github.com/rs/zerolog"
)

// MessageService resolves the owner before touching a message, so every
// result comes with the user it belongs to.
type MessageService struct {
	users    UserStore
	messages MessageStore
}

func NewMessageService(users UserStore, messages MessageStore) *MessageService {
	return &MessageService{users: users, messages: messages}
}

// Owner returns the user new messages would be created under.
func (s *MessageService) Owner(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.Get(ctx, userID)
}

// List returns the owner and its messages. An unknown owner is NotFound,
// not an empty list.
func (s *MessageService) List(ctx context.Context, userID int64) (*model.User, []model.Message, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return user, messages, nil
}

// Get returns a message only when it belongs to userID.
func (s *MessageService) Get(ctx context.Context, userID, id int64) (*model.User, *model.Message, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	message, err := s.messages.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	return user, message, nil
}

func (s *MessageService) Create(ctx context.Context, userID int64, form model.MessageForm) (*model.Message, error) {
	if err := validation.Check(&form); err != nil {
		return nil, err
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	message, err := s.messages.Create(ctx, userID, form)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("user_id", userID).Msg("message not created")
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "message_created").
		Int64("user_id", userID).
		Int64("message_id", message.ID).
		Msg("message created")

	return message, nil
}

func (s *MessageService) Update(ctx context.Context, userID, id int64, form model.MessageForm) (*model.Message, error) {
	if err := validation.Check(&form); err != nil {
		return nil, err
	}

	message, err := s.messages.Update(ctx, userID, id, form)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("user_id", userID).Int64("message_id", id).Msg("message not updated")
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "message_updated").
		Int64("user_id", userID).
		Int64("message_id", id).
		Msg("message updated")

	return message, nil
}

func (s *MessageService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.messages.Delete(ctx, userID, id); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("event", "message_deleted").
		Int64("user_id", userID).
		Int64("message_id", id).
		Msg("message deleted")

	return nil
}
