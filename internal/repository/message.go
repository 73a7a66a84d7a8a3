package repository

import (
	"context"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/deppfellow/msgboard/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const messageColumns = `id, msg_text, user_id`

// MessageRepository scopes every query by owner: a message id under the
// wrong user id is not found.
type MessageRepository struct {
	server *server.Server
}

func NewMessageRepository(s *server.Server) *MessageRepository {
	return &MessageRepository{server: s}
}

func messageNotFound() error {
	return errs.NewNotFoundError("Message not found", true, nil)
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID int64) ([]model.Message, error) {
	rows, err := r.server.DB.Pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "listing messages"))
	}

	messages, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Message])
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "scanning messages"))
	}
	return messages, nil
}

func (r *MessageRepository) Get(ctx context.Context, userID, id int64) (*model.Message, error) {
	rows, err := r.server.DB.Pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "loading message"))
	}

	message, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Message])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, messageNotFound()
	}
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "loading message"))
	}
	return &message, nil
}

// Create inserts a message for userID. A missing owner surfaces as the
// foreign key violation, which sqlerr maps to NotFound.
func (r *MessageRepository) Create(ctx context.Context, userID int64, form model.MessageForm) (*model.Message, error) {
	var message model.Message
	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`INSERT INTO messages (msg_text, user_id) VALUES ($1, $2) RETURNING `+messageColumns,
			form.MsgText, userID)
		if err != nil {
			return err
		}
		message, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "creating message"))
	}
	return &message, nil
}

func (r *MessageRepository) Update(ctx context.Context, userID, id int64, form model.MessageForm) (*model.Message, error) {
	var message model.Message
	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`UPDATE messages SET msg_text = $1 WHERE id = $2 AND user_id = $3 RETURNING `+messageColumns,
			form.MsgText, id, userID)
		if err != nil {
			return err
		}
		message, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, messageNotFound()
	}
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "updating message"))
	}
	return &message, nil
}

func (r *MessageRepository) Delete(ctx context.Context, userID, id int64) error {
	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return messageNotFound()
		}
		return nil
	})
	if err != nil {
		return sqlerr.HandleError(errors.Wrap(err, "deleting message"))
	}
	return nil
}
