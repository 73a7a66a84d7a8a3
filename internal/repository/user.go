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

// Unique constraints on users, named in migrations/001_setup.sql.
const (
	ConstraintUsersUsername = "users_username_key"
	ConstraintUsersEmail    = "users_email_key"
)

const userColumns = `id, username, email, first_name, last_name`

type UserRepository struct {
	server *server.Server
}

func NewUserRepository(s *server.Server) *UserRepository {
	return &UserRepository{server: s}
}

func userNotFound() error {
	return errs.NewNotFoundError("User not found", true, nil)
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "listing users"))
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "scanning users"))
	}
	return users, nil
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "loading user"))
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, userNotFound()
	}
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "loading user"))
	}
	return &user, nil
}

// Create inserts a user. A duplicate username or email fails with a 400
// naming that field; the transaction is rolled back first.
func (r *UserRepository) Create(ctx context.Context, form model.UserForm) (*model.User, error) {
	var user model.User
	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO users (username, email, first_name, last_name)
			VALUES (@username, @email, @first_name, @last_name)
			RETURNING `+userColumns,
			userArgs(form))
		if err != nil {
			return err
		}
		user, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "creating user"))
	}
	return &user, nil
}

// Update overwrites all four fields of user id with form.
func (r *UserRepository) Update(ctx context.Context, id int64, form model.UserForm) (*model.User, error) {
	args := userArgs(form)
	args["id"] = id

	var user model.User
	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE users
			SET username = @username, email = @email, first_name = @first_name, last_name = @last_name
			WHERE id = @id
			RETURNING `+userColumns,
			args)
		if err != nil {
			return err
		}
		user, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, userNotFound()
	}
	if err != nil {
		return nil, sqlerr.HandleError(errors.Wrap(err, "updating user"))
	}
	return &user, nil
}

// Delete removes the user and, in the same transaction, every message it
// owns. It returns how many messages went with it.
func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM messages WHERE user_id = $1`, id)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return userNotFound()
		}
		return nil
	})
	if err != nil {
		return 0, sqlerr.HandleError(errors.Wrap(err, "deleting user"))
	}
	return removed, nil
}

func userArgs(form model.UserForm) pgx.NamedArgs {
	return pgx.NamedArgs{
		"username":   form.Username,
		"email":      form.Email,
		"first_name": form.FirstName,
		"last_name":  form.LastName,
	}
}
