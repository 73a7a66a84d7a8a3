package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/deppfellow/msgboard/internal/database"
	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/repository"
	"github.com/deppfellow/msgboard/internal/server"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// TestDSNEnv names a disposable database. Its tables are truncated by
// every test.
const TestDSNEnv = "BOARD_TEST_DSN"

func newTestRepositories(t *testing.T) (*repository.Repositories, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", TestDSNEnv)
	}

	ctx := context.Background()
	logger := zerolog.Nop()
	require.NoError(t, database.MigrateDSN(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE users, messages RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	s := &server.Server{DB: &database.Database{Pool: pool}}
	return repository.NewRepositories(s), pool
}

func ada() model.UserForm {
	return model.UserForm{Username: "ada", Email: "ada@x.io", FirstName: "Ada", LastName: "Lovelace"}
}

func grace() model.UserForm {
	return model.UserForm{Username: "grace", Email: "grace@x.io", FirstName: "Grace", LastName: "Hopper"}
}

func TestUserRepository_CreateGetUpdate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	created, err := repos.Users.Create(ctx, ada())
	req.NoError(err)
	req.Equal(int64(1), created.ID)

	got, err := repos.Users.Get(ctx, created.ID)
	req.NoError(err)
	req.Equal(model.User{ID: 1, Username: "ada", Email: "ada@x.io", FirstName: "Ada", LastName: "Lovelace"}, *got)

	form := ada()
	form.LastName = "King"
	updated, err := repos.Users.Update(ctx, created.ID, form)
	req.NoError(err)
	req.Equal("King", updated.LastName)

	again, err := repos.Users.Update(ctx, created.ID, form)
	req.NoError(err)
	req.Equal(updated, again)

	_, err = repos.Users.Create(ctx, grace())
	req.NoError(err)
	users, err := repos.Users.List(ctx)
	req.NoError(err)
	req.Len(users, 2)
	req.Equal("ada", users[0].Username)
	req.Equal("grace", users[1].Username)

	_, err = repos.Users.Get(ctx, 99)
	req.True(errs.IsNotFound(err))
	_, err = repos.Users.Update(ctx, 99, form)
	req.True(errs.IsNotFound(err))
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	tests := []struct {
		name  string
		form  model.UserForm
		field string
	}{
		{name: "username", form: model.UserForm{Username: "ada", Email: "other@x.io", FirstName: "A", LastName: "B"}, field: "username"},
		{name: "email", form: model.UserForm{Username: "other", Email: "ada@x.io", FirstName: "A", LastName: "B"}, field: "email"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			repos, _ := newTestRepositories(t)

			_, err := repos.Users.Create(ctx, ada())
			req.NoError(err)

			_, err = repos.Users.Create(ctx, tc.form)
			req.Equal([]errs.FieldError{{Field: tc.field, Error: "is already taken"}}, errs.FieldErrorsOf(err))

			other, err := repos.Users.Create(ctx, grace())
			req.NoError(err)
			_, err = repos.Users.Update(ctx, other.ID, tc.form)
			req.Equal([]errs.FieldError{{Field: tc.field, Error: "is already taken"}}, errs.FieldErrorsOf(err))

			users, err := repos.Users.List(ctx)
			req.NoError(err)
			req.Len(users, 2)
			req.Equal("grace", users[1].Username)
		})
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repos, pool := newTestRepositories(t)

	owner, err := repos.Users.Create(ctx, ada())
	req.NoError(err)
	other, err := repos.Users.Create(ctx, grace())
	req.NoError(err)

	for _, text := range []string{"Hello from Ada, the first!", "Ada writes a second note."} {
		_, err = repos.Messages.Create(ctx, owner.ID, model.MessageForm{MsgText: text})
		req.NoError(err)
	}
	_, err = repos.Messages.Create(ctx, other.ID, model.MessageForm{MsgText: "Grace was here, debugging."})
	req.NoError(err)

	removed, err := repos.Users.Delete(ctx, owner.ID)
	req.NoError(err)
	req.Equal(int64(2), removed)

	var orphans int
	req.NoError(pool.QueryRow(ctx, `SELECT count(*) FROM messages WHERE user_id = $1`, owner.ID).Scan(&orphans))
	req.Zero(orphans)

	left, err := repos.Messages.ListByUser(ctx, other.ID)
	req.NoError(err)
	req.Len(left, 1)

	_, err = repos.Users.Delete(ctx, owner.ID)
	req.True(errs.IsNotFound(err))
}

func TestMessageRepository_ScopedByOwner(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	owner, err := repos.Users.Create(ctx, ada())
	req.NoError(err)
	other, err := repos.Users.Create(ctx, grace())
	req.NoError(err)

	message, err := repos.Messages.Create(ctx, owner.ID, model.MessageForm{MsgText: "Hello from Ada, the first!"})
	req.NoError(err)
	req.Equal(owner.ID, message.UserID)

	_, err = repos.Messages.Get(ctx, other.ID, message.ID)
	req.True(errs.IsNotFound(err))
	_, err = repos.Messages.Update(ctx, other.ID, message.ID, model.MessageForm{MsgText: "Grace tries to edit this."})
	req.True(errs.IsNotFound(err))
	req.True(errs.IsNotFound(repos.Messages.Delete(ctx, other.ID, message.ID)))

	updated, err := repos.Messages.Update(ctx, owner.ID, message.ID, model.MessageForm{MsgText: "Ada edited this message."})
	req.NoError(err)
	req.Equal("Ada edited this message.", updated.MsgText)

	messages, err := repos.Messages.ListByUser(ctx, owner.ID)
	req.NoError(err)
	req.Equal([]model.Message{*updated}, messages)

	req.NoError(repos.Messages.Delete(ctx, owner.ID, message.ID))
	_, err = repos.Messages.Get(ctx, owner.ID, message.ID)
	req.True(errs.IsNotFound(err))
}

func TestMessageRepository_UnknownOwner(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t)

	_, err := repos.Messages.Create(ctx, 42, model.MessageForm{MsgText: "Nobody owns this message."})
	require.True(t, errs.IsNotFound(err))
}
