package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/service"
	"github.com/deppfellow/msgboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newServices() (*service.Services, *testutil.Store) {
	store := testutil.NewStore()
	return service.NewServicesWithStores(store.Users(), store.Messages()), store
}

func adaForm() model.UserForm {
	return model.UserForm{Username: "ada", Email: "ada@x.io", FirstName: "Ada", LastName: "Lovelace"}
}

func text(n int) string {
	return strings.Repeat("a", n)
}

func fieldNames(err error) []string {
	var names []string
	for _, fe := range errs.FieldErrorsOf(err) {
		names = append(names, fe.Field)
	}
	return names
}

func TestUserService_CreateThenGet(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newServices()

	created, err := svc.Users.Create(ctx, adaForm())
	req.NoError(err)
	req.NotZero(created.ID)

	got, err := svc.Users.Get(ctx, created.ID)
	req.NoError(err)
	req.Equal(*created, *got)
}

func TestUserService_DuplicateReportsOnlyConflictingField(t *testing.T) {
	ctx := context.Background()

	t.Run("username", func(t *testing.T) {
		svc, _ := newServices()
		_, err := svc.Users.Create(ctx, adaForm())
		require.NoError(t, err)

		form := adaForm()
		form.Email = "other@x.io"
		_, err = svc.Users.Create(ctx, form)
		require.Equal(t, []string{"username"}, fieldNames(err))
	})

	t.Run("email", func(t *testing.T) {
		svc, _ := newServices()
		_, err := svc.Users.Create(ctx, adaForm())
		require.NoError(t, err)

		form := adaForm()
		form.Username = "grace"
		_, err = svc.Users.Create(ctx, form)
		require.Equal(t, []string{"email"}, fieldNames(err))
	})
}

func TestUserService_InvalidFormNeverReachesStore(t *testing.T) {
	svc, store := newServices()

	_, err := svc.Users.Create(context.Background(), model.UserForm{Email: "a@b"})
	require.ElementsMatch(t, []string{"username", "email", "first_name", "last_name"}, fieldNames(err))
	require.Zero(t, store.Calls())
}

func TestUserService_UpdateIsIdempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newServices()

	created, err := svc.Users.Create(ctx, adaForm())
	req.NoError(err)

	form := adaForm()
	form.LastName = "King"
	first, err := svc.Users.Update(ctx, created.ID, form)
	req.NoError(err)
	second, err := svc.Users.Update(ctx, created.ID, form)
	req.NoError(err)
	req.Equal(*first, *second)
	req.Equal("King", second.LastName)
}

func TestUserService_UpdateUnknownUser(t *testing.T) {
	svc, _ := newServices()
	_, err := svc.Users.Update(context.Background(), 42, adaForm())
	require.True(t, errs.IsNotFound(err))
}

func TestUserService_DeleteCascades(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, store := newServices()

	ada, err := svc.Users.Create(ctx, adaForm())
	req.NoError(err)
	for range 3 {
		_, err := svc.Messages.Create(ctx, ada.ID, model.MessageForm{MsgText: text(20)})
		req.NoError(err)
	}

	removed, err := svc.Users.Delete(ctx, ada.ID)
	req.NoError(err)
	req.EqualValues(3, removed)
	req.Zero(store.MessageCount())

	_, err = svc.Users.Get(ctx, ada.ID)
	req.True(errs.IsNotFound(err))
}

func TestMessageService_TextBoundaries(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		length int
		ok     bool
	}{
		{19, false},
		{20, true},
		{100, true},
		{101, false},
	}

	for _, tc := range tests {
		svc, store := newServices()
		ada, err := svc.Users.Create(ctx, adaForm())
		require.NoError(t, err)
		before := store.Calls()

		_, err = svc.Messages.Create(ctx, ada.ID, model.MessageForm{MsgText: text(tc.length)})
		if tc.ok {
			require.NoError(t, err, "length %d", tc.length)
			continue
		}
		require.Equal(t, []string{"msg_text"}, fieldNames(err), "length %d", tc.length)
		require.Equal(t, before, store.Calls(), "length %d touched the store", tc.length)
	}
}

func TestMessageService_CountsCharactersNotBytes(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()
	ada, err := svc.Users.Create(ctx, adaForm())
	require.NoError(t, err)

	_, err = svc.Messages.Create(ctx, ada.ID, model.MessageForm{MsgText: strings.Repeat("é", 20)})
	require.NoError(t, err)
}

func TestMessageService_CreateForUnknownUser(t *testing.T) {
	svc, store := newServices()

	_, err := svc.Messages.Create(context.Background(), 7, model.MessageForm{MsgText: text(30)})
	require.True(t, errs.IsNotFound(err))
	require.Zero(t, store.MessageCount())
}

func TestMessageService_Owner(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newServices()

	ada, err := svc.Users.Create(ctx, adaForm())
	req.NoError(err)

	owner, err := svc.Messages.Owner(ctx, ada.ID)
	req.NoError(err)
	req.Equal("ada", owner.Username)

	_, err = svc.Messages.Owner(ctx, ada.ID+1)
	req.True(errs.IsNotFound(err))
}

func TestMessageService_OwnershipIsEnforced(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newServices()

	ada, err := svc.Users.Create(ctx, adaForm())
	req.NoError(err)
	grace, err := svc.Users.Create(ctx, model.UserForm{Username: "grace", Email: "grace@x.io", FirstName: "Grace", LastName: "Hopper"})
	req.NoError(err)

	msg, err := svc.Messages.Create(ctx, ada.ID, model.MessageForm{MsgText: "Hello from Ada, the first!"})
	req.NoError(err)

	_, _, err = svc.Messages.Get(ctx, grace.ID, msg.ID)
	req.True(errs.IsNotFound(err))

	_, err = svc.Messages.Update(ctx, grace.ID, msg.ID, model.MessageForm{MsgText: text(25)})
	req.True(errs.IsNotFound(err))

	req.True(errs.IsNotFound(svc.Messages.Delete(ctx, grace.ID, msg.ID)))

	owner, got, err := svc.Messages.Get(ctx, ada.ID, msg.ID)
	req.NoError(err)
	req.Equal(ada.ID, owner.ID)
	req.Equal("Hello from Ada, the first!", got.MsgText)
}

func TestMessageService_ListScopedToOwner(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _ := newServices()

	ada, err := svc.Users.Create(ctx, adaForm())
	req.NoError(err)
	grace, err := svc.Users.Create(ctx, model.UserForm{Username: "grace", Email: "grace@x.io", FirstName: "Grace", LastName: "Hopper"})
	req.NoError(err)

	_, err = svc.Messages.Create(ctx, ada.ID, model.MessageForm{MsgText: "Hello from Ada, the first!"})
	req.NoError(err)
	_, err = svc.Messages.Create(ctx, grace.ID, model.MessageForm{MsgText: "Grace was here, debugging."})
	req.NoError(err)

	owner, messages, err := svc.Messages.List(ctx, ada.ID)
	req.NoError(err)
	req.Equal("ada", owner.Username)
	req.Len(messages, 1)
	req.Equal("Hello from Ada, the first!", messages[0].MsgText)

	_, _, err = svc.Messages.List(ctx, 999)
	req.True(errs.IsNotFound(err))
}
