// Package testutil provides an in-memory store with the same constraint
// behavior as the PostgreSQL schema, for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/sqlerr"
	"github.com/samber/lo"
)

// Store holds users and messages. Users and Messages expose it through the
// two store interfaces the services expect.
type Store struct {
	mu       sync.Mutex
	users    map[int64]model.User
	messages map[int64]model.Message
	nextUser int64
	nextMsg  int64
	calls    int
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]model.User),
		messages: make(map[int64]model.Message),
	}
}

// Calls counts every store operation, including failed ones.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// MessageCount reports the number of stored messages across all users.
func (s *Store) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Store) Users() *UserStore {
	return &UserStore{s: s}
}

func (s *Store) Messages() *MessageStore {
	return &MessageStore{s: s}
}

func (s *Store) begin() func() {
	s.mu.Lock()
	s.calls++
	return s.mu.Unlock
}

func userNotFound() error {
	return errs.NewNotFoundError("User not found", true, nil)
}

func messageNotFound() error {
	return errs.NewNotFoundError("Message not found", true, nil)
}

// conflict checks the two unique constraints in the order the schema
// declares them, skipping the row being updated.
func (s *Store) conflict(form model.UserForm, skipID int64) error {
	for _, u := range s.users {
		if u.ID == skipID {
			continue
		}
		if u.Username == form.Username {
			return sqlerr.HandleError(sqlerr.NewUniqueViolation("users", "users_username_key"))
		}
	}
	for _, u := range s.users {
		if u.ID == skipID {
			continue
		}
		if u.Email == form.Email {
			return sqlerr.HandleError(sqlerr.NewUniqueViolation("users", "users_email_key"))
		}
	}
	return nil
}

type UserStore struct {
	s *Store
}

func (us *UserStore) List(_ context.Context) ([]model.User, error) {
	defer us.s.begin()()

	users := lo.Values(us.s.users)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (us *UserStore) Get(_ context.Context, id int64) (*model.User, error) {
	defer us.s.begin()()

	user, ok := us.s.users[id]
	if !ok {
		return nil, userNotFound()
	}
	return &user, nil
}

func (us *UserStore) Create(_ context.Context, form model.UserForm) (*model.User, error) {
	defer us.s.begin()()

	if err := us.s.conflict(form, 0); err != nil {
		return nil, err
	}

	us.s.nextUser++
	user := model.User{
		ID:        us.s.nextUser,
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	us.s.users[user.ID] = user
	return &user, nil
}

func (us *UserStore) Update(_ context.Context, id int64, form model.UserForm) (*model.User, error) {
	defer us.s.begin()()

	if _, ok := us.s.users[id]; !ok {
		return nil, userNotFound()
	}
	if err := us.s.conflict(form, id); err != nil {
		return nil, err
	}

	user := model.User{
		ID:        id,
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	us.s.users[id] = user
	return &user, nil
}

func (us *UserStore) Delete(_ context.Context, id int64) (int64, error) {
	defer us.s.begin()()

	if _, ok := us.s.users[id]; !ok {
		return 0, userNotFound()
	}

	var removed int64
	for msgID, m := range us.s.messages {
		if m.UserID == id {
			delete(us.s.messages, msgID)
			removed++
		}
	}
	delete(us.s.users, id)
	return removed, nil
}

type MessageStore struct {
	s *Store
}

func (ms *MessageStore) ListByUser(_ context.Context, userID int64) ([]model.Message, error) {
	defer ms.s.begin()()

	messages := lo.Filter(lo.Values(ms.s.messages), func(m model.Message, _ int) bool {
		return m.UserID == userID
	})
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages, nil
}

func (ms *MessageStore) Get(_ context.Context, userID, id int64) (*model.Message, error) {
	defer ms.s.begin()()

	message, ok := ms.s.messages[id]
	if !ok || message.UserID != userID {
		return nil, messageNotFound()
	}
	return &message, nil
}

func (ms *MessageStore) Create(_ context.Context, userID int64, form model.MessageForm) (*model.Message, error) {
	defer ms.s.begin()()

	if _, ok := ms.s.users[userID]; !ok {
		return nil, sqlerr.HandleError(sqlerr.NewForeignKeyViolation("messages", "user_id", "messages_user_id_fkey"))
	}

	ms.s.nextMsg++
	message := model.Message{ID: ms.s.nextMsg, MsgText: form.MsgText, UserID: userID}
	ms.s.messages[message.ID] = message
	return &message, nil
}

func (ms *MessageStore) Update(_ context.Context, userID, id int64, form model.MessageForm) (*model.Message, error) {
	defer ms.s.begin()()

	message, ok := ms.s.messages[id]
	if !ok || message.UserID != userID {
		return nil, messageNotFound()
	}

	message.MsgText = form.MsgText
	ms.s.messages[id] = message
	return &message, nil
}

func (ms *MessageStore) Delete(_ context.Context, userID, id int64) error {
	defer ms.s.begin()()

	message, ok := ms.s.messages[id]
	if !ok || message.UserID != userID {
		return messageNotFound()
	}

	delete(ms.s.messages, id)
	return nil
}
