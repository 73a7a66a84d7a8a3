package model

import "github.com/deppfellow/msgboard/internal/validation"

// User is a board member. ID is assigned by the store on creation and
// never changes afterwards.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Email     string `json:"email" db:"email"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// UserForm is the editable part of a User. An update replaces all four
// values with the submitted ones; nothing is merged.
type UserForm struct {
	Username  string `form:"username" json:"username" validate:"required"`
	Email     string `form:"email" json:"email" validate:"min=5,max=35"`
	FirstName string `form:"first_name" json:"first_name" validate:"required"`
	LastName  string `form:"last_name" json:"last_name" validate:"required"`
}

func (f *UserForm) Validate() error {
	return validation.Struct(f)
}

// Form returns u's current values, used to pre-fill the edit page.
func (u *User) Form() UserForm {
	return UserForm{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// ListUsersRequest has no inputs.
type ListUsersRequest struct{}

func (r *ListUsersRequest) Validate() error {
	return nil
}

// UserPathRequest addresses one user: show, edit form, delete, and the
// message list and new message form under it.
type UserPathRequest struct {
	UserID int64 `param:"userId"`
}

func (r *UserPathRequest) Validate() error {
	return nil
}

type CreateUserRequest struct {
	UserForm
}

func (r *CreateUserRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateUserRequest struct {
	UserID int64 `param:"userId"`
	UserForm
}

func (r *UpdateUserRequest) Validate() error {
	return validation.Struct(r)
}

// NewUserRequest has no inputs; it serves the blank new user form.
type NewUserRequest struct{}

func (r *NewUserRequest) Validate() error {
	return nil
}
