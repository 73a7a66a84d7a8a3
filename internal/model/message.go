package model

import "github.com/deppfellow/msgboard/internal/validation"

// Message is a short text owned by exactly one User.
type Message struct {
	ID      int64  `json:"id" db:"id"`
	MsgText string `json:"msg_text" db:"msg_text"`
	UserID  int64  `json:"user_id" db:"user_id"`
}

// Message text bounds, both inclusive.
const (
	MsgTextMinLength = 20
	MsgTextMaxLength = 100
)

type MessageForm struct {
	MsgText string `form:"msg_text" json:"msg_text" validate:"min=20,max=100"`
}

func (f *MessageForm) Validate() error {
	return validation.Struct(f)
}

func (m *Message) Form() MessageForm {
	return MessageForm{MsgText: m.MsgText}
}

// MessagePathRequest addresses one message under its owner.
type MessagePathRequest struct {
	UserID    int64 `param:"userId"`
	MessageID int64 `param:"messageId"`
}

func (r *MessagePathRequest) Validate() error {
	return nil
}

type CreateMessageRequest struct {
	UserID int64 `param:"userId"`
	MessageForm
}

func (r *CreateMessageRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateMessageRequest struct {
	UserID    int64 `param:"userId"`
	MessageID int64 `param:"messageId"`
	MessageForm
}

func (r *UpdateMessageRequest) Validate() error {
	return validation.Struct(r)
}
