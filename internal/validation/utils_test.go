package validation_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/deppfellow/msgboard/internal/model"
	"github.com/deppfellow/msgboard/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func fieldNames(err error) []string {
	var names []string
	for _, fe := range errs.FieldErrorsOf(err) {
		names = append(names, fe.Field)
	}
	return names
}

func validUserForm() model.UserForm {
	return model.UserForm{
		Username:  "ada",
		Email:     "ada@x.com",
		FirstName: "Ada",
		LastName:  "L",
	}
}

func postForm(path string, values url.Values) (*http.Request, *httptest.ResponseRecorder) {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return r, httptest.NewRecorder()
}

func TestUserFormRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *model.UserForm)
		fields []string
	}{
		{"valid", func(f *model.UserForm) {}, nil},
		{"empty username", func(f *model.UserForm) { f.Username = "" }, []string{"username"}},
		{"email too short", func(f *model.UserForm) { f.Email = "a@bc" }, []string{"email"}},
		{"email at minimum", func(f *model.UserForm) { f.Email = "a@b.c" }, nil},
		{"email at maximum", func(f *model.UserForm) { f.Email = strings.Repeat("e", 29) + "@x.com" }, nil},
		{"email too long", func(f *model.UserForm) { f.Email = strings.Repeat("e", 30) + "@x.com" }, []string{"email"}},
		{"empty names", func(f *model.UserForm) { f.FirstName, f.LastName = "", "" }, []string{"first_name", "last_name"}},
		{"everything empty", func(f *model.UserForm) { *f = model.UserForm{} }, []string{"username", "email", "first_name", "last_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			form := validUserForm()
			tt.mutate(&form)

			r, rec := postForm("/users", url.Values{
				"username":   {form.Username},
				"email":      {form.Email},
				"first_name": {form.FirstName},
				"last_name":  {form.LastName},
			})
			c := echo.New().NewContext(r, rec)

			payload := &model.CreateUserRequest{}
			err := validation.BindAndValidate(c, payload)

			if tt.fields == nil {
				req.NoError(err)
				req.Equal(form, payload.UserForm)
				return
			}
			req.Error(err)
			req.ElementsMatch(tt.fields, fieldNames(err))
		})
	}
}

func TestMessageTextBoundaries(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{0, false},
		{model.MsgTextMinLength - 1, false},
		{model.MsgTextMinLength, true},
		{60, true},
		{model.MsgTextMaxLength, true},
		{model.MsgTextMaxLength + 1, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("length %d", tt.length), func(t *testing.T) {
			req := require.New(t)
			form := model.MessageForm{MsgText: strings.Repeat("x", tt.length)}

			err := form.Validate()
			if tt.valid {
				req.NoError(err)
				return
			}
			req.Error(err)
		})
	}
}

func TestMessageLengthCountsCharacters(t *testing.T) {
	req := require.New(t)
	form := model.MessageForm{MsgText: strings.Repeat("é", model.MsgTextMinLength)}
	req.NoError(form.Validate())
}

func TestBindAndValidate_MessageMessages(t *testing.T) {
	req := require.New(t)

	r, rec := postForm("/users/1/messages", url.Values{"msg_text": {"too short"}})
	c := echo.New().NewContext(r, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")

	payload := &model.CreateMessageRequest{}
	err := validation.BindAndValidate(c, payload)

	req.Equal(int64(1), payload.UserID)
	req.Equal([]errs.FieldError{{Field: "msg_text", Error: "must be at least 20 characters"}}, errs.FieldErrorsOf(err))
}

func TestBindAndValidate_MalformedPathIsNotFound(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	c := echo.New().NewContext(r, httptest.NewRecorder())
	c.SetParamNames("userId")
	c.SetParamValues("abc")

	err := validation.BindAndValidate(c, &model.UserPathRequest{})
	req.True(errs.IsNotFound(err))
}

func TestFieldMap(t *testing.T) {
	req := require.New(t)
	m := validation.FieldMap([]errs.FieldError{
		{Field: "email", Error: "is already taken"},
		{Field: "email", Error: "ignored"},
	})
	req.Equal(map[string]string{"email": "is already taken"}, m)
}
