package errs

import (
	"errors"
	"strings"
)

// FieldError is a single field-level problem with a form submission.
//
// Field is the form key ("username", "msg_text"), not the Go field name,
// so views can look errors up by the same name the input uses.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the one error type that crosses the handler boundary.
//
// Fields:
//   - Code: stable machine code, e.g. "USER_ALREADY_EXISTS".
//   - Message: human-readable summary.
//   - Status: HTTP status to respond with.
//   - Override: whether Message is safe to show the end user verbatim.
//   - Errors: per-field problems (validation and uniqueness conflicts).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError, regardless of code or status. Use the helpers
// below when the status matters.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores turns "Not Found" into "NOT_FOUND".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// IsNotFound reports whether err carries a 404 HTTPError anywhere in its chain.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == 404
}

// FieldErrorsOf returns the field errors carried by err, or nil when err is
// not a field-level failure. A non-nil result means the request can be
// recovered by showing the form again.
func FieldErrorsOf(err error) []FieldError {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != 400 {
		return nil
	}
	return httpErr.Errors
}
