package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/msgboard/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by every request payload.
type Validatable interface {
	Validate() error
}

var validate = newValidator()

// newValidator reports fields under their form name ("first_name") rather
// than the Go field name, so errors line up with the inputs they belong to.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "param", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// Struct runs the tag rules on s. Rules for one field stop at the first
// failure; every field is checked, so all failing fields are reported.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate fills payload from the request and validates it.
//
// Path parameters are bound first and on their own: an id that is not a
// number cannot name any record, so it is NotFound rather than a bad form.
// Then the whole request is bound (path, query on GET/DELETE, form body)
// and Validate() runs. Field failures come back as a 400 *errs.HTTPError
// carrying one FieldError per failing field.
func BindAndValidate(c echo.Context, payload Validatable) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindPathParams(c, payload); err != nil {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	if err := c.Bind(payload); err != nil {
		message := "Invalid request"
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			message = fmt.Sprint(echoErr.Message)
		}
		return errs.NewBadRequestError(message, false, nil, nil)
	}

	return Check(payload)
}

// Check runs v.Validate and reports failures as a 400 *errs.HTTPError.
func Check(v Validatable) error {
	if msg, fieldErrors := validateStruct(v); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors)
	}
	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), []errs.FieldError{}
	}

	for _, fe := range validationErrors {
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		case "max":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())

		case "email":
			msg = "must be a valid email address"

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", fe.Field(), fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fe.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// FieldMap indexes field errors by field name for templates.
func FieldMap(fieldErrors []errs.FieldError) map[string]string {
	out := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Error
		}
	}
	return out
}
