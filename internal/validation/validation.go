// Package validation checks submitted data before any store access.
//
// Rules live on the request structs as go-playground/validator tags; this
// package runs them and turns the failures into errs.FieldError values
// keyed by form field name. It never talks to the store: uniqueness is
// the store's job and is reported by the sqlerr package at commit time.
package validation
