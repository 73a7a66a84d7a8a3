// Package sqlerr turns store failures into application errors.
//
// Postgres reports a failed write with a SQLSTATE code and, for constraint
// failures, the name of the violated constraint. This package lifts that
// into a structured Error and from there into an *errs.HTTPError the
// handlers understand. Nothing here ever inspects the diagnostic text.
package sqlerr

import (
	"fmt"
)

// Code is a store-independent failure category.
type Code string

const (
	Other                Code = "other"
	NotNullViolation     Code = "not_null_violation"
	ForeignKeyViolation  Code = "foreign_key_violation"
	UniqueViolation      Code = "unique_violation"
	CheckViolation       Code = "check_violation"
	ExclusionViolation   Code = "exclusion_violation"
	SerializationFailure Code = "serialization_failure"
	DeadlockDetected     Code = "deadlock_detected"
	StringTooLong        Code = "string_data_right_truncation"
)

// Severity mirrors the Postgres severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a structured store failure. ConstraintName is what the board
// keys on to tell a duplicate username from a duplicate email.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	if e.ConstraintName != "" {
		return fmt.Sprintf("%s: %s (constraint %s)", e.Code, e.Message, e.ConstraintName)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// NewUniqueViolation builds the error a store reports when a write collides
// with an existing row on the named unique constraint. Stores that do not
// speak SQLSTATE use it to report conflicts the same way Postgres does.
func NewUniqueViolation(table, constraint string) *Error {
	return &Error{
		Code:           UniqueViolation,
		Severity:       SeverityError,
		DatabaseCode:   "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      table,
		ConstraintName: constraint,
	}
}

// NewForeignKeyViolation builds the error for a write referencing a missing row.
func NewForeignKeyViolation(table, column, constraint string) *Error {
	return &Error{
		Code:           ForeignKeyViolation,
		Severity:       SeverityError,
		DatabaseCode:   "23503",
		Message:        "insert or update violates foreign key constraint",
		TableName:      table,
		ColumnName:     column,
		ConstraintName: constraint,
	}
}

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "40001":
		return SerializationFailure
	case "40P01":
		return DeadlockDetected
	case "22001":
		return StringTooLong
	default:
		return Other
	}
}

// MapSeverity maps the Postgres severity string to a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}
