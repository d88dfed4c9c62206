package sqlerr

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code categorizes Postgres SQLSTATE codes into the classes the API layer
// actually distinguishes.
type Code int

const (
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	ConnectionFailure
)

// Severity mirrors the Postgres error severity field.
type Severity int

const (
	SeverityError Severity = iota
	SeverityFatal
	SeverityPanic
	SeverityWarning
)

// MapCode maps a SQLSTATE string onto a Code.
//
// SQLSTATE class 23 is integrity constraint violation; class 08 is
// connection exception.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	}
	if len(sqlstate) >= 2 && sqlstate[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}

// MapSeverity maps the Postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Error is the normalized database error carrying the metadata needed to
// build user-facing messages and machine codes.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string // original SQLSTATE
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr *pgconn.PgError
}

func (e *Error) Error() string {
	return fmt.Sprintf("sqlerr %s: %s", e.DatabaseCode, e.Message)
}

// Unwrap exposes the original driver error to errors.As/Is.
func (e *Error) Unwrap() error {
	if e.driverErr == nil {
		return nil
	}
	return e.driverErr
}
