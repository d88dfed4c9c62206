package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwidyatama/go-genai-service/internal/errs"
)

func TestMapCode(t *testing.T) {
	tests := []struct {
		pgCode string
		want   Code
	}{
		{"23505", UniqueViolation},
		{"23503", ForeignKeyViolation},
		{"23502", NotNullViolation},
		{"23514", CheckViolation},
		{"08006", ConnectionFailure},
		{"42601", Other},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCode(tt.pgCode), "pg code %s", tt.pgCode)
	}
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "prompt_templates",
		ConstraintName: "unique_prompt_templates_name",
	})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PROMPT_TEMPLATE_ALREADY_EXISTS", httpErr.Code)
	assert.Contains(t, httpErr.Message, "Name")
	assert.True(t, httpErr.Override)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:      "23503",
		Severity:  "ERROR",
		TableName: "completions",
		// FK violations on completions reference the template.
		ConstraintName: "completions_template_id_fkey",
		ColumnName:     "template_id",
	})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "COMPLETION_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Template does not exist", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "completions",
		ColumnName: "prompt",
	})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "prompt", httpErr.Errors[0].Field)
}

func TestHandleErrorNoRows(t *testing.T) {
	for _, err := range []error{pgx.ErrNoRows, fmt.Errorf("query: %w", pgx.ErrNoRows)} {
		converted := HandleError(err)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, converted, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
	}
}

func TestHandleErrorPassesThroughHTTPError(t *testing.T) {
	original := errs.NewUpstreamAuthError()
	assert.Same(t, original, HandleError(original).(*errs.HTTPError))
}

func TestHandleErrorUnknownBecomesSanitized500(t *testing.T) {
	err := HandleError(errors.New("connection reset by peer"))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	// The raw error text must never leak to clients.
	assert.NotContains(t, httpErr.Message, "connection reset")
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"unique_prompt_templates_name", "name"},
		{"prompt_templates_name_key", "name"},
		{"completions_pkey", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractColumnForUniqueViolation(tt.constraint), tt.constraint)
	}
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})

	assert.Equal(t, UniqueViolation, ErrCode(converted))
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("wrapped: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("not a pg error")))
}
