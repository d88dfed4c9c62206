// Package sqlerr translates database driver errors into API errors.
//
// It parses Postgres SQLSTATE codes from pgx and converts them into
// user-presentable HTTPErrors, e.g. a unique violation on
// prompt_templates.name becomes "A prompt template with this Name already
// exists" instead of a raw constraint message.
package sqlerr
