// Package validation contains the logic for validating request data.
//
// It uses the validator library to enforce rules (required fields, ranges,
// UUID formats) declared in struct tags, and converts validation failures
// into field-level errors the client can act on.
package validation
