// Package errs defines the error types returned to API clients.
//
// Every failure surfaced over HTTP is expressed as an *HTTPError so clients
// receive a single, predictable JSON shape: a machine code, a human message,
// the HTTP status, optional field-level validation errors, and an optional
// action hint (e.g. redirect).
package errs
