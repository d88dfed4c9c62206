// Package handler is the HTTP layer: it binds and validates request
// payloads, calls the service layer, and shapes responses. Errors are
// returned raw and translated by the global error handler.
package handler
