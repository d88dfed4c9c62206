// Package lib groups modules that do not fit strictly into other layers:
// prompt template rendering, background job processing (Redis/Asynq), and
// the email client integration (Resend).
package lib
