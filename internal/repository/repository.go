// Package repository handles all interactions with the database.
//
// It contains the SQL queries and methods to fetch, persist, and update
// data, abstracting SQL away from the service layer. Driver errors are
// returned raw; callers (or the global error handler) run them through
// sqlerr for client-facing translation.
package repository
