// Package api contains the HTTP handlers for the debit card and
// authentication endpoints. Handlers decode and validate requests, call the
// service layer with the authenticated principal, and map service errors to
// status codes and sanitized JSON error bodies.
package api
