package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrIssueFailed is returned when a card number could not be produced,
	// typically because the entropy source failed.
	ErrIssueFailed = errors.New("failed to issue card number")

	// ErrInvalidConfig is returned when the issuer configuration is invalid
	ErrInvalidConfig = errors.New("invalid issuer configuration")
)
