package generation

import (
	"context"
	"time"
)

// IssuedCard carries the generated attributes of a new debit card.
type IssuedCard struct {
	Number         string
	ExpirationDate time.Time
}

// CardIssuer defines the interface for generating card numbers and expiry
// dates for newly created debit cards.
type CardIssuer interface {
	// Issue produces a number and expiration date for a card of the given
	// network type. The type has already been validated by the caller.
	//
	// Returns ErrIssueFailed (wrapped) when no number could be generated.
	Issue(ctx context.Context, cardType string) (*IssuedCard, error)
}
