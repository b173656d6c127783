package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
)

// DebitCardStore defines the interface for debit card persistence.
//
// The store does not enforce ownership; callers pass the owning user where a
// query is scoped and check DebitCard.IsOwnedBy otherwise.
type DebitCardStore interface {
	// Create saves a new card.
	// Returns validation errors from the domain DebitCard if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, card *domain.DebitCard) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrDebitCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error)

	// GetByIDForUpdate is GetByID with a row lock held until the surrounding
	// transaction ends. It must be called on a store bound with WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error)

	// ListByUserID returns every card owned by userID, oldest first.
	// Returns an empty slice when the user has no cards.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error)

	// UpdateStatus persists the card's DisabledAt and UpdatedAt fields.
	// Returns ErrDebitCardNotFound if the card does not exist.
	UpdateStatus(ctx context.Context, card *domain.DebitCard) error

	// Delete removes a card by ID.
	// Returns ErrDebitCardNotFound if the card does not exist and
	// ErrDeleteFailed if transactions still reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new DebitCardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DebitCardStore
}
