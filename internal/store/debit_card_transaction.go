package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
)

// DebitCardTransactionStore defines the interface for persisting transactions
// recorded against debit cards. Transactions are never modified once written.
type DebitCardTransactionStore interface {
	// Create saves a new transaction.
	// Returns validation errors from the domain type if data is invalid.
	// Returns ErrInvalidEntity if the card does not exist.
	Create(ctx context.Context, txn *domain.DebitCardTransaction) error

	// ListByCardID returns the card's transactions ordered by creation time.
	ListByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error)

	// CountByCardID returns how many transactions reference the card.
	CountByCardID(ctx context.Context, cardID uuid.UUID) (int, error)

	// WithTx returns a new DebitCardTransactionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DebitCardTransactionStore
}
