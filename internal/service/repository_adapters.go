package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/store"
)

// DebitCardRepository defines the card persistence operations the service needs.
type DebitCardRepository interface {
	Create(ctx context.Context, card *domain.DebitCard) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error)
	UpdateStatus(ctx context.Context, card *domain.DebitCard) error
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) DebitCardRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// TransactionRepository defines the read side of debit card transactions.
type TransactionRepository interface {
	ListByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error)
	CountByCardID(ctx context.Context, cardID uuid.UUID) (int, error)
	WithTx(tx *sql.Tx) TransactionRepository
}

// NewDebitCardRepositoryAdapter creates a new adapter that allows a store.DebitCardStore
// to be used where a DebitCardRepository is expected.
func NewDebitCardRepositoryAdapter(cardStore store.DebitCardStore, db *sql.DB) DebitCardRepository {
	return &debitCardRepositoryAdapter{
		DebitCardStore: cardStore,
		db:             db,
	}
}

// debitCardRepositoryAdapter adapts a store.DebitCardStore to the DebitCardRepository interface
type debitCardRepositoryAdapter struct {
	store.DebitCardStore
	db *sql.DB
}

// WithTx implements DebitCardRepository.WithTx
func (a *debitCardRepositoryAdapter) WithTx(tx *sql.Tx) DebitCardRepository {
	return &debitCardRepositoryAdapter{
		DebitCardStore: a.DebitCardStore.WithTx(tx),
		db:             a.db,
	}
}

// DB implements DebitCardRepository.DB
func (a *debitCardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewTransactionRepositoryAdapter wraps a store.DebitCardTransactionStore.
func NewTransactionRepositoryAdapter(txnStore store.DebitCardTransactionStore) TransactionRepository {
	return &transactionRepositoryAdapter{DebitCardTransactionStore: txnStore}
}

type transactionRepositoryAdapter struct {
	store.DebitCardTransactionStore
}

// WithTx implements TransactionRepository.WithTx
func (a *transactionRepositoryAdapter) WithTx(tx *sql.Tx) TransactionRepository {
	return &transactionRepositoryAdapter{
		DebitCardTransactionStore: a.DebitCardTransactionStore.WithTx(tx),
	}
}
