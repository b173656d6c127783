package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/service"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDebitCardRepository mocks the DebitCardRepository interface.
// WithTx returns the same mock so expectations cover both bound and unbound calls.
type MockDebitCardRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockDebitCardRepository) Create(ctx context.Context, card *domain.DebitCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockDebitCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitCard), args.Error(1)
}

func (m *MockDebitCardRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitCard), args.Error(1)
}

func (m *MockDebitCardRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DebitCard), args.Error(1)
}

func (m *MockDebitCardRepository) UpdateStatus(ctx context.Context, card *domain.DebitCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockDebitCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDebitCardRepository) WithTx(tx *sql.Tx) service.DebitCardRepository {
	return m
}

func (m *MockDebitCardRepository) DB() *sql.DB {
	return m.db
}

// MockTransactionRepository mocks the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListByCardID(
	ctx context.Context,
	cardID uuid.UUID,
) ([]*domain.DebitCardTransaction, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DebitCardTransaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByCardID(ctx context.Context, cardID uuid.UUID) (int, error) {
	args := m.Called(ctx, cardID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(tx *sql.Tx) service.TransactionRepository {
	return m
}

// newSQLMock returns a sqlmock-backed *sql.DB used to drive RunInTransaction.
func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}
