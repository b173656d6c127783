package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/platform/postgres"
	"github.com/phrazzld/debitcard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDebitCardTransactionStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresDebitCardTransactionStore(db, nil)

		txn, err := domain.NewDebitCardTransaction(uuid.New(), 25000, domain.CurrencyIDR)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO debit_card_transactions").
			WithArgs(txn.ID, txn.DebitCardID, txn.Amount, txn.CurrencyCode, txn.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), txn))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid amount", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		s := postgres.NewPostgresDebitCardTransactionStore(db, nil)

		txn := &domain.DebitCardTransaction{
			ID:           uuid.New(),
			DebitCardID:  uuid.New(),
			Amount:       0,
			CurrencyCode: domain.CurrencySGD,
		}
		assert.ErrorIs(t, s.Create(context.Background(), txn), domain.ErrTransactionAmount)
	})

	t.Run("unknown card", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresDebitCardTransactionStore(db, nil)

		txn, err := domain.NewDebitCardTransaction(uuid.New(), 100, domain.CurrencyTHB)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO debit_card_transactions").WillReturnError(newPgError("23503"))

		assert.ErrorIs(t, s.Create(context.Background(), txn), store.ErrInvalidEntity)
	})
}

func TestPostgresDebitCardTransactionStore_ListByCardID(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	s := postgres.NewPostgresDebitCardTransactionStore(db, nil)

	cardID := uuid.New()
	now := time.Now().UTC()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM debit_card_transactions WHERE debit_card_id = \\$1 ORDER BY created_at, id").
		WithArgs(cardID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "debit_card_id", "amount", "currency_code", "created_at"}).
			AddRow(first.String(), cardID.String(), int64(1000), "VND", now.Add(-time.Hour)).
			AddRow(second.String(), cardID.String(), int64(2500), "IDR", now))

	txns, err := s.ListByCardID(context.Background(), cardID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, first, txns[0].ID)
	assert.Equal(t, int64(1000), txns[0].Amount)
	assert.Equal(t, "IDR", txns[1].CurrencyCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDebitCardTransactionStore_CountByCardID(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	s := postgres.NewPostgresDebitCardTransactionStore(db, nil)

	cardID := uuid.New()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM debit_card_transactions").
		WithArgs(cardID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.CountByCardID(context.Background(), cardID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
