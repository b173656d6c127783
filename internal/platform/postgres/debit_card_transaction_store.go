package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/platform/logger"
	"github.com/phrazzld/debitcard-api/internal/store"
)

// PostgresDebitCardTransactionStore implements store.DebitCardTransactionStore.
type PostgresDebitCardTransactionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDebitCardTransactionStore creates a new PostgreSQL transaction store.
// If logger is nil, a default logger will be used.
func NewPostgresDebitCardTransactionStore(db store.DBTX, logger *slog.Logger) *PostgresDebitCardTransactionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDebitCardTransactionStore{
		db:     db,
		logger: logger.With(slog.String("component", "debit_card_transaction_store")),
	}
}

var _ store.DebitCardTransactionStore = (*PostgresDebitCardTransactionStore)(nil)

// WithTx implements store.DebitCardTransactionStore.WithTx
func (s *PostgresDebitCardTransactionStore) WithTx(tx *sql.Tx) store.DebitCardTransactionStore {
	return &PostgresDebitCardTransactionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DebitCardTransactionStore.Create
func (s *PostgresDebitCardTransactionStore) Create(ctx context.Context, txn *domain.DebitCardTransaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := txn.Validate(); err != nil {
		log.Warn("transaction validation failed during create",
			slog.String("error", err.Error()),
			slog.String("transaction_id", txn.ID.String()))
		return err
	}

	query := `
		INSERT INTO debit_card_transactions (id, debit_card_id, amount, currency_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.DebitCardID,
		txn.Amount,
		txn.CurrencyCode,
		txn.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: debit card with ID %s not found", store.ErrInvalidEntity, txn.DebitCardID)
		}
		log.Error("failed to create transaction",
			slog.String("error", err.Error()),
			slog.String("card_id", txn.DebitCardID.String()))
		return MapError(err)
	}

	log.Debug("transaction recorded",
		slog.String("transaction_id", txn.ID.String()),
		slog.String("card_id", txn.DebitCardID.String()))
	return nil
}

// ListByCardID implements store.DebitCardTransactionStore.ListByCardID
func (s *PostgresDebitCardTransactionStore) ListByCardID(
	ctx context.Context,
	cardID uuid.UUID,
) ([]*domain.DebitCardTransaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, debit_card_id, amount, currency_code, created_at
		FROM debit_card_transactions
		WHERE debit_card_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		log.Error("failed to query transactions",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	txns := make([]*domain.DebitCardTransaction, 0)
	for rows.Next() {
		var txn domain.DebitCardTransaction
		if err := rows.Scan(
			&txn.ID,
			&txn.DebitCardID,
			&txn.Amount,
			&txn.CurrencyCode,
			&txn.CreatedAt,
		); err != nil {
			return nil, err
		}
		txn.CreatedAt = txn.CreatedAt.UTC()
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return txns, nil
}

// CountByCardID implements store.DebitCardTransactionStore.CountByCardID
func (s *PostgresDebitCardTransactionStore) CountByCardID(ctx context.Context, cardID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM debit_card_transactions WHERE debit_card_id = $1`,
		cardID,
	).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count transactions",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return 0, MapError(err)
	}
	return count, nil
}
