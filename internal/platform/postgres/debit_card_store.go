package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/platform/logger"
	"github.com/phrazzld/debitcard-api/internal/store"
)

const debitCardColumns = `id, user_id, number, type, expiration_date, disabled_at, created_at, updated_at`

// PostgresDebitCardStore implements the store.DebitCardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDebitCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDebitCardStore creates a new PostgreSQL implementation of the DebitCardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDebitCardStore(db store.DBTX, logger *slog.Logger) *PostgresDebitCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDebitCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "debit_card_store")),
	}
}

// Ensure PostgresDebitCardStore implements store.DebitCardStore interface
var _ store.DebitCardStore = (*PostgresDebitCardStore)(nil)

// WithTx implements store.DebitCardStore.WithTx
func (s *PostgresDebitCardStore) WithTx(tx *sql.Tx) store.DebitCardStore {
	return &PostgresDebitCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DebitCardStore.Create
func (s *PostgresDebitCardStore) Create(ctx context.Context, card *domain.DebitCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("debit card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO debit_cards (` + debitCardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.UserID,
		card.Number,
		card.Type,
		card.ExpirationDate,
		card.DisabledAt,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during debit card creation",
				slog.String("card_id", card.ID.String()),
				slog.String("user_id", card.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, card.UserID)
		}
		log.Error("failed to create debit card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return MapError(err)
	}

	log.Info("debit card created successfully",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()),
		slog.String("type", card.Type))
	return nil
}

// GetByID implements store.DebitCardStore.GetByID
func (s *PostgresDebitCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error) {
	query := `SELECT ` + debitCardColumns + ` FROM debit_cards WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByIDForUpdate implements store.DebitCardStore.GetByIDForUpdate
func (s *PostgresDebitCardStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DebitCard, error) {
	query := `SELECT ` + debitCardColumns + ` FROM debit_cards WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *PostgresDebitCardStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.DebitCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := scanDebitCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("debit card not found", slog.String("card_id", id.String()))
			return nil, store.ErrDebitCardNotFound
		}
		log.Error("failed to get debit card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// ListByUserID implements store.DebitCardStore.ListByUserID
func (s *PostgresDebitCardStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + debitCardColumns + `
		FROM debit_cards
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query debit cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := make([]*domain.DebitCard, 0)
	for rows.Next() {
		card, err := scanDebitCard(rows)
		if err != nil {
			log.Error("failed to scan debit card row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating debit card rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Debug("debit cards listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateStatus implements store.DebitCardStore.UpdateStatus
func (s *PostgresDebitCardStore) UpdateStatus(ctx context.Context, card *domain.DebitCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE debit_cards
		SET disabled_at = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, card.DisabledAt, card.UpdatedAt, card.ID)
	if err != nil {
		log.Error("failed to update debit card status",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "debit card"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrDebitCardNotFound
		}
		return err
	}

	log.Info("debit card status updated",
		slog.String("card_id", card.ID.String()),
		slog.Bool("disabled", card.DisabledAt != nil))
	return nil
}

// Delete implements store.DebitCardStore.Delete
func (s *PostgresDebitCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM debit_cards WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("debit card still referenced by transactions",
				slog.String("card_id", id.String()))
			return store.NewStoreError("debit_card", "delete", "card has transactions", store.ErrDeleteFailed)
		}
		log.Error("failed to delete debit card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "debit card"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrDebitCardNotFound
		}
		return err
	}

	log.Info("debit card deleted", slog.String("card_id", id.String()))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDebitCard(row rowScanner) (*domain.DebitCard, error) {
	var card domain.DebitCard
	var disabledAt sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Number,
		&card.Type,
		&card.ExpirationDate,
		&disabledAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if disabledAt.Valid {
		t := disabledAt.Time.UTC()
		card.DisabledAt = &t
	}
	card.ExpirationDate = card.ExpirationDate.UTC()
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()

	return &card, nil
}
