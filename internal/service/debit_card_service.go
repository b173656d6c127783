package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/generation"
	"github.com/phrazzld/debitcard-api/internal/platform/logger"
	"github.com/phrazzld/debitcard-api/internal/platform/metrics"
	"github.com/phrazzld/debitcard-api/internal/store"
)

// maxIssueAttempts bounds how many numbers are drawn when the issued
// number collides with an existing card.
const maxIssueAttempts = 3

// Operation names used in errors, logs and metrics.
const (
	OpListCards            = "list_cards"
	OpCreateCard           = "create_card"
	OpGetCard              = "get_card"
	OpSetCardActive        = "set_card_active"
	OpDeleteCard           = "delete_card"
	OpListCardTransactions = "list_card_transactions"
)

// DebitCardService provides debit card operations scoped to the owning user.
// Every method takes the authenticated user's ID explicitly.
type DebitCardService interface {
	// ListCards returns every card owned by userID, oldest first.
	ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error)

	// CreateCard issues a new active card of cardType for userID.
	CreateCard(ctx context.Context, userID uuid.UUID, cardType string) (*domain.DebitCard, error)

	// GetCard returns a card if it exists and is owned by userID.
	// Returns store.ErrDebitCardNotFound or ErrNotOwned otherwise.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.DebitCard, error)

	// SetCardActive activates or deactivates a card and returns the updated card.
	// The read, ownership check and write happen under a row lock.
	SetCardActive(ctx context.Context, userID, cardID uuid.UUID, active bool) (*domain.DebitCard, error)

	// DeleteCard removes a card that has no transactions.
	// Returns ErrCardHasTransactions when any transaction references it.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// ListCardTransactions returns the transactions of a card owned by userID.
	ListCardTransactions(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error)
}

// DebitCardServiceOption configures the debit card service.
type DebitCardServiceOption func(*debitCardServiceImpl)

// WithTimeFunc replaces the clock used for deactivation timestamps.
func WithTimeFunc(fn func() time.Time) DebitCardServiceOption {
	return func(s *debitCardServiceImpl) {
		s.timeFunc = fn
	}
}

// debitCardServiceImpl implements the DebitCardService interface
type debitCardServiceImpl struct {
	cardRepo DebitCardRepository
	txnRepo  TransactionRepository
	issuer   generation.CardIssuer
	logger   *slog.Logger
	timeFunc func() time.Time
}

var _ DebitCardService = (*debitCardServiceImpl)(nil)

// NewDebitCardService creates a new DebitCardService.
// It returns an error if any of the required dependencies are nil.
func NewDebitCardService(
	cardRepo DebitCardRepository,
	txnRepo TransactionRepository,
	issuer generation.CardIssuer,
	logger *slog.Logger,
	opts ...DebitCardServiceOption,
) (DebitCardService, error) {
	if cardRepo == nil {
		return nil, domain.NewValidationError("cardRepo", "cannot be nil", domain.ErrValidation)
	}
	if txnRepo == nil {
		return nil, domain.NewValidationError("txnRepo", "cannot be nil", domain.ErrValidation)
	}
	if issuer == nil {
		return nil, domain.NewValidationError("issuer", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &debitCardServiceImpl{
		cardRepo: cardRepo,
		txnRepo:  txnRepo,
		issuer:   issuer,
		logger:   logger.With(slog.String("component", "debit_card_service")),
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// ListCards implements DebitCardService.ListCards
func (s *debitCardServiceImpl) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardRepo.ListByUserID(ctx, userID)
	if err != nil {
		log.Error("failed to list debit cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		err = NewDebitCardServiceError(OpListCards, "failed to list cards", err)
		recordOutcome(OpListCards, err)
		return nil, err
	}

	recordOutcome(OpListCards, nil)
	return cards, nil
}

// CreateCard implements DebitCardService.CreateCard
func (s *debitCardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	cardType string,
) (card *domain.DebitCard, err error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	defer func() { recordOutcome(OpCreateCard, err) }()

	if err := domain.ValidateDebitCardType(cardType); err != nil {
		log.Debug("rejected card type", slog.String("error", err.Error()))
		return nil, err
	}

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		issued, err := s.issuer.Issue(ctx, cardType)
		if err != nil {
			log.Error("failed to issue card number",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, NewDebitCardServiceError(OpCreateCard, "failed to issue card number", err)
		}

		card, err = domain.NewDebitCard(userID, cardType, issued.Number, issued.ExpirationDate)
		if err != nil {
			return nil, err
		}

		err = s.cardRepo.Create(ctx, card)
		if err == nil {
			log.Info("debit card issued",
				slog.String("card_id", card.ID.String()),
				slog.String("user_id", userID.String()),
				slog.String("type", card.Type))
			return card, nil
		}
		if !store.IsDuplicateError(err) {
			log.Error("failed to save debit card",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, NewDebitCardServiceError(OpCreateCard, "failed to save card", err)
		}

		log.Warn("issued card number already in use, retrying",
			slog.Int("attempt", attempt))
	}

	return nil, NewDebitCardServiceError(OpCreateCard, "could not issue a unique card number", store.ErrDuplicate)
}

// GetCard implements DebitCardService.GetCard
func (s *debitCardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.DebitCard, error) {
	card, err := s.ownedCard(ctx, s.cardRepo.GetByID, OpGetCard, userID, cardID)
	recordOutcome(OpGetCard, err)
	return card, err
}

// SetCardActive implements DebitCardService.SetCardActive
func (s *debitCardServiceImpl) SetCardActive(
	ctx context.Context,
	userID, cardID uuid.UUID,
	active bool,
) (*domain.DebitCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.DebitCard
	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txCardRepo := s.cardRepo.WithTx(tx)

		card, err := s.ownedCard(ctx, txCardRepo.GetByIDForUpdate, OpSetCardActive, userID, cardID)
		if err != nil {
			return err
		}

		card.SetActive(active, s.timeFunc())
		if err := txCardRepo.UpdateStatus(ctx, card); err != nil {
			log.Error("failed to update debit card status",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewDebitCardServiceError(OpSetCardActive, "failed to update card", err)
		}

		updated = card
		return nil
	})
	recordOutcome(OpSetCardActive, err)
	if err != nil {
		return nil, err
	}

	log.Info("debit card status changed",
		slog.String("card_id", cardID.String()),
		slog.Bool("active", active))
	return updated, nil
}

// DeleteCard implements DebitCardService.DeleteCard
func (s *debitCardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txCardRepo := s.cardRepo.WithTx(tx)
		txTxnRepo := s.txnRepo.WithTx(tx)

		if _, err := s.ownedCard(ctx, txCardRepo.GetByIDForUpdate, OpDeleteCard, userID, cardID); err != nil {
			return err
		}

		count, err := txTxnRepo.CountByCardID(ctx, cardID)
		if err != nil {
			log.Error("failed to count card transactions",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewDebitCardServiceError(OpDeleteCard, "failed to count transactions", err)
		}
		if count > 0 {
			log.Debug("refusing to delete card with transactions",
				slog.String("card_id", cardID.String()),
				slog.Int("transaction_count", count))
			return NewDebitCardServiceError(OpDeleteCard, "card has transactions", ErrCardHasTransactions)
		}

		if err := txCardRepo.Delete(ctx, cardID); err != nil {
			// A transaction inserted after the count still trips the foreign key.
			if errors.Is(err, store.ErrDeleteFailed) {
				return NewDebitCardServiceError(OpDeleteCard, "card has transactions", ErrCardHasTransactions)
			}
			log.Error("failed to delete debit card",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
			return NewDebitCardServiceError(OpDeleteCard, "failed to delete card", err)
		}
		return nil
	})
	recordOutcome(OpDeleteCard, err)
	if err != nil {
		return err
	}

	log.Info("debit card deleted", slog.String("card_id", cardID.String()))
	return nil
}

// ListCardTransactions implements DebitCardService.ListCardTransactions
func (s *debitCardServiceImpl) ListCardTransactions(
	ctx context.Context,
	userID, cardID uuid.UUID,
) ([]*domain.DebitCardTransaction, error) {
	if _, err := s.ownedCard(ctx, s.cardRepo.GetByID, OpListCardTransactions, userID, cardID); err != nil {
		recordOutcome(OpListCardTransactions, err)
		return nil, err
	}

	txns, err := s.txnRepo.ListByCardID(ctx, cardID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list card transactions",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		err = NewDebitCardServiceError(OpListCardTransactions, "failed to list transactions", err)
		recordOutcome(OpListCardTransactions, err)
		return nil, err
	}

	recordOutcome(OpListCardTransactions, nil)
	return txns, nil
}

// ownedCard loads a card with get and verifies userID owns it.
func (s *debitCardServiceImpl) ownedCard(
	ctx context.Context,
	get func(context.Context, uuid.UUID) (*domain.DebitCard, error),
	operation string,
	userID, cardID uuid.UUID,
) (*domain.DebitCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := get(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("debit card not found", slog.String("card_id", cardID.String()))
			return nil, NewDebitCardServiceError(operation, "card not found", store.ErrDebitCardNotFound)
		}
		log.Error("failed to retrieve debit card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewDebitCardServiceError(operation, "failed to retrieve card", err)
	}

	if !card.IsOwnedBy(userID) {
		log.Warn("debit card accessed by non-owner",
			slog.String("card_id", cardID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewDebitCardServiceError(operation, "card not owned by user", ErrNotOwned)
	}

	return card, nil
}

func recordOutcome(operation string, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		outcome = metrics.OutcomeInvalid
	case errors.Is(err, store.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case errors.Is(err, ErrNotOwned):
		outcome = metrics.OutcomeForbidden
	case errors.Is(err, ErrCardHasTransactions):
		outcome = metrics.OutcomeConflict
	default:
		outcome = metrics.OutcomeError
	}
	metrics.RecordCardOperation(operation, outcome)
}
