package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
)

// MockDebitCardService implements service.DebitCardService for testing
type MockDebitCardService struct {
	// Custom behavior functions
	ListCardsFn            func(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error)
	CreateCardFn           func(ctx context.Context, userID uuid.UUID, cardType string) (*domain.DebitCard, error)
	GetCardFn              func(ctx context.Context, userID, cardID uuid.UUID) (*domain.DebitCard, error)
	SetCardActiveFn        func(ctx context.Context, userID, cardID uuid.UUID, active bool) (*domain.DebitCard, error)
	DeleteCardFn           func(ctx context.Context, userID, cardID uuid.UUID) error
	ListCardTransactionsFn func(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.DebitCardTransaction, error)

	// Default return values
	Card         *domain.DebitCard
	Cards        []*domain.DebitCard
	Transactions []*domain.DebitCardTransaction
	DefaultError error
}

// ListCards implements the DebitCardService.ListCards method
func (m *MockDebitCardService) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.DebitCard, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, userID)
	}
	return m.Cards, m.DefaultError
}

// CreateCard implements the DebitCardService.CreateCard method
func (m *MockDebitCardService) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	cardType string,
) (*domain.DebitCard, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, userID, cardType)
	}
	return m.Card, m.DefaultError
}

// GetCard implements the DebitCardService.GetCard method
func (m *MockDebitCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.DebitCard, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, userID, cardID)
	}
	return m.Card, m.DefaultError
}

// SetCardActive implements the DebitCardService.SetCardActive method
func (m *MockDebitCardService) SetCardActive(
	ctx context.Context,
	userID, cardID uuid.UUID,
	active bool,
) (*domain.DebitCard, error) {
	if m.SetCardActiveFn != nil {
		return m.SetCardActiveFn(ctx, userID, cardID, active)
	}
	return m.Card, m.DefaultError
}

// DeleteCard implements the DebitCardService.DeleteCard method
func (m *MockDebitCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, userID, cardID)
	}
	return m.DefaultError
}

// ListCardTransactions implements the DebitCardService.ListCardTransactions method
func (m *MockDebitCardService) ListCardTransactions(
	ctx context.Context,
	userID, cardID uuid.UUID,
) ([]*domain.DebitCardTransaction, error) {
	if m.ListCardTransactionsFn != nil {
		return m.ListCardTransactionsFn(ctx, userID, cardID)
	}
	return m.Transactions, m.DefaultError
}
