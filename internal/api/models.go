package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// Token is the bearer token for subsequent requests.
	Token string `json:"token"`

	// ExpiresAt is the RFC 3339 expiry of Token.
	ExpiresAt string `json:"expires_at"`
}

// CreateDebitCardRequest defines the payload for issuing a card.
type CreateDebitCardRequest struct {
	Type string `json:"type" validate:"required,max=50"`
}

// UpdateDebitCardRequest defines the payload for activating or deactivating a card.
// IsActive is a pointer so that an absent field is distinguishable from false.
type UpdateDebitCardRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// DebitCardResponse is the public representation of a card.
// Number is always masked.
type DebitCardResponse struct {
	ID             uuid.UUID `json:"id"`
	Number         string    `json:"number"`
	Type           string    `json:"type"`
	ExpirationDate string    `json:"expiration_date"`
	IsActive       bool      `json:"is_active"`
}

// DebitCardTransactionResponse is the public representation of a transaction.
type DebitCardTransactionResponse struct {
	ID           uuid.UUID `json:"id"`
	DebitCardID  uuid.UUID `json:"debit_card_id"`
	Amount       int64     `json:"amount"`
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    string    `json:"created_at"`
}

func debitCardToResponse(card *domain.DebitCard, now time.Time) DebitCardResponse {
	return DebitCardResponse{
		ID:             card.ID,
		Number:         card.MaskedNumber(),
		Type:           card.Type,
		ExpirationDate: card.ExpirationDate.UTC().Format(time.RFC3339),
		IsActive:       card.IsActive(now),
	}
}

func debitCardsToResponse(cards []*domain.DebitCard, now time.Time) []DebitCardResponse {
	resp := make([]DebitCardResponse, 0, len(cards))
	for _, card := range cards {
		resp = append(resp, debitCardToResponse(card, now))
	}
	return resp
}

func transactionsToResponse(txns []*domain.DebitCardTransaction) []DebitCardTransactionResponse {
	resp := make([]DebitCardTransactionResponse, 0, len(txns))
	for _, txn := range txns {
		resp = append(resp, DebitCardTransactionResponse{
			ID:           txn.ID,
			DebitCardID:  txn.DebitCardID,
			Amount:       txn.Amount,
			CurrencyCode: txn.CurrencyCode,
			CreatedAt:    txn.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
