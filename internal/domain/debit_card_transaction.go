package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Supported settlement currencies.
const (
	CurrencyIDR = "IDR"
	CurrencySGD = "SGD"
	CurrencyTHB = "THB"
	CurrencyVND = "VND"
)

// Currencies lists every currency a debit card transaction may carry.
var Currencies = []string{CurrencyIDR, CurrencySGD, CurrencyTHB, CurrencyVND}

// Debit card transaction validation errors
var (
	ErrTransactionIDEmpty     = errors.New("transaction ID cannot be empty")
	ErrTransactionCardIDEmpty = errors.New("transaction debit card ID cannot be empty")
	ErrTransactionAmount      = errors.New("transaction amount must be positive")
	ErrTransactionCurrency    = errors.New("transaction currency is not supported")
)

// DebitCardTransaction is a charge recorded against a debit card.
// Amount is expressed in the currency's minor unit.
type DebitCardTransaction struct {
	ID           uuid.UUID `json:"id"`
	DebitCardID  uuid.UUID `json:"debit_card_id"`
	Amount       int64     `json:"amount"`
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDebitCardTransaction creates a transaction for cardID.
func NewDebitCardTransaction(cardID uuid.UUID, amount int64, currencyCode string) (*DebitCardTransaction, error) {
	tx := &DebitCardTransaction{
		ID:           uuid.New(),
		DebitCardID:  cardID,
		Amount:       amount,
		CurrencyCode: currencyCode,
		CreatedAt:    time.Now().UTC(),
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}

// Validate checks if the DebitCardTransaction has valid data.
func (t *DebitCardTransaction) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTransactionIDEmpty
	}

	if t.DebitCardID == uuid.Nil {
		return ErrTransactionCardIDEmpty
	}

	if t.Amount <= 0 {
		return ErrTransactionAmount
	}

	if !isSupportedCurrency(t.CurrencyCode) {
		return ErrTransactionCurrency
	}

	return nil
}

func isSupportedCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}
