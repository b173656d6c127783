package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxDebitCardTypeLength bounds the network type column.
const MaxDebitCardTypeLength = 50

// Debit card validation errors
var (
	// ErrDebitCardIDEmpty is returned when a card ID is nil.
	ErrDebitCardIDEmpty = errors.New("debit card ID cannot be empty")

	// ErrDebitCardUserIDEmpty is returned when a card has no owner.
	ErrDebitCardUserIDEmpty = errors.New("debit card user ID cannot be empty")

	// ErrDebitCardTypeEmpty is returned when the network type is blank.
	ErrDebitCardTypeEmpty = errors.New("debit card type cannot be empty")

	// ErrDebitCardTypeTooLong is returned when the network type exceeds MaxDebitCardTypeLength.
	ErrDebitCardTypeTooLong = errors.New("debit card type is too long")

	// ErrDebitCardNumberEmpty is returned when no card number was generated.
	ErrDebitCardNumberEmpty = errors.New("debit card number cannot be empty")

	// ErrDebitCardExpirationEmpty is returned when the expiration date is zero.
	ErrDebitCardExpirationEmpty = errors.New("debit card expiration date cannot be empty")
)

// DebitCard is a payment card owned by exactly one user.
//
// A card is active while DisabledAt is nil and the expiration date has not
// passed. The active flag is always derived from those two fields.
type DebitCard struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Number         string     `json:"-"`
	Type           string     `json:"type"`
	ExpirationDate time.Time  `json:"expiration_date"`
	DisabledAt     *time.Time `json:"disabled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewDebitCard creates an active card for userID with an issued number and expiration.
// cardType is trimmed before validation.
func NewDebitCard(
	userID uuid.UUID,
	cardType string,
	number string,
	expirationDate time.Time,
) (*DebitCard, error) {
	now := time.Now().UTC()
	card := &DebitCard{
		ID:             uuid.New(),
		UserID:         userID,
		Number:         number,
		Type:           strings.TrimSpace(cardType),
		ExpirationDate: expirationDate.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the DebitCard has valid data.
func (c *DebitCard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrDebitCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrDebitCardUserIDEmpty
	}

	if err := ValidateDebitCardType(c.Type); err != nil {
		return err
	}

	if c.Number == "" {
		return ErrDebitCardNumberEmpty
	}

	if c.ExpirationDate.IsZero() {
		return ErrDebitCardExpirationEmpty
	}

	return nil
}

// ValidateDebitCardType checks a requested network type.
// The returned error is a *ValidationError for the "type" field.
func ValidateDebitCardType(cardType string) error {
	trimmed := strings.TrimSpace(cardType)
	if trimmed == "" {
		return NewValidationError("type", "is required", ErrDebitCardTypeEmpty)
	}
	if utf8.RuneCountInString(trimmed) > MaxDebitCardTypeLength {
		return NewValidationError("type", "is too long", ErrDebitCardTypeTooLong)
	}
	return nil
}

// IsActive reports whether the card can be used at the given instant.
func (c *DebitCard) IsActive(now time.Time) bool {
	return c.DisabledAt == nil && now.Before(c.ExpirationDate)
}

// IsOwnedBy reports whether userID owns the card.
func (c *DebitCard) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && c.UserID == userID
}

// Activate clears the deactivation timestamp. Calling it on an active card is a no-op
// apart from the UpdatedAt bump.
func (c *DebitCard) Activate(now time.Time) {
	c.DisabledAt = nil
	c.UpdatedAt = now.UTC()
}

// Deactivate marks the card as disabled at now.
func (c *DebitCard) Deactivate(now time.Time) {
	disabledAt := now.UTC()
	c.DisabledAt = &disabledAt
	c.UpdatedAt = disabledAt
}

// SetActive applies Activate or Deactivate.
func (c *DebitCard) SetActive(active bool, now time.Time) {
	if active {
		c.Activate(now)
		return
	}
	c.Deactivate(now)
}

// MaskedNumber returns the number with all but the last four digits hidden,
// grouped in blocks of four.
func (c *DebitCard) MaskedNumber() string {
	return MaskCardNumber(c.Number)
}

// MaskCardNumber hides all but the last four digits of number, grouping
// from the right so the visible digits always form the final block.
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}

	masked := strings.Repeat("*", len(number)-4) + number[len(number)-4:]

	var b strings.Builder
	for i, r := range masked {
		if i > 0 && (len(masked)-i)%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
