package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDebitCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	expiresAt := time.Now().Add(365 * 24 * time.Hour)

	card, err := NewDebitCard(userID, "  Visa ", "4111111111111111", expiresAt)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, card.ID)
	assert.Equal(t, userID, card.UserID)
	assert.Equal(t, "Visa", card.Type, "type should be trimmed")
	assert.Equal(t, "4111111111111111", card.Number)
	assert.Nil(t, card.DisabledAt, "new cards start active")
	assert.False(t, card.CreatedAt.IsZero())
	assert.True(t, card.IsActive(time.Now()))
}

func TestNewDebitCard_Invalid(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		userID      uuid.UUID
		cardType    string
		number      string
		expiresAt   time.Time
		expectedErr error
	}{
		{"missing owner", uuid.Nil, "Visa", "4111111111111111", expiresAt, ErrDebitCardUserIDEmpty},
		{"blank type", userID, "   ", "4111111111111111", expiresAt, ErrDebitCardTypeEmpty},
		{"long type", userID, strings.Repeat("x", MaxDebitCardTypeLength+1), "4111111111111111", expiresAt, ErrDebitCardTypeTooLong},
		{"missing number", userID, "Visa", "", expiresAt, ErrDebitCardNumberEmpty},
		{"missing expiration", userID, "Visa", "4111111111111111", time.Time{}, ErrDebitCardExpirationEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			card, err := NewDebitCard(tc.userID, tc.cardType, tc.number, tc.expiresAt)
			assert.Nil(t, card)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestValidateDebitCardType(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateDebitCardType("Mastercard"))

	err := ValidateDebitCardType("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "type", validationErr.Field)
}

func TestValidateDebitCardType_CountsCharacters(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateDebitCardType(strings.Repeat("é", MaxDebitCardTypeLength)))
	assert.NoError(t, ValidateDebitCardType("Visa Électron"))

	err := ValidateDebitCardType(strings.Repeat("é", MaxDebitCardTypeLength+1))
	assert.ErrorIs(t, err, ErrDebitCardTypeTooLong)
}

func TestDebitCard_IsActive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	disabledAt := now.Add(-time.Hour)

	tests := []struct {
		name     string
		card     DebitCard
		expected bool
	}{
		{
			name:     "enabled and not expired",
			card:     DebitCard{ExpirationDate: now.AddDate(1, 0, 0)},
			expected: true,
		},
		{
			name:     "disabled",
			card:     DebitCard{ExpirationDate: now.AddDate(1, 0, 0), DisabledAt: &disabledAt},
			expected: false,
		},
		{
			name:     "expired",
			card:     DebitCard{ExpirationDate: now.Add(-time.Second)},
			expected: false,
		},
		{
			name:     "expires exactly now",
			card:     DebitCard{ExpirationDate: now},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.card.IsActive(now))
		})
	}
}

func TestDebitCard_SetActive(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	card := &DebitCard{ExpirationDate: now.AddDate(2, 0, 0)}

	card.SetActive(false, now)
	require.NotNil(t, card.DisabledAt)
	assert.True(t, card.DisabledAt.Equal(now))
	assert.False(t, card.IsActive(now))

	card.SetActive(true, now)
	assert.Nil(t, card.DisabledAt)
	assert.True(t, card.IsActive(now))

	// activating twice leaves the card in the same state
	card.SetActive(true, now.Add(time.Minute))
	assert.Nil(t, card.DisabledAt)
	assert.True(t, card.IsActive(now))
}

func TestDebitCard_IsOwnedBy(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	card := &DebitCard{UserID: owner}

	assert.True(t, card.IsOwnedBy(owner))
	assert.False(t, card.IsOwnedBy(uuid.New()))
	assert.False(t, card.IsOwnedBy(uuid.Nil))
}

func TestMaskCardNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "**** **** **** 1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "1234", MaskCardNumber("1234"))
	assert.Equal(t, "", MaskCardNumber(""))
	assert.Equal(t, "**** **** **** 4567", MaskCardNumber("1234567891234567"))
	assert.Equal(t, "* **** **** 4567", MaskCardNumber("0000000004567"))
	assert.Equal(t, "*** **** **** **** 6789", MaskCardNumber("1234567890123456789"))
	assert.Equal(t, "* 2345", MaskCardNumber("12345"))

	card := &DebitCard{Number: "5500000000000004"}
	assert.Equal(t, "**** **** **** 0004", card.MaskedNumber())
}
