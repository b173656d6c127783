package generation_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/debitcard-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLuhnIssuer_InvalidConfig(t *testing.T) {
	t.Parallel()

	for _, years := range []int{0, -1, generation.MaxValidityYears + 1} {
		issuer, err := generation.NewLuhnIssuer(years)
		assert.Nil(t, issuer)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	}
}

func TestLuhnIssuer_Issue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	issuer, err := generation.NewLuhnIssuer(5, generation.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)

	for _, cardType := range []string{"Visa", "Mastercard", "discover", "JCB", "UnionPay", "Local"} {
		t.Run(cardType, func(t *testing.T) {
			issued, err := issuer.Issue(context.Background(), cardType)
			require.NoError(t, err)

			assert.Len(t, issued.Number, generation.NumberLength)
			assert.True(t, strings.HasPrefix(issued.Number, generation.PrefixFor(cardType)))
			assert.True(t, generation.ValidNumber(issued.Number), "number %s should pass Luhn", issued.Number)
			assert.Equal(t, time.Date(2031, 3, 31, 23, 59, 59, 999999999, time.UTC), issued.ExpirationDate)
		})
	}
}

func TestLuhnIssuer_DeterministicRandom(t *testing.T) {
	t.Parallel()

	// Bytes >= 250 are discarded, zeros map to digit 0.
	random := append([]byte{250, 255}, make([]byte, 64)...)
	issuer, err := generation.NewLuhnIssuer(3, generation.WithRandom(bytes.NewReader(random)))
	require.NoError(t, err)

	issued, err := issuer.Issue(context.Background(), "visa")
	require.NoError(t, err)
	assert.Equal(t, "4000000000000002", issued.Number)
}

func TestLuhnIssuer_RandomFailure(t *testing.T) {
	t.Parallel()

	issuer, err := generation.NewLuhnIssuer(3, generation.WithRandom(bytes.NewReader(nil)))
	require.NoError(t, err)

	issued, err := issuer.Issue(context.Background(), "visa")
	assert.Nil(t, issued)
	assert.ErrorIs(t, err, generation.ErrIssueFailed)
}

func TestLuhnIssuer_CanceledContext(t *testing.T) {
	t.Parallel()

	issuer, err := generation.NewLuhnIssuer(3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = issuer.Issue(ctx, "visa")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpirationFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		issued   time.Time
		years    int
		expected time.Time
	}{
		{
			name:     "end of long month",
			issued:   time.Date(2026, 1, 31, 15, 0, 0, 0, time.UTC),
			years:    5,
			expected: time.Date(2031, 1, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:     "leap day",
			issued:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			years:    1,
			expected: time.Date(2025, 2, 28, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:     "december",
			issued:   time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			years:    2,
			expected: time.Date(2028, 12, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:     "non-UTC input",
			issued:   time.Date(2026, 6, 30, 23, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			years:    1,
			expected: time.Date(2027, 7, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, generation.ExpirationFor(tc.issued, tc.years))
		})
	}
}

func TestValidNumber(t *testing.T) {
	t.Parallel()

	assert.True(t, generation.ValidNumber("4111111111111111"))
	assert.True(t, generation.ValidNumber("79927398713"))
	assert.False(t, generation.ValidNumber("4111111111111112"))
	assert.False(t, generation.ValidNumber("4111-1111-1111-1111"))
	assert.False(t, generation.ValidNumber("4"))
}
