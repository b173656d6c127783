package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("failed to do something: %w", ErrNotFound), true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"ErrDebitCardNotFound", ErrDebitCardNotFound, true},
		{"wrapped ErrDebitCardNotFound", fmt.Errorf("get card: %w", ErrDebitCardNotFound), true},
		{"ErrEmailExists", ErrEmailExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create user: %w", ErrEmailExists)))
	assert.False(t, IsDuplicateError(ErrDebitCardNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("debit_card", "delete", "card is referenced", ErrDeleteFailed)

		assert.Equal(t, "delete operation on debit_card failed: card is referenced: delete failed", err.Error())
		assert.ErrorIs(t, err, ErrDeleteFailed)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "debit_card", storeErr.Entity)
		assert.Equal(t, "delete", storeErr.Operation)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("user", "create", "bad input", nil)

		assert.Equal(t, "create operation on user failed: bad input", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
