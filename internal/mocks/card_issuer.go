package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/debitcard-api/internal/generation"
)

// MockCardIssuer implements generation.CardIssuer for testing
type MockCardIssuer struct {
	// IssueFn allows test cases to mock the Issue behavior
	IssueFn func(ctx context.Context, cardType string) (*generation.IssuedCard, error)

	// Default response values
	Issued *generation.IssuedCard
	Err    error

	// Call tracking for verification
	IssueCalls struct {
		mu sync.Mutex

		// Count tracks how many times Issue was called
		Count int

		// CardTypes contains all card types passed to Issue calls
		CardTypes []string
	}
}

// Issue implements the generation.CardIssuer interface
func (m *MockCardIssuer) Issue(ctx context.Context, cardType string) (*generation.IssuedCard, error) {
	m.IssueCalls.mu.Lock()
	m.IssueCalls.Count++
	m.IssueCalls.CardTypes = append(m.IssueCalls.CardTypes, cardType)
	m.IssueCalls.mu.Unlock()

	if m.IssueFn != nil {
		return m.IssueFn(ctx, cardType)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	if m.Issued == nil {
		return &generation.IssuedCard{
			Number:         "4000000000000002",
			ExpirationDate: time.Now().UTC().AddDate(5, 0, 0),
		}, nil
	}

	issued := *m.Issued
	return &issued, nil
}

// NewMockCardIssuerWithError creates a MockCardIssuer that always fails with err
func NewMockCardIssuerWithError(err error) *MockCardIssuer {
	return &MockCardIssuer{Err: err}
}

// Reset resets the call tracking state
func (m *MockCardIssuer) Reset() {
	m.IssueCalls.mu.Lock()
	defer m.IssueCalls.mu.Unlock()

	m.IssueCalls.Count = 0
	m.IssueCalls.CardTypes = nil
}
