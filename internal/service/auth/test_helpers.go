package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/config"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret is a 32+ character secret for tests.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestJWTSecret,
		TokenLifetimeMinutes: 60,
		BCryptCost:           4,
	}
}

// RequireTestJWTService creates a JWT service with DefaultJWTConfig and
// fails the test if that is not possible.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}

// GenerateAuthHeaderForTestingT returns a "Bearer <token>" header value for
// userID signed with DefaultJWTConfig.
func GenerateAuthHeaderForTestingT(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, _, err := RequireTestJWTService(t).GenerateToken(context.Background(), userID)
	require.NoError(t, err, "Failed to generate auth token")
	return "Bearer " + token
}

// GenerateExpiredAuthHeaderForTestingT returns a header carrying a token that
// expired an hour ago.
func GenerateExpiredAuthHeaderForTestingT(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	cfg := DefaultJWTConfig()
	past := time.Now().Add(-time.Duration(cfg.TokenLifetimeMinutes)*time.Minute - time.Hour)
	svc, err := NewJWTServiceWithClock(cfg, func() time.Time { return past })
	require.NoError(t, err)

	token, _, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	return "Bearer " + token
}
