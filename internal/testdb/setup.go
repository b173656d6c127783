package testdb

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/debitcard-api/internal/platform/postgres"
	"github.com/phrazzld/debitcard-api/internal/store"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection and migration setup.
const TestTimeout = 30 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestDBWithT returns a migrated database connection for testing.
// It skips the test if no database URL is configured and closes the
// connection when the test finishes.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("%s or %s not set - skipping integration test", EnvTestDatabaseURL, EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed for %s", maskDatabaseURL(dbURL))

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, postgres.MigrateUp, nil)
	})
	require.NoError(t, migrateErr, "Failed to apply migrations")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	return db
}

// MustInsertUser inserts a user row directly and returns its ID.
// The password hash is a fixed placeholder; use the user store when a
// verifiable password is needed.
func MustInsertUser(ctx context.Context, t *testing.T, db store.DBTX, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, email, placeholderHash, now, now)
	require.NoError(t, err, "Failed to insert test user %s", email)

	return id
}

// placeholderHash is a syntactically valid bcrypt hash that matches no password.
const placeholderHash = "$2a$04$AAAAAAAAAAAAAAAAAAAAAOV9b5.EWrOYGDNQ7Ye5P7hB8RL6lqNbK"
