package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/mocks"
	"github.com/phrazzld/debitcard-api/internal/service"
	"github.com/phrazzld/debitcard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()

	t.Run("creates inside a transaction", func(t *testing.T) {
		t.Parallel()
		db, sqlMock := newSQLMock(t)
		userStore := new(mocks.TestifyMockUserStore)
		svc := service.NewUserService(userStore, db, nil)

		sqlMock.ExpectBegin()
		userStore.On("WithTx", mock.Anything).Return(userStore)
		userStore.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "new@example.com"
		})).Return(nil)
		sqlMock.ExpectCommit()

		user, err := svc.CreateUser(context.Background(), " New@Example.com ", "correct-horse-battery")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		userStore.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back", func(t *testing.T) {
		t.Parallel()
		db, sqlMock := newSQLMock(t)
		userStore := new(mocks.TestifyMockUserStore)
		svc := service.NewUserService(userStore, db, nil)

		sqlMock.ExpectBegin()
		userStore.On("WithTx", mock.Anything).Return(userStore)
		userStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)
		sqlMock.ExpectRollback()

		_, err := svc.CreateUser(context.Background(), "taken@example.com", "correct-horse-battery")
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid password never reaches the store", func(t *testing.T) {
		t.Parallel()
		db, sqlMock := newSQLMock(t)
		userStore := new(mocks.TestifyMockUserStore)
		svc := service.NewUserService(userStore, db, nil)

		_, err := svc.CreateUser(context.Background(), "short@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestUserService_GetUser(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	svc := service.NewUserService(userStore, nil, nil)

	known := &domain.User{ID: uuid.New(), Email: "known@example.com", HashedPassword: "hash"}
	userStore.Users[known.Email] = known

	got, err := svc.GetUser(context.Background(), known.ID)
	require.NoError(t, err)
	assert.Equal(t, known, got)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserService_GetUserByEmail(t *testing.T) {
	t.Parallel()

	t.Run("lookup ignores case", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		svc := service.NewUserService(userStore, nil, nil)

		known := &domain.User{ID: uuid.New(), Email: "known@example.com", HashedPassword: "hash"}
		userStore.Users[known.Email] = known

		got, err := svc.GetUserByEmail(context.Background(), "Known@Example.com")
		require.NoError(t, err)
		assert.Equal(t, known.ID, got.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc := service.NewUserService(mocks.NewMockUserStore(), nil, nil)

		_, err := svc.GetUserByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		userStore := mocks.NewMockUserStore()
		dbErr := errors.New("connection reset")
		userStore.GetByEmailError = dbErr
		svc := service.NewUserService(userStore, nil, nil)

		_, err := svc.GetUserByEmail(context.Background(), "broken@example.com")
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUserService_CreateThenLookup(t *testing.T) {
	t.Parallel()

	db, sqlMock := newSQLMock(t)
	userStore := mocks.NewMockUserStore()
	svc := service.NewUserService(userStore, db, nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	created, err := svc.CreateUser(context.Background(), "owner@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, userStore.LastUserID)

	byEmail, err := svc.GetUserByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", byID.Email)

	_, err = svc.CreateUser(context.Background(), "OWNER@example.com", "another-long-password")
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
