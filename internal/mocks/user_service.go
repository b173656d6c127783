package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/domain"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	CreateUserFn     func(ctx context.Context, email, password string) (*domain.User, error)

	User         *domain.User
	DefaultError error
}

// GetUser implements the UserService.GetUser method
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return m.User, m.DefaultError
}

// GetUserByEmail implements the UserService.GetUserByEmail method
func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return m.User, m.DefaultError
}

// CreateUser implements the UserService.CreateUser method
func (m *MockUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, email, password)
	}
	return m.User, m.DefaultError
}
