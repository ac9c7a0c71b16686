package services

import (
	"context"
	"fmt"
	"log/slog"

	"campusgate/internal/models"
	pkgauth "campusgate/pkg/auth"
)

// UserService handles account administration. All operations here are
// admin-only; authorization happens in the route layer.
type UserService struct {
	userRepo UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// CreateUser provisions an account with a given role. The password is
// policy-checked and bcrypt-hashed before it ever reaches the store.
func (s *UserService) CreateUser(ctx context.Context, username, password, fullName, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrBadRequest, role)
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBadRequest, err)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role))

	return user, nil
}

// GetUser fetches one account by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

// ListUsers returns a page of accounts.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
