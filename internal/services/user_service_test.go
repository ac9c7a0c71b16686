package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"campusgate/internal/models"
	pkgauth "campusgate/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser_Success(t *testing.T) {
	userRepo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user123"
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return user, nil
		},
	}

	svc := NewUserService(userRepo, slog.Default())

	user, err := svc.CreateUser(context.Background(), "jsmith", "SecurePassword123", "Jane Smith", models.RoleProfessor)

	require.NoError(t, err)
	assert.Equal(t, "user123", user.ID)
	assert.Equal(t, models.RoleProfessor, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "SecurePassword123", user.PasswordHash)
	assert.NoError(t, pkgauth.ComparePassword(user.PasswordHash, "SecurePassword123"))
}

func TestUserService_CreateUser_InvalidRole(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, slog.Default())

	user, err := svc.CreateUser(context.Background(), "jsmith", "SecurePassword123", "Jane Smith", "dean")

	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Nil(t, user)
}

func TestUserService_CreateUser_WeakPassword(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, slog.Default())

	user, err := svc.CreateUser(context.Background(), "jsmith", "short", "Jane Smith", models.RoleStudent)

	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Nil(t, user)
}

func TestUserService_CreateUser_DuplicateUsername(t *testing.T) {
	userRepo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	svc := NewUserService(userRepo, slog.Default())

	user, err := svc.CreateUser(context.Background(), "jsmith", "SecurePassword123", "Jane Smith", models.RoleStudent)

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Nil(t, user)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, slog.Default())

	user, err := svc.GetUser(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, user)
}

func TestUserService_ListUsers(t *testing.T) {
	userRepo := &MockUserRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 50, limit)
			assert.Equal(t, 0, offset)
			return []*models.User{NewTestUser("u1", "a", models.RoleStudent)}, nil
		},
	}

	svc := NewUserService(userRepo, slog.Default())

	users, err := svc.ListUsers(context.Background(), 50, 0)

	require.NoError(t, err)
	assert.Len(t, users, 1)
}
