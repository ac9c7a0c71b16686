package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusgate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Create_Success(t *testing.T) {
	svc := &MockUserService{
		CreateUserFunc: func(ctx context.Context, username, password, fullName, role string) (*models.User, error) {
			assert.Equal(t, models.RoleProfessor, role)
			return &models.User{
				ID:        "user123",
				Username:  username,
				FullName:  fullName,
				Role:      role,
				IsActive:  true,
				CreatedAt: time.Now(),
			}, nil
		},
	}
	handler := NewUserHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/users", CreateUserRequest{
		Username: "jsmith",
		Password: "SecurePassword123",
		FullName: "Jane Smith",
		Role:     "professor",
	})
	w := httptest.NewRecorder()
	handler.Create(w, req)

	var resp UserResponse
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "user123", resp.ID)
	assert.Equal(t, "jsmith", resp.Username)
	assert.Equal(t, models.RoleProfessor, resp.Role)
}

func TestUserHandler_Create_UnknownRole(t *testing.T) {
	handler := NewUserHandler(&MockUserService{})

	req := NewTestRequest(t, http.MethodPost, "/users", CreateUserRequest{
		Username: "jsmith",
		Password: "SecurePassword123",
		FullName: "Jane Smith",
		Role:     "dean",
	})
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Create_Duplicate(t *testing.T) {
	svc := &MockUserService{
		CreateUserFunc: func(ctx context.Context, username, password, fullName, role string) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}
	handler := NewUserHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/users", CreateUserRequest{
		Username: "jsmith",
		Password: "SecurePassword123",
		FullName: "Jane Smith",
		Role:     "student",
	})
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	handler := NewUserHandler(&MockUserService{})

	req := NewTestRequest(t, http.MethodGet, "/users/missing", nil)
	req = WithURLParam(req, "id", "missing")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_List_Pagination(t *testing.T) {
	svc := &MockUserService{
		ListUsersFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 10, limit)
			assert.Equal(t, 20, offset)
			return []*models.User{{ID: "u1", Username: "a", Role: models.RoleStudent, IsActive: true}}, nil
		},
	}
	handler := NewUserHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/users?limit=10&offset=20", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	var resp UserListResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp.Users, 1)
}

func TestUserHandler_List_ClampsLimit(t *testing.T) {
	svc := &MockUserService{
		ListUsersFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 200, limit)
			return nil, nil
		},
	}
	handler := NewUserHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/users?limit=9999", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
