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

func TestSecurityEventHandler_List(t *testing.T) {
	userID := "user123"
	svc := &MockSecurityEventLister{
		ListSecurityEventsFunc: func(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error) {
			assert.Equal(t, 100, limit)
			return []*models.SecurityEvent{
				{ID: "e1", UserID: &userID, EventType: models.EventLogin, Severity: models.SeverityLow, CreatedAt: time.Now()},
				{ID: "e2", EventType: models.EventFailedLogin, Severity: models.SeverityMedium, CreatedAt: time.Now().Add(-time.Minute)},
			}, nil
		},
	}
	handler := NewSecurityEventHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/security/events", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	var resp SecurityEventListResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "e1", resp.Events[0].ID)
	require.NotNil(t, resp.Events[0].UserID)
	assert.Equal(t, userID, *resp.Events[0].UserID)
	assert.Nil(t, resp.Events[1].UserID)
}

func TestSecurityEventHandler_List_StorageError(t *testing.T) {
	svc := &MockSecurityEventLister{
		ListSecurityEventsFunc: func(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error) {
			return nil, models.ErrInternalServer
		},
	}
	handler := NewSecurityEventHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/security/events", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
