package handlers

import (
	"context"
	"net/http"
	"time"

	"campusgate/internal/models"
	pkghttp "campusgate/pkg/http"
)

// SecurityEventListerInterface exposes the audit trail read path.
type SecurityEventListerInterface interface {
	ListSecurityEvents(ctx context.Context, limit, offset int) ([]*models.SecurityEvent, error)
}

// SecurityEventHandler serves the administrator-only audit trail.
type SecurityEventHandler struct {
	service SecurityEventListerInterface
}

func NewSecurityEventHandler(service SecurityEventListerInterface) *SecurityEventHandler {
	return &SecurityEventHandler{service: service}
}

type SecurityEventResponse struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"user_id,omitempty"`
	EventType   string    `json:"event_type"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

type SecurityEventListResponse struct {
	Events []SecurityEventResponse `json:"events"`
}

// List handles GET /security/events, newest first.
func (h *SecurityEventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 100, 500)

	events, err := h.service.ListSecurityEvents(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	resp := SecurityEventListResponse{Events: make([]SecurityEventResponse, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, SecurityEventResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			EventType:   e.EventType,
			IPAddress:   e.IPAddress,
			UserAgent:   e.UserAgent,
			Description: e.Description,
			Severity:    e.Severity,
			CreatedAt:   e.CreatedAt,
		})
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
