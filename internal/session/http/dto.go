package http

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/pkg/request"
	"github.com/varun4522/calm-campus-backend/internal/session"
)

// CreateSessionBody is the payload for POST /v1/sessions.
type CreateSessionBody struct {
	ProviderID string `json:"provider_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Mode       string `json:"mode" binding:"omitempty,oneof=online offline"`
	Notes      string `json:"notes"`
}

// UpdateSessionStatusBody is the payload for PATCH /v1/sessions/:id/status.
// "approved" is accepted as an alias for "confirmed".
type UpdateSessionStatusBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed approved rejected completed"`
}

// ListSessionsRequest defines query parameters for listing session requests.
type ListSessionsRequest struct {
	request.ListParams
	ProviderID string   `form:"provider_id" binding:"omitempty,uuid"`
	UserID     string   `form:"user_id" binding:"omitempty,uuid"`
	Status     []string `form:"status" binding:"omitempty,dive,oneof=pending confirmed approved rejected completed"`
	Active     bool     `form:"active"`
	DateFrom   string   `form:"date_from"`
	DateTo     string   `form:"date_to"`
	SortBy     string   `form:"sort_by" binding:"omitempty,oneof=session_date session_time created_at status"`
	SortOrder  string   `form:"sort_order" binding:"omitempty,oneof=ASC DESC asc desc"`
}

type SessionResponse struct {
	ID                    string    `json:"id"`
	RequesterID           string    `json:"requester_id"`
	RequesterName         string    `json:"requester_name"`
	RequesterRegistration string    `json:"requester_registration"`
	ProviderID            string    `json:"provider_id"`
	ProviderName          string    `json:"provider_name"`
	ProviderRegistration  string    `json:"provider_registration"`
	ProviderType          string    `json:"provider_type"`
	Date                  string    `json:"date"`
	Time                  string    `json:"time"`
	Mode                  string    `json:"mode"`
	Status                string    `json:"status"`
	Notes                 string    `json:"notes,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func NewSessionResponse(s *session.SessionRequest) SessionResponse {
	return SessionResponse{
		ID:                    s.ID,
		RequesterID:           s.RequesterID,
		RequesterName:         s.RequesterName,
		RequesterRegistration: s.RequesterRegistration,
		ProviderID:            s.ProviderID,
		ProviderName:          s.ProviderName,
		ProviderRegistration:  s.ProviderRegistration,
		ProviderType:          s.ProviderType,
		Date:                  s.Date,
		Time:                  s.Time,
		Mode:                  string(s.Mode),
		Status:                string(s.Status),
		Notes:                 s.Notes,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}
