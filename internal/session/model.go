package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/varun4522/calm-campus-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "session request not found")
	ErrRequesterMissing = apperror.New(http.StatusBadRequest, "requester is required")
	ErrProviderMissing  = apperror.New(http.StatusBadRequest, "provider is required")
	ErrProviderNotFound = apperror.New(http.StatusNotFound, "provider not found")
	ErrInvalidDate      = apperror.New(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
	ErrInvalidTime      = apperror.New(http.StatusBadRequest, "time must be in HH:MM format")
	ErrSessionInPast    = apperror.New(http.StatusBadRequest, "cannot book a session in the past")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid session status")
	ErrInvalidMode      = apperror.New(http.StatusBadRequest, "booking mode must be online or offline")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")

	// ErrActiveSessionExists and ErrSlotTaken are the two conflict
	// outcomes. Call sites wrap them with a detailed message via
	// conflictError / slotTakenError so the alert can name the colliding
	// provider, date, time and status.
	ErrActiveSessionExists = apperror.New(http.StatusConflict, "you already have an active session")
	ErrSlotTaken           = apperror.New(http.StatusConflict, "time slot already booked")

	// ErrConflictCheckUnavailable blocks booking when the pre-flight
	// conflict query fails: an unknown conflict state never proceeds to
	// insert.
	ErrConflictCheckUnavailable = apperror.New(http.StatusServiceUnavailable, "could not verify existing sessions, please try again")

	ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid status transition")
)

// Status is the lifecycle state of a session request.
// "approved" is accepted as an input alias for confirmed; it never appears
// in storage or responses.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// ActiveStatuses are the statuses that hold a requester's one-active-session
// budget and occupy a provider slot.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

// ParseStatus validates a raw status string, normalizing the "approved"
// alias used by some client screens.
func ParseStatus(s string) (Status, error) {
	if s == "approved" {
		return StatusConfirmed, nil
	}
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// IsActive reports whether the status blocks new bookings.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo encodes the status state machine. There is no path back
// from rejected or completed; re-requesting means creating a new row.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected
	case StatusConfirmed:
		return next == StatusCompleted
	}
	return false
}

// Mode is how the session is held.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// SessionRequest is a student's booking of an expert or peer listener.
type SessionRequest struct {
	ID                    string
	RequesterID           string
	RequesterName         string
	RequesterRegistration string
	ProviderID            string
	ProviderName          string
	ProviderRegistration  string
	ProviderType          string // expert or peer
	Date                  string // YYYY-MM-DD
	Time                  string // HH:MM
	Mode                  Mode
	Status                Status
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Filter defines parameters for listing session requests.
type Filter struct {
	RequesterID string
	ProviderID  string
	Statuses    []string
	DateFrom    string
	DateTo      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

// conflictError wraps ErrActiveSessionExists with the details of the
// colliding booking so the client can render a specific alert.
func conflictError(existing *SessionRequest) error {
	msg := fmt.Sprintf(
		"you already have an active session with %s on %s at %s (%s); complete or cancel it before booking another",
		existing.ProviderName, existing.Date, existing.Time, existing.Status,
	)
	return apperror.Wrap(ErrActiveSessionExists, http.StatusConflict, msg)
}

// slotTakenError wraps ErrSlotTaken with the occupied slot details.
func slotTakenError(providerName, date, slotTime string) error {
	msg := fmt.Sprintf("%s is already booked on %s at %s", providerName, date, slotTime)
	return apperror.Wrap(ErrSlotTaken, http.StatusConflict, msg)
}
