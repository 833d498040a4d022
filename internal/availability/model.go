package availability

import (
	"net/http"
	"time"

	"github.com/varun4522/calm-campus-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "time slot not found")
	ErrSlotExists       = apperror.New(http.StatusConflict, "a slot already exists at that time")
	ErrInvalidDate      = apperror.New(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
	ErrInvalidTime      = apperror.New(http.StatusBadRequest, "time must be in HH:MM format")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Slot is a bookable appointment window published by an expert or peer
// listener. Booked state is derived from active session requests at read
// time, never stored on the slot itself.
type Slot struct {
	ID           string
	ProviderID   string
	ProviderType string
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	IsAvailable  bool   // provider can close a slot without deleting it
	CreatedAt    time.Time

	// Populated from the active booking occupying this slot, if any.
	BookedByID   string
	BookedByName string
}

// IsOpen reports whether the slot can be offered to a requester.
func (s *Slot) IsOpen() bool {
	return s.IsAvailable && s.BookedByID == ""
}

// DefaultSlots is the standard daily grid offered when a provider has not
// customized their schedule.
var DefaultSlots = []struct {
	Start string
	End   string
}{
	{"09:00", "09:50"},
	{"10:00", "10:50"},
	{"11:00", "11:50"},
	{"12:00", "12:50"},
	{"14:00", "14:50"},
	{"15:00", "15:50"},
}
