package http

import (
	"github.com/varun4522/calm-campus-backend/internal/availability"
)

// PublishSlotsBody is the payload for POST /v1/availability.
// Omitting slots publishes the default daily grid.
type PublishSlotsBody struct {
	Date  string      `json:"date" binding:"required"`
	Slots []SlotInput `json:"slots" binding:"omitempty,dive"`
}

type SlotInput struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// MonthScheduleRequest defines query parameters for the calendar view.
type MonthScheduleRequest struct {
	ProviderID string `form:"provider_id" binding:"required,uuid"`
	Date       string `form:"date" binding:"required"`
}

// SetAvailabilityBody toggles a slot open or closed.
type SetAvailabilityBody struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type SlotResponse struct {
	ID           string `json:"id"`
	ProviderID   string `json:"provider_id"`
	ProviderType string `json:"provider_type"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	IsAvailable  bool   `json:"is_available"`
	IsOpen       bool   `json:"is_open"`
	BookedByID   string `json:"booked_by_id,omitempty"`
	BookedByName string `json:"booked_by_name,omitempty"`
}

func NewSlotResponse(s *availability.Slot) SlotResponse {
	return SlotResponse{
		ID:           s.ID,
		ProviderID:   s.ProviderID,
		ProviderType: s.ProviderType,
		Date:         s.Date,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		IsAvailable:  s.IsAvailable,
		IsOpen:       s.IsOpen(),
		BookedByID:   s.BookedByID,
		BookedByName: s.BookedByName,
	}
}

// MonthScheduleResponse maps each date of the month to its slots.
type MonthScheduleResponse struct {
	ProviderID string                    `json:"provider_id"`
	Days       map[string][]SlotResponse `json:"days"`
}
