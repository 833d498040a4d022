package http

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/chatbot"
)

type AskBody struct {
	Question string `json:"question" binding:"required"`
}

type AskResponse struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
}

type CannedBody struct {
	Question string   `json:"question" binding:"required"`
	Answer   string   `json:"answer" binding:"required"`
	Keywords []string `json:"keywords"`
}

type SettingsBody struct {
	Name          *string `json:"name"`
	Personality   *string `json:"personality"`
	ResponseStyle *string `json:"response_style"`
	Enabled       *bool   `json:"enabled"`
}

type CannedResponseDTO struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SettingsResponse struct {
	Name          string    `json:"name"`
	Personality   string    `json:"personality"`
	ResponseStyle string    `json:"response_style"`
	Enabled       bool      `json:"enabled"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HistoryEntryResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCannedResponseDTO(cr *chatbot.CannedResponse) CannedResponseDTO {
	return CannedResponseDTO{
		ID:        cr.ID,
		Question:  cr.Question,
		Answer:    cr.Answer,
		Keywords:  cr.Keywords,
		CreatedAt: cr.CreatedAt,
		UpdatedAt: cr.UpdatedAt,
	}
}

func NewSettingsResponse(s *chatbot.Settings) SettingsResponse {
	return SettingsResponse{
		Name:          s.Name,
		Personality:   s.Personality,
		ResponseStyle: s.ResponseStyle,
		Enabled:       s.Enabled,
		UpdatedAt:     s.UpdatedAt,
	}
}

func NewHistoryEntryResponse(e *chatbot.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:        e.ID,
		Question:  e.Question,
		Answer:    e.Answer,
		Source:    string(e.Source),
		CreatedAt: e.CreatedAt,
	}
}
