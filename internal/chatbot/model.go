package chatbot

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("canned response not found")
	ErrQuestionRequired = errors.New("question is required")
	ErrAnswerRequired   = errors.New("answer is required")
	ErrDisabled         = errors.New("assistant is disabled")
)

// AnswerSource records where a reply came from.
type AnswerSource string

const (
	SourceCanned AnswerSource = "canned"
	SourceModel  AnswerSource = "model"
	SourceNone   AnswerSource = "none"
)

// CannedResponse is an admin-curated question/answer pair. Keywords are
// matched against incoming questions before any model call is made.
type CannedResponse struct {
	ID        string
	Question  string
	Answer    string
	Keywords  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settings is the single row configuring the assistant's persona.
type Settings struct {
	Name          string
	Personality   string
	ResponseStyle string
	Enabled       bool
	UpdatedAt     time.Time
}

func DefaultSettings() *Settings {
	return &Settings{
		Name:          "Campus Assistant",
		Personality:   "warm and supportive",
		ResponseStyle: "concise",
		Enabled:       true,
	}
}

// HistoryEntry is one question/answer exchange kept for review.
type HistoryEntry struct {
	ID        string
	UserID    string
	Question  string
	Answer    string
	Source    AnswerSource
	CreatedAt time.Time
}
