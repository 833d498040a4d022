package notification

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("notification not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrMessageRequired  = errors.New("message is required")
	ErrInvalidAudience  = errors.New("invalid audience")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrPermissionDenied = errors.New("permission denied")
)

// Audience selects which user roles a notification is delivered to.
type Audience string

const (
	AudienceStudents Audience = "students"
	AudienceExperts  Audience = "experts"
	AudiencePeers    Audience = "peers"
	AudienceAdmin    Audience = "admin"
	AudienceAll      Audience = "all"
)

func ParseAudience(s string) (Audience, error) {
	switch Audience(s) {
	case AudienceStudents, AudienceExperts, AudiencePeers, AudienceAdmin, AudienceAll:
		return Audience(s), nil
	}
	return "", ErrInvalidAudience
}

// AudienceForRole maps a user role to the audience bucket that targets it.
func AudienceForRole(role string) Audience {
	switch role {
	case "student":
		return AudienceStudents
	case "expert":
		return AudienceExperts
	case "peer":
		return AudiencePeers
	case "admin":
		return AudienceAdmin
	}
	return AudienceAll
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", ErrInvalidPriority
}

// Notification is a broadcast sent by an expert or admin to an audience.
type Notification struct {
	ID         string
	SenderID   string
	SenderName string
	SenderRole string
	Title      string
	Message    string
	Audience   Audience
	Priority   Priority
	CreatedAt  time.Time
}

type Filter struct {
	Audience Audience
	SenderID string
	Page     int
	PageSize int
}
