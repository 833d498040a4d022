package emergency

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("location share not found")
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
	ErrPermissionDenied = errors.New("permission denied")
)

// LocationShare is a point a user broadcast during an emergency so that
// responders can find them.
type LocationShare struct {
	ID        string
	UserID    string
	UserName  string
	Latitude  float64
	Longitude float64
	Address   string
	Note      string
	CreatedAt time.Time
}

type Filter struct {
	UserID   string
	Since    time.Time
	Page     int
	PageSize int
}
