package feed

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrBodyRequired     = errors.New("body is required")
	ErrPermissionDenied = errors.New("permission denied")
)

// Post is an entry on the community feed.
type Post struct {
	ID         string
	AuthorID   string
	AuthorName string
	AuthorRole string
	Title      string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter defines parameters for listing posts.
type Filter struct {
	AuthorID string
	Keyword  string
	Page     int
	PageSize int
}
