package file

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("file not found")
	ErrTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrTypeNotAllowed = errors.New("file type is not allowed")
	ErrNoThumbnail    = errors.New("thumbnail not available for this file")
)

// File is a stored upload: an avatar or a post/message attachment.
type File struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// FileURL returns the public URL for a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for a file's thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
