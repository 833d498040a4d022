package http

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/feed"
	"github.com/varun4522/calm-campus-backend/internal/pkg/request"
)

type CreatePostBody struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

type UpdatePostBody struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// ListPostsRequest defines query parameters for browsing the feed.
type ListPostsRequest struct {
	request.ListParams
	AuthorID string `form:"author_id" binding:"omitempty,uuid"`
	Keyword  string `form:"keyword"`
}

type PostResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewPostResponse(p *feed.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		AuthorRole: p.AuthorRole,
		Title:      p.Title,
		Body:       p.Body,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
