package http

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/emergency"
	"github.com/varun4522/calm-campus-backend/internal/pkg/request"
)

type ShareLocationBody struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Address   string   `json:"address"`
	Note      string   `json:"note"`
}

type ListSharesRequest struct {
	request.ListParams
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

type LocationShareResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLocationShareResponse(ls *emergency.LocationShare) LocationShareResponse {
	return LocationShareResponse{
		ID:        ls.ID,
		UserID:    ls.UserID,
		UserName:  ls.UserName,
		Latitude:  ls.Latitude,
		Longitude: ls.Longitude,
		Address:   ls.Address,
		Note:      ls.Note,
		CreatedAt: ls.CreatedAt,
	}
}
