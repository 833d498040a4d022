package http

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/pkg/request"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

// UserTag is the minimal user reference embedded in other modules' responses.
type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse is the full user shape returned to the account owner or admins.
type UserResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	DisplayName        *string    `json:"display_name,omitempty"`
	RegistrationNumber string     `json:"registration_number"`
	Role               string     `json:"role"`
	Course             *string    `json:"course,omitempty"`
	ProfessionalTitle  *string    `json:"professional_title,omitempty"`
	Qualifications     *string    `json:"qualifications,omitempty"`
	AvatarFileID       *string    `json:"avatar_file_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	IsActive           bool       `json:"is_active"`
}

// ProviderResponse is the public directory entry for bookable providers.
// It deliberately omits email and account status.
type ProviderResponse struct {
	ID                 string  `json:"id"`
	DisplayName        *string `json:"display_name,omitempty"`
	RegistrationNumber string  `json:"registration_number"`
	Role               string  `json:"role"`
	ProfessionalTitle  *string `json:"professional_title,omitempty"`
	Qualifications     *string `json:"qualifications,omitempty"`
	AvatarFileID       *string `json:"avatar_file_id,omitempty"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		DisplayName:        u.DisplayName,
		RegistrationNumber: u.RegistrationNumber,
		Role:               string(u.Role),
		Course:             u.Course,
		ProfessionalTitle:  u.ProfessionalTitle,
		Qualifications:     u.Qualifications,
		AvatarFileID:       u.AvatarFileID,
		CreatedAt:          u.CreatedAt,
		LastLoginAt:        u.LastLoginAt,
		IsActive:           u.IsActive,
	}
}

func NewProviderResponse(u *user.User) ProviderResponse {
	return ProviderResponse{
		ID:                 u.ID,
		DisplayName:        u.DisplayName,
		RegistrationNumber: u.RegistrationNumber,
		Role:               string(u.Role),
		ProfessionalTitle:  u.ProfessionalTitle,
		Qualifications:     u.Qualifications,
		AvatarFileID:       u.AvatarFileID,
	}
}

// ListUsersRequest defines query parameters for the admin user listing.
type ListUsersRequest struct {
	request.ListParams
	Email       string `form:"email"`
	DisplayName string `form:"display_name"`
	Role        string `form:"role" binding:"omitempty,oneof=student expert peer admin"`
	IsActive    *bool  `form:"is_active"`
}

// ListProvidersRequest defines query parameters for the provider directory.
type ListProvidersRequest struct {
	request.ListParams
	Role string `form:"role" binding:"omitempty,oneof=expert peer"`
}

// UpdateProfileBody carries partial profile updates.
type UpdateProfileBody struct {
	DisplayName       *string `json:"display_name"`
	Course            *string `json:"course"`
	ProfessionalTitle *string `json:"professional_title"`
	Qualifications    *string `json:"qualifications"`
	AvatarFileID      *string `json:"avatar_file_id" binding:"omitempty,uuid"`
}
