package api

import (
	"time"

	"github.com/varun4522/calm-campus-backend/internal/user"
)

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required"`
	DisplayName        string `json:"display_name"`
	RegistrationNumber string `json:"registration_number"`
	Role               string `json:"role" binding:"omitempty,oneof=student expert peer"`
	Course             string `json:"course"`
	ProfessionalTitle  string `json:"professional_title"`
	Qualifications     string `json:"qualifications"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the payload for POST /v1/auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserResponse is the shape of user data returned by auth endpoints.
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

type RegisterResponse struct {
	User UserResponse `json:"user"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type MeResponse struct {
	User UserResponse `json:"user"`
}

// NewUserResponse converts a domain user to the API shape.
func NewUserResponse(u *user.User) UserResponse {
	var lastLoginAt *time.Time
	if u.LastLoginAt != nil {
		ll := *u.LastLoginAt
		lastLoginAt = &ll
	}

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
		LastLoginAt:        lastLoginAt,
		IsActive:           u.IsActive,
	}
}
