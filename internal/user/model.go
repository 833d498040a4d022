package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrRegistrationTaken  = errors.New("registration number already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// Role determines which surfaces of the platform a user can reach.
type Role string

const (
	RoleStudent Role = "student"
	RoleExpert  Role = "expert"
	RolePeer    Role = "peer"
	RoleAdmin   Role = "admin"
)

// IsProvider reports whether the role can be booked for sessions.
func (r Role) IsProvider() bool {
	return r == RoleExpert || r == RolePeer
}

// ParseRole validates and converts a raw role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleExpert, RolePeer, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// User represents an account on the platform: a student, a mental-health
// expert, a peer listener, or an administrator.
type User struct {
	ID                 string // UUID
	Email              string
	PasswordHash       string
	DisplayName        *string
	RegistrationNumber string
	Role               Role
	Course             *string // students
	ProfessionalTitle  *string // experts
	Qualifications     *string // experts
	AvatarFileID       *string
	CreatedAt          time.Time
	LastLoginAt        *time.Time
	IsActive           bool
}

// Filter defines filter options for listing users.
type Filter struct {
	Email       string
	DisplayName string
	Role        string
	IsActive    *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
