package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/varun4522/calm-campus-backend/internal/auth"
)

// RegisterRequest carries the fields collected by the registration screens.
type RegisterRequest struct {
	Email              string
	Password           string
	DisplayName        string
	RegistrationNumber string
	Role               string
	Course             string
	ProfessionalTitle  string
	Qualifications     string
}

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	DisplayName       *string
	Course            *string
	ProfessionalTitle *string
	Qualifications    *string
	AvatarFileID      *string
}

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByRegistration(ctx context.Context, registration string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	ListProviders(ctx context.Context, providerRole string, page, pageSize int) ([]*User, int, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	cleanEmail := normalizeEmail(req.Email)
	if cleanEmail == "" {
		return nil, fmt.Errorf("email is required")
	}

	if len(req.Password) < s.minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", s.minPasswordLength)
	}

	// Self-registration defaults to student; admins are provisioned
	// directly in the database.
	role := RoleStudent
	if req.Role != "" {
		parsed, err := ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		if parsed == RoleAdmin {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	registration := strings.TrimSpace(req.RegistrationNumber)
	if registration == "" {
		return nil, fmt.Errorf("registration number is required")
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		// Found an existing user.
		return nil, ErrEmailAlreadyUsed
	}
	// If the error is something other than "not found", propagate it.
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	// Hash the password.
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Email:              cleanEmail,
		PasswordHash:       hash,
		DisplayName:        optional(req.DisplayName),
		RegistrationNumber: registration,
		Role:               role,
		Course:             optional(req.Course),
		ProfessionalTitle:  optional(req.ProfessionalTitle),
		Qualifications:     optional(req.Qualifications),
		IsActive:           true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailAlreadyUsed) || errors.Is(err, ErrRegistrationTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	// Compare password hash.
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login_at (best effort; do not fail login if update fails).
	now := time.Now().UTC()
	_ = s.repo.UpdateLastLogin(ctx, u.ID, now)

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByRegistration(ctx context.Context, registration string) (*User, error) {
	return s.repo.GetByRegistration(ctx, strings.TrimSpace(registration))
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

// ListProviders is the public directory backing the booking screens:
// active experts and peer listeners only.
func (s *service) ListProviders(ctx context.Context, providerRole string, page, pageSize int) ([]*User, int, error) {
	role := Role(providerRole)
	if providerRole != "" && !role.IsProvider() {
		return nil, 0, ErrInvalidRole
	}

	active := true
	filter := Filter{
		Role:     providerRole,
		IsActive: &active,
		Page:     page,
		PageSize: pageSize,
		SortBy:   "display_name",
	}

	if providerRole != "" {
		return s.repo.List(ctx, filter)
	}

	// No role given: merge both provider roles. Two queries keeps the
	// repository filter simple.
	filter.Role = string(RoleExpert)
	experts, expertTotal, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	filter.Role = string(RolePeer)
	peers, peerTotal, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return append(experts, peers...), expertTotal + peerTotal, nil
}

func (s *service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		u.DisplayName = optional(*req.DisplayName)
	}
	if req.Course != nil {
		u.Course = optional(*req.Course)
	}
	if req.ProfessionalTitle != nil {
		u.ProfessionalTitle = optional(*req.ProfessionalTitle)
	}
	if req.Qualifications != nil {
		u.Qualifications = optional(*req.Qualifications)
	}
	if req.AvatarFileID != nil {
		u.AvatarFileID = optional(*req.AvatarFileID)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if len(newPassword) < s.minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", s.minPasswordLength)
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(u.PasswordHash, oldPassword); err != nil {
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional converts a trimmed string into a nullable column value.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
