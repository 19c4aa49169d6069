package http

import (
	"time"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"s3cret-pass"`
}

// AuthTokenResponse is returned by endpoints that issue JWT tokens.
type AuthTokenResponse struct {
	Token     string        `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time     `json:"expiresAt" example:"2024-01-02T09:30:00Z"`
	Admin     *domain.Admin `json:"admin"`
}

// VerifyResponse reports whether the presented bearer token is usable.
type VerifyResponse struct {
	Valid   bool          `json:"valid" example:"true"`
	Message string        `json:"message,omitempty"`
	Admin   *domain.Admin `json:"admin,omitempty"`
}

// AdminResponse wraps an admin account.
type AdminResponse struct {
	Admin *domain.Admin `json:"admin"`
}

// AdminsResponse lists admin accounts.
type AdminsResponse struct {
	Admins []domain.Admin `json:"admins"`
}

// AdminCreateRequest is the body of POST /api/admin/admins.
type AdminCreateRequest struct {
	Username string `json:"username" example:"editor1"`
	Email    string `json:"email" example:"editor@example.com"`
	Password string `json:"password" example:"changeme123"`
	FullName string `json:"fullName" example:"Site Editor"`
	Role     string `json:"role" example:"editor"`
}

// AdminUpdateRequest is the body of PUT /api/admin/admins/:id. Omitted fields
// are left unchanged.
type AdminUpdateRequest struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"fullName,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
	Password *string `json:"password,omitempty"`
}
