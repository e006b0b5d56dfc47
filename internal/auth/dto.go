package auth

import (
	"time"

	"github.com/agrihub/agrihub-backend/internal/users"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	"github.com/google/uuid"
)

// LoginRequest is the inbound login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ClientMeta captures connection attributes recorded on the session row.
type ClientMeta struct {
	IPAddress *string
	UserAgent *string
}

// LoginResponse carries the signed token and the authenticated account.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *users.UserDTO `json:"user"`
}

// Identity is the validated caller attached to request context. It is only
// produced after both the signature check and the session row check pass.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	Role      enums.Role
	SessionID uuid.UUID
}

// ChangePasswordRequest rotates the caller's own credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
