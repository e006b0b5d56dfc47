package auth

import (
	"github.com/agrihub/agrihub-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a JWT.
type SessionTokenPayload struct {
	UserID    uuid.UUID
	Email     string
	Role      enums.Role
	SessionID uuid.UUID
}

// SessionTokenClaims represents the typed JWT issued to clients. The session
// id binds the signed token to a revocable server-side session row.
type SessionTokenClaims struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	SessionID uuid.UUID  `json:"session_id"`
	jwt.RegisteredClaims
}
