package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side, revocable counterpart to a signed token. The
// row stores only a one-way hash of the issued token, never the token itself.
// A session is valid while the row exists and expires_at is in the future;
// deleting the row revokes the credential regardless of the signature window.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	TokenHash string    `gorm:"column:token_hash;not null"`
	IPAddress *string   `gorm:"column:ip_address"`
	UserAgent *string   `gorm:"column:user_agent"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
