package models

import (
	"time"

	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/google/uuid"
)

// AuditLog is an append-only record of one back-office action.
type AuditLog struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	Action     string          `gorm:"column:action;not null;index"`
	EntityType string          `gorm:"column:entity_type;not null"`
	EntityID   *uuid.UUID      `gorm:"column:entity_id;type:uuid"`
	OldValues  dbtypes.JSONMap `gorm:"column:old_values;type:jsonb"`
	NewValues  dbtypes.JSONMap `gorm:"column:new_values;type:jsonb"`
	IPAddress  *string         `gorm:"column:ip_address"`
	UserAgent  *string         `gorm:"column:user_agent"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}
