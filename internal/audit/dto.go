package audit

import (
	"time"

	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	"github.com/google/uuid"
)

// Entry captures one action before it is persisted.
type Entry struct {
	UserID     *uuid.UUID
	Action     enums.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	OldValues  map[string]any
	NewValues  map[string]any
	IPAddress  *string
	UserAgent  *string
}

// LogDTO is the transport shape for one audit row, joined with the acting
// user's email when the account still exists.
type LogDTO struct {
	ID         uuid.UUID       `json:"id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
	UserEmail  *string         `json:"user_email,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty"`
	OldValues  dbtypes.JSONMap `json:"old_values,omitempty"`
	NewValues  dbtypes.JSONMap `json:"new_values,omitempty"`
	IPAddress  *string         `json:"ip_address,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListFilters narrows the audit listing.
type ListFilters struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
}
