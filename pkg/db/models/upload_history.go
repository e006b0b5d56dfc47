package models

import (
	"time"

	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/google/uuid"
)

// UploadHistory is the immutable record of one bulk-import run. Rows are
// written once at the end of a run and never mutated. successful_rows +
// failed_rows always equals total_rows.
type UploadHistory struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Filename       string          `gorm:"column:filename;not null"`
	FileType       string          `gorm:"column:file_type;not null"`
	TotalRows      int             `gorm:"column:total_rows;not null;default:0"`
	SuccessfulRows int             `gorm:"column:successful_rows;not null;default:0"`
	FailedRows     int             `gorm:"column:failed_rows;not null;default:0"`
	ErrorLog       dbtypes.JSONRaw `gorm:"column:error_log;type:jsonb"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the singular table name used by the migrations.
func (UploadHistory) TableName() string {
	return "upload_history"
}
