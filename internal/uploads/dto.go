package uploads

import (
	"time"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/google/uuid"
)

// HistoryDTO is the transport shape for one recorded import run. The error
// log is returned as raw JSON so the stored detail passes through untouched.
type HistoryDTO struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	UserEmail      *string   `json:"user_email,omitempty"`
	Filename       string    `json:"filename"`
	FileType       string    `json:"file_type"`
	TotalRows      int       `json:"total_rows"`
	SuccessfulRows int       `json:"successful_rows"`
	FailedRows     int       `json:"failed_rows"`
	ErrorLog       []byte    `json:"error_log,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FromModel maps a stored history row onto the transport shape.
func FromModel(h *models.UploadHistory, userEmail *string) *HistoryDTO {
	if h == nil {
		return nil
	}
	return &HistoryDTO{
		ID:             h.ID,
		UserID:         h.UserID,
		UserEmail:      userEmail,
		Filename:       h.Filename,
		FileType:       h.FileType,
		TotalRows:      h.TotalRows,
		SuccessfulRows: h.SuccessfulRows,
		FailedRows:     h.FailedRows,
		ErrorLog:       h.ErrorLog,
		CreatedAt:      h.CreatedAt,
	}
}
