package uploads

import (
	"context"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the import run history.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an uploads repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert records one finished import run.
func (r *Repository) Insert(ctx context.Context, history *models.UploadHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// FindByID loads one history row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UploadHistory, error) {
	var history models.UploadHistory
	if err := r.db.WithContext(ctx).First(&history, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

type historyWithEmail struct {
	models.UploadHistory
	UserEmail *string
}

// List returns one page of runs, newest first, joined with the uploader's
// email when the account still exists.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]HistoryDTO, int64, error) {
	page = page.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.UploadHistory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []historyWithEmail
	err := r.db.WithContext(ctx).
		Model(&models.UploadHistory{}).
		Select("upload_history.*, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = upload_history.user_id").
		Order("upload_history.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]HistoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i].UploadHistory, rows[i].UserEmail))
	}
	return out, total, nil
}
