package audit

import (
	"context"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists and lists audit rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an audit repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one audit row.
func (r *Repository) Insert(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

type logWithEmail struct {
	models.AuditLog
	UserEmail *string
}

// List returns a page of audit rows, newest first, with the acting user's
// email joined in when the account still exists.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]LogDTO, int64, error) {
	page = page.Normalize()

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filters.UserID != nil {
		query = query.Where("audit_logs.user_id = ?", *filters.UserID)
	}
	if filters.Action != "" {
		query = query.Where("audit_logs.action = ?", filters.Action)
	}
	if filters.EntityType != "" {
		query = query.Where("audit_logs.entity_type = ?", filters.EntityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []logWithEmail
	err := query.
		Select("audit_logs.*, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
		Order("audit_logs.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]LogDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, LogDTO{
			ID:         row.ID,
			UserID:     row.UserID,
			UserEmail:  row.UserEmail,
			Action:     row.Action,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			OldValues:  row.OldValues,
			NewValues:  row.NewValues,
			IPAddress:  row.IPAddress,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, total, nil
}
