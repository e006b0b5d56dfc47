package columns

import (
	"context"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes product column persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a columns repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every column definition ordered for display.
func (r *Repository) List(ctx context.Context) ([]models.ProductColumn, error) {
	var rows []models.ProductColumn
	err := r.db.WithContext(ctx).
		Order("display_order ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// FindByID loads one column definition.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductColumn, error) {
	var column models.ProductColumn
	if err := r.db.WithContext(ctx).First(&column, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// Create inserts a new column definition.
func (r *Repository) Create(ctx context.Context, column *models.ProductColumn) error {
	return r.db.WithContext(ctx).Create(column).Error
}

// Update applies the given column map and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ProductColumn, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.ProductColumn{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a column definition.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.ProductColumn{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
