package stats

import (
	"context"
	"time"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind the dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stats repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ProductCounts returns total products, active products, and the summed view
// count in one pass.
func (r *Repository) ProductCounts(ctx context.Context) (total, active, views int64, err error) {
	row := struct {
		Total  int64
		Active int64
		Views  int64
	}{}
	err = r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE is_active) AS active, COALESCE(SUM(view_count), 0) AS views").
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return row.Total, row.Active, row.Views, nil
}

// CountUsers returns the total number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	return total, err
}

// CountActiveSessions returns the number of unexpired session rows.
func (r *Repository) CountActiveSessions(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("expires_at > ?", now).
		Count(&total).Error
	return total, err
}

// CountByType groups active products by product_type, largest first.
// Products without a type are excluded.
func (r *Repository) CountByType(ctx context.Context, limit int) ([]CountBucket, error) {
	var buckets []CountBucket
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("product_type AS label, COUNT(*) AS count").
		Where("is_active AND product_type IS NOT NULL AND product_type <> ''").
		Group("product_type").
		Order("count DESC, label ASC").
		Limit(limit).
		Scan(&buckets).Error
	return buckets, err
}

// CountByCrop unnests suitable_crops across active products and groups by
// crop, largest first.
func (r *Repository) CountByCrop(ctx context.Context, limit int) ([]CountBucket, error) {
	var buckets []CountBucket
	err := r.db.WithContext(ctx).Raw(`
		SELECT crop AS label, COUNT(*) AS count
		FROM products, unnest(suitable_crops) AS crop
		WHERE is_active
		GROUP BY crop
		ORDER BY count DESC, label ASC
		LIMIT ?`, limit).
		Scan(&buckets).Error
	return buckets, err
}
