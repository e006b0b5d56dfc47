package products

import (
	"context"
	"strings"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without side effects.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies the given column map and returns the fresh row. Only columns
// present in updates change; callers build the map from an allow list.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViewCount bumps the read counter atomically in the database so
// concurrent detail reads never lose increments.
func (r *Repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// List returns one page of products matching the filters, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, int64, error) {
	page = page.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	qb = applyFilters(qb, filters)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := qb.
		Order(sortClause(filters)).
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// sortColumns whitelists what the listing may order by. Anything else falls
// back to created_at so caller input never reaches the ORDER BY clause raw.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"product_name": "product_name",
	"company_name": "company_name",
	"view_count":   "view_count",
}

func sortClause(filters ListFilters) string {
	column, ok := sortColumns[filters.SortBy]
	if !ok {
		column = "created_at"
	}
	if filters.SortAsc {
		return column + " ASC"
	}
	return column + " DESC"
}

func applyFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(product_name) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(brand_name) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filters.CompanyName != "" {
		qb = qb.Where("company_name = ?", filters.CompanyName)
	}
	if filters.ProductType != "" {
		qb = qb.Where("product_type = ?", filters.ProductType)
	}
	if filters.Season != "" {
		qb = qb.Where("applied_seasons && ?", pq.StringArray{filters.Season})
	}
	if filters.Crop != "" {
		qb = qb.Where("suitable_crops && ?", pq.StringArray{filters.Crop})
	}
	if filters.State != "" {
		qb = qb.Where("available_states && ?", pq.StringArray{filters.State})
	}
	if filters.OrganicOnly != nil && *filters.OrganicOnly {
		qb = qb.Where("organic_certified = ?", true)
	}
	if filters.GovtApproved != nil {
		qb = qb.Where("govt_approved = ?", *filters.GovtApproved)
	}
	if filters.IsActive != nil {
		qb = qb.Where("is_active = ?", *filters.IsActive)
	}
	return qb
}

// Facets reports the distinct filterable values across active listings.
func (r *Repository) Facets(ctx context.Context) (*Facets, error) {
	facets := &Facets{}

	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_type IS NOT NULL AND is_active").
		Distinct().
		Order("product_type").
		Pluck("product_type", &facets.ProductTypes).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active").
		Distinct().
		Order("company_name").
		Pluck("company_name", &facets.Companies).Error
	if err != nil {
		return nil, err
	}

	// Array columns need unnest, which Pluck cannot express.
	arrayFacets := []struct {
		column string
		dest   *[]string
	}{
		{"applied_seasons", &facets.Seasons},
		{"suitable_crops", &facets.Crops},
		{"available_states", &facets.States},
	}
	for _, f := range arrayFacets {
		query := "SELECT DISTINCT unnest(" + f.column + ") AS value FROM products WHERE is_active ORDER BY value"
		if err := r.db.WithContext(ctx).Raw(query).Scan(f.dest).Error; err != nil {
			return nil, err
		}
	}
	return facets, nil
}
