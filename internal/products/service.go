package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/pkg/db"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Service defines the behavior needed by the products controller.
type Service interface {
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]ProductDTO, pagination.Meta, error)
	Facets(ctx context.Context) (*Facets, error)
	Get(ctx context.Context, id uuid.UUID, countView bool) (*ProductDTO, error)
	Create(ctx context.Context, actor Actor, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

// Actor identifies the admin performing a catalog mutation.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

type repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, int64, error)
	Facets(ctx context.Context) (*Facets, error)
}

type service struct {
	repo  repository
	audit audit.Recorder
}

// ServiceParams bundles the dependencies required to build a products service.
type ServiceParams struct {
	Repo  repository
	Audit audit.Recorder
}

// NewService constructs the products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.Audit}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]ProductDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, pagination.NewMeta(page, total), nil
}

func (s *service) Facets(ctx context.Context) (*Facets, error) {
	facets, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load facets")
	}
	return facets, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, countView bool) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if countView {
		if err := s.repo.IncrementViewCount(ctx, id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count view")
		}
		product.ViewCount++
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, actor Actor, input ProductInput) (*ProductDTO, error) {
	company := derefTrimmed(input.CompanyName)
	name := derefTrimmed(input.ProductName)
	if company == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company_name and product_name are required")
	}

	product := &models.Product{
		CompanyName:        company,
		ProductName:        name,
		BrandName:          input.BrandName,
		ProductDescription: input.ProductDescription,
		ProductType:        input.ProductType,
		SubType:            input.SubType,
		AppliedSeasons:     pq.StringArray(input.AppliedSeasons),
		SuitableCrops:      pq.StringArray(input.SuitableCrops),
		Benefits:           input.Benefits,
		Dosage:             input.Dosage,
		ApplicationMethod:  input.ApplicationMethod,
		PackSizes:          pq.StringArray(input.PackSizes),
		PriceRange:         input.PriceRange,
		AvailableStates:    pq.StringArray(input.AvailableStates),
		ProductImageURL:    input.ProductImageURL,
		SourceURL:          input.SourceURL,
		Notes:              input.Notes,
		IsActive:           true,
		CustomFields:       input.CustomFields,
		CreatedBy:          &actor.UserID,
		UpdatedBy:          &actor.UserID,
	}
	if input.OrganicCertified != nil {
		product.OrganicCertified = *input.OrganicCertified
	}
	if input.ISOCertified != nil {
		product.ISOCertified = *input.ISOCertified
	}
	if input.GovtApproved != nil {
		product.GovtApproved = *input.GovtApproved
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionProductCreate,
		EntityType: "product",
		EntityID:   &created.ID,
		NewValues:  map[string]any{"company_name": created.CompanyName, "product_name": created.ProductName},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return FromModel(current), nil
	}
	updates["updated_by"] = actor.UserID

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionProductUpdate,
		EntityType: "product",
		EntityID:   &id,
		OldValues:  map[string]any{"product_name": current.ProductName, "is_active": current.IsActive},
		NewValues:  map[string]any{"product_name": updated.ProductName, "is_active": updated.IsActive},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionProductDelete,
		EntityType: "product",
		EntityID:   &id,
		OldValues:  map[string]any{"company_name": current.CompanyName, "product_name": current.ProductName},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return nil
}

// buildUpdates converts the input into a column map holding only the fields
// the caller actually set. Unknown or computed columns (id, view_count,
// created_by, timestamps) can never be written through this path.
func buildUpdates(input ProductInput) (map[string]any, error) {
	updates := map[string]any{}

	if input.CompanyName != nil {
		v := strings.TrimSpace(*input.CompanyName)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company_name cannot be empty")
		}
		updates["company_name"] = v
	}
	if input.ProductName != nil {
		v := strings.TrimSpace(*input.ProductName)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_name cannot be empty")
		}
		updates["product_name"] = v
	}

	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setBool := func(column string, value *bool) {
		if value != nil {
			updates[column] = *value
		}
	}
	setArray := func(column string, value []string) {
		if value != nil {
			updates[column] = pq.StringArray(value)
		}
	}

	setString("brand_name", input.BrandName)
	setString("product_description", input.ProductDescription)
	setString("product_type", input.ProductType)
	setString("sub_type", input.SubType)
	setString("benefits", input.Benefits)
	setString("dosage", input.Dosage)
	setString("application_method", input.ApplicationMethod)
	setString("price_range", input.PriceRange)
	setString("product_image_url", input.ProductImageURL)
	setString("source_url", input.SourceURL)
	setString("notes", input.Notes)
	setArray("applied_seasons", input.AppliedSeasons)
	setArray("suitable_crops", input.SuitableCrops)
	setArray("pack_sizes", input.PackSizes)
	setArray("available_states", input.AvailableStates)
	setBool("organic_certified", input.OrganicCertified)
	setBool("iso_certified", input.ISOCertified)
	setBool("govt_approved", input.GovtApproved)
	setBool("is_active", input.IsActive)
	if input.CustomFields != nil {
		updates["custom_fields"] = input.CustomFields
	}

	return updates, nil
}

func derefTrimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
