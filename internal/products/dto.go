package products

import (
	"time"

	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ProductDTO is the transport shape for one catalog listing.
type ProductDTO struct {
	ID                 uuid.UUID       `json:"id"`
	CompanyName        string          `json:"company_name"`
	ProductName        string          `json:"product_name"`
	BrandName          *string         `json:"brand_name,omitempty"`
	ProductDescription *string         `json:"product_description,omitempty"`
	ProductType        *string         `json:"product_type,omitempty"`
	SubType            *string         `json:"sub_type,omitempty"`
	AppliedSeasons     []string        `json:"applied_seasons"`
	SuitableCrops      []string        `json:"suitable_crops"`
	Benefits           *string         `json:"benefits,omitempty"`
	Dosage             *string         `json:"dosage,omitempty"`
	ApplicationMethod  *string         `json:"application_method,omitempty"`
	PackSizes          []string        `json:"pack_sizes"`
	PriceRange         *string         `json:"price_range,omitempty"`
	AvailableStates    []string        `json:"available_states"`
	OrganicCertified   bool            `json:"organic_certified"`
	ISOCertified       bool            `json:"iso_certified"`
	GovtApproved       bool            `json:"govt_approved"`
	ProductImageURL    *string         `json:"product_image_url,omitempty"`
	SourceURL          *string         `json:"source_url,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	IsActive           bool            `json:"is_active"`
	ViewCount          int             `json:"view_count"`
	CustomFields       dbtypes.JSONMap `json:"custom_fields,omitempty"`
	CreatedBy          *uuid.UUID      `json:"created_by,omitempty"`
	UpdatedBy          *uuid.UUID      `json:"updated_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FromModel maps a stored product onto the transport shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                 p.ID,
		CompanyName:        p.CompanyName,
		ProductName:        p.ProductName,
		BrandName:          p.BrandName,
		ProductDescription: p.ProductDescription,
		ProductType:        p.ProductType,
		SubType:            p.SubType,
		AppliedSeasons:     append([]string{}, p.AppliedSeasons...),
		SuitableCrops:      append([]string{}, p.SuitableCrops...),
		Benefits:           p.Benefits,
		Dosage:             p.Dosage,
		ApplicationMethod:  p.ApplicationMethod,
		PackSizes:          append([]string{}, p.PackSizes...),
		PriceRange:         p.PriceRange,
		AvailableStates:    append([]string{}, p.AvailableStates...),
		OrganicCertified:   p.OrganicCertified,
		ISOCertified:       p.ISOCertified,
		GovtApproved:       p.GovtApproved,
		ProductImageURL:    p.ProductImageURL,
		SourceURL:          p.SourceURL,
		Notes:              p.Notes,
		IsActive:           p.IsActive,
		ViewCount:          p.ViewCount,
		CustomFields:       p.CustomFields,
		CreatedBy:          p.CreatedBy,
		UpdatedBy:          p.UpdatedBy,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ProductInput carries the writable catalog fields for create and update.
// Pointer fields left nil on update keep their stored values.
type ProductInput struct {
	CompanyName        *string         `json:"company_name,omitempty"`
	ProductName        *string         `json:"product_name,omitempty"`
	BrandName          *string         `json:"brand_name,omitempty"`
	ProductDescription *string         `json:"product_description,omitempty"`
	ProductType        *string         `json:"product_type,omitempty"`
	SubType            *string         `json:"sub_type,omitempty"`
	AppliedSeasons     []string        `json:"applied_seasons,omitempty"`
	SuitableCrops      []string        `json:"suitable_crops,omitempty"`
	Benefits           *string         `json:"benefits,omitempty"`
	Dosage             *string         `json:"dosage,omitempty"`
	ApplicationMethod  *string         `json:"application_method,omitempty"`
	PackSizes          []string        `json:"pack_sizes,omitempty"`
	PriceRange         *string         `json:"price_range,omitempty"`
	AvailableStates    []string        `json:"available_states,omitempty"`
	OrganicCertified   *bool           `json:"organic_certified,omitempty"`
	ISOCertified       *bool           `json:"iso_certified,omitempty"`
	GovtApproved       *bool           `json:"govt_approved,omitempty"`
	ProductImageURL    *string         `json:"product_image_url,omitempty"`
	SourceURL          *string         `json:"source_url,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	IsActive           *bool           `json:"is_active,omitempty"`
	CustomFields       dbtypes.JSONMap `json:"custom_fields,omitempty"`
}

// ListFilters narrows the product listing. Zero values mean "no filter".
type ListFilters struct {
	Query        string
	CompanyName  string
	ProductType  string
	Season       string
	Crop         string
	State        string
	OrganicOnly  *bool
	GovtApproved *bool
	IsActive     *bool
	SortBy       string
	SortAsc      bool
}

// Facets summarizes the distinct filterable values in the catalog.
type Facets struct {
	ProductTypes []string `json:"product_types"`
	Companies    []string `json:"companies"`
	Seasons      []string `json:"seasons"`
	Crops        []string `json:"crops"`
	States       []string `json:"states"`
}
