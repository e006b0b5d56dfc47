package models

import (
	"time"

	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents one catalog listing. Company and product name are the
// only mandatory descriptive fields; everything else is optional.
type Product struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyName        string          `gorm:"column:company_name;not null"`
	ProductName        string          `gorm:"column:product_name;not null"`
	BrandName          *string         `gorm:"column:brand_name"`
	ProductDescription *string         `gorm:"column:product_description"`
	ProductType        *string         `gorm:"column:product_type"`
	SubType            *string         `gorm:"column:sub_type"`
	AppliedSeasons     pq.StringArray  `gorm:"column:applied_seasons;type:text[]"`
	SuitableCrops      pq.StringArray  `gorm:"column:suitable_crops;type:text[]"`
	Benefits           *string         `gorm:"column:benefits"`
	Dosage             *string         `gorm:"column:dosage"`
	ApplicationMethod  *string         `gorm:"column:application_method"`
	PackSizes          pq.StringArray  `gorm:"column:pack_sizes;type:text[]"`
	PriceRange         *string         `gorm:"column:price_range"`
	AvailableStates    pq.StringArray  `gorm:"column:available_states;type:text[]"`
	OrganicCertified   bool            `gorm:"column:organic_certified;not null;default:false"`
	ISOCertified       bool            `gorm:"column:iso_certified;not null;default:false"`
	GovtApproved       bool            `gorm:"column:govt_approved;not null;default:false"`
	ProductImageURL    *string         `gorm:"column:product_image_url"`
	SourceURL          *string         `gorm:"column:source_url"`
	Notes              *string         `gorm:"column:notes"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	ViewCount          int             `gorm:"column:view_count;not null;default:0"`
	CustomFields       dbtypes.JSONMap `gorm:"column:custom_fields;type:jsonb"`
	CreatedBy          *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	UpdatedBy          *uuid.UUID      `gorm:"column:updated_by;type:uuid"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
