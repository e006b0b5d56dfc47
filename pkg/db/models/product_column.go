package models

import (
	"time"

	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProductColumn describes one dynamic catalog column rendered by the admin UI.
type ProductColumn struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string           `gorm:"column:name;not null;uniqueIndex"`
	Label           string           `gorm:"column:label;not null"`
	Type            enums.ColumnType `gorm:"column:type;type:text;not null;default:'text'"`
	Visible         bool             `gorm:"column:visible;not null;default:true"`
	Filterable      bool             `gorm:"column:filterable;not null;default:false"`
	Required        bool             `gorm:"column:required;not null;default:false"`
	DefaultValue    *string          `gorm:"column:default_value"`
	ValidationRules dbtypes.JSONMap  `gorm:"column:validation_rules;type:jsonb"`
	DisplayOrder    int              `gorm:"column:display_order;not null;default:999"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
