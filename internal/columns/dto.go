package columns

import (
	"time"

	dbtypes "github.com/agrihub/agrihub-backend/pkg/db/types"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ColumnDTO is the transport shape for one dynamic catalog column.
type ColumnDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Label           string          `json:"label"`
	Type            string          `json:"type"`
	Visible         bool            `json:"visible"`
	Filterable      bool            `json:"filterable"`
	Required        bool            `json:"required"`
	DefaultValue    *string         `json:"default_value,omitempty"`
	ValidationRules dbtypes.JSONMap `json:"validation_rules,omitempty"`
	DisplayOrder    int             `json:"display_order"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateRequest is the inbound payload for defining a column.
type CreateRequest struct {
	Name            string          `json:"name" validate:"required"`
	Label           string          `json:"label" validate:"required"`
	Type            string          `json:"type" validate:"required"`
	Visible         *bool           `json:"visible,omitempty"`
	Filterable      *bool           `json:"filterable,omitempty"`
	Required        *bool           `json:"required,omitempty"`
	DefaultValue    *string         `json:"default_value,omitempty"`
	ValidationRules dbtypes.JSONMap `json:"validation_rules,omitempty"`
	DisplayOrder    *int            `json:"display_order,omitempty"`
}

// UpdateRequest mutates a column definition. The name is immutable once
// created because stored custom field keys reference it.
type UpdateRequest struct {
	Label           *string         `json:"label,omitempty"`
	Type            *string         `json:"type,omitempty"`
	Visible         *bool           `json:"visible,omitempty"`
	Filterable      *bool           `json:"filterable,omitempty"`
	Required        *bool           `json:"required,omitempty"`
	DefaultValue    *string         `json:"default_value,omitempty"`
	ValidationRules dbtypes.JSONMap `json:"validation_rules,omitempty"`
	DisplayOrder    *int            `json:"display_order,omitempty"`
}

// FromModel maps a stored column onto the transport shape.
func FromModel(c *models.ProductColumn) *ColumnDTO {
	if c == nil {
		return nil
	}
	return &ColumnDTO{
		ID:              c.ID,
		Name:            c.Name,
		Label:           c.Label,
		Type:            string(c.Type),
		Visible:         c.Visible,
		Filterable:      c.Filterable,
		Required:        c.Required,
		DefaultValue:    c.DefaultValue,
		ValidationRules: c.ValidationRules,
		DisplayOrder:    c.DisplayOrder,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
