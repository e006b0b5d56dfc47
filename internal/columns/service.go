package columns

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/pkg/db"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/google/uuid"
)

// columnNameRe restricts machine names to snake case so they can double as
// import header keys and custom field keys.
var columnNameRe = regexp.MustCompile(`^[a-z_]+$`)

const defaultDisplayOrder = 999

// Service defines the behavior needed by the columns controller.
type Service interface {
	List(ctx context.Context) ([]ColumnDTO, error)
	Create(ctx context.Context, actor Actor, req CreateRequest) (*ColumnDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*ColumnDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

// Actor identifies the admin performing a column mutation.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

type repository interface {
	List(ctx context.Context) ([]models.ProductColumn, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductColumn, error)
	Create(ctx context.Context, column *models.ProductColumn) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ProductColumn, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  repository
	audit audit.Recorder
}

// ServiceParams bundles the dependencies required to build a columns service.
type ServiceParams struct {
	Repo  repository
	Audit audit.Recorder
}

// NewService constructs the columns service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("columns repository is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, audit: params.Audit}, nil
}

func (s *service) List(ctx context.Context) ([]ColumnDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list columns")
	}
	out := make([]ColumnDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (*ColumnDTO, error) {
	name := strings.TrimSpace(req.Name)
	if !columnNameRe.MatchString(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must contain only lowercase letters and underscores")
	}
	columnType, err := enums.ParseColumnType(req.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse column type")
	}

	column := &models.ProductColumn{
		Name:            name,
		Label:           strings.TrimSpace(req.Label),
		Type:            columnType,
		Visible:         true,
		DefaultValue:    req.DefaultValue,
		ValidationRules: req.ValidationRules,
		DisplayOrder:    defaultDisplayOrder,
	}
	if req.Visible != nil {
		column.Visible = *req.Visible
	}
	if req.Filterable != nil {
		column.Filterable = *req.Filterable
	}
	if req.Required != nil {
		column.Required = *req.Required
	}
	if req.DisplayOrder != nil {
		column.DisplayOrder = *req.DisplayOrder
	}

	if err := s.repo.Create(ctx, column); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "column name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create column")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionColumnCreate,
		EntityType: "product_column",
		EntityID:   &column.ID,
		NewValues:  map[string]any{"name": column.Name, "type": string(column.Type)},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return FromModel(column), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*ColumnDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "column not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup column")
	}

	updates := map[string]any{}
	if req.Label != nil {
		updates["label"] = strings.TrimSpace(*req.Label)
	}
	if req.Type != nil {
		columnType, err := enums.ParseColumnType(*req.Type)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse column type")
		}
		updates["type"] = columnType
	}
	if req.Visible != nil {
		updates["visible"] = *req.Visible
	}
	if req.Filterable != nil {
		updates["filterable"] = *req.Filterable
	}
	if req.Required != nil {
		updates["required"] = *req.Required
	}
	if req.DefaultValue != nil {
		updates["default_value"] = *req.DefaultValue
	}
	if req.ValidationRules != nil {
		updates["validation_rules"] = req.ValidationRules
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update column")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionColumnUpdate,
		EntityType: "product_column",
		EntityID:   &id,
		OldValues:  map[string]any{"label": current.Label, "visible": current.Visible},
		NewValues:  map[string]any{"label": updated.Label, "visible": updated.Visible},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "column not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup column")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete column")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionColumnDelete,
		EntityType: "product_column",
		EntityID:   &id,
		OldValues:  map[string]any{"name": current.Name},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return nil
}
