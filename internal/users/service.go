package users

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
	"github.com/agrihub/agrihub-backend/pkg/security"
	"github.com/google/uuid"
)

// Service defines the behavior needed by the users controller.
type Service interface {
	List(ctx context.Context, page pagination.Params) ([]UserDTO, pagination.Meta, error)
	Create(ctx context.Context, actor Actor, req CreateRequest) (*UserDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*UserDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

// Actor identifies who performs an admin action, for auditing and self guards.
type Actor struct {
	UserID    uuid.UUID
	IPAddress *string
	UserAgent *string
}

// CreateRequest is the inbound payload for creating an account.
type CreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// UpdateRequest is the inbound payload for mutating an account.
type UpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type repository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, page pagination.Params) ([]models.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionRevoker interface {
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo     repository
	sessions sessionRevoker
	audit    audit.Recorder
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo     repository
	Sessions sessionRevoker
	Audit    audit.Recorder
}

// NewService constructs the users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("sessions repository is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, sessions: params.Sessions, audit: params.Audit}, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) ([]UserDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, pagination.NewMeta(page, total), nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (*UserDTO, error) {
	role, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse role")
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionUserCreate,
		EntityType: "user",
		EntityID:   &user.ID,
		NewValues:  map[string]any{"email": user.Email, "role": string(user.Role)},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*UserDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	dto := UpdateUserDTO{FullName: req.FullName, IsActive: req.IsActive}
	if req.Role != nil {
		role, err := enums.ParseRole(*req.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse role")
		}
		if actor.UserID == id && role != current.Role {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change own role")
		}
		dto.Role = &role
	}
	if req.IsActive != nil && !*req.IsActive && actor.UserID == id {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate own account")
	}

	updated, err := s.repo.Update(ctx, id, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
		}
		if _, err := s.sessions.DeleteByUser(ctx, id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke sessions")
		}
	}

	// Deactivating an account kills its live sessions immediately.
	if req.IsActive != nil && !*req.IsActive {
		if _, err := s.sessions.DeleteByUser(ctx, id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke sessions")
		}
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionUserUpdate,
		EntityType: "user",
		EntityID:   &id,
		OldValues:  map[string]any{"role": string(current.Role), "is_active": current.IsActive},
		NewValues:  map[string]any{"role": string(updated.Role), "is_active": updated.IsActive},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete own account")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if _, err := s.sessions.DeleteByUser(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke sessions")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actor.UserID,
		Action:     enums.AuditActionUserDelete,
		EntityType: "user",
		EntityID:   &id,
		OldValues:  map[string]any{"email": current.Email, "role": string(current.Role)},
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
