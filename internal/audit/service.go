package audit

import (
	"context"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
)

// Recorder is the write-side surface other domains depend on.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Service records and lists audit entries. Record is best effort: a failed
// audit write must never fail the action it describes.
type Service struct {
	repo   repository
	logger *logger.Logger
}

type repository interface {
	Insert(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]LogDTO, int64, error)
}

// NewService constructs the audit service.
func NewService(repo repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logger: logg}
}

// Record persists one audit entry, swallowing its own failures.
func (s *Service) Record(ctx context.Context, entry Entry) {
	log := &models.AuditLog{
		UserID:     entry.UserID,
		Action:     string(entry.Action),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		OldValues:  entry.OldValues,
		NewValues:  entry.NewValues,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
	}
	if err := s.repo.Insert(ctx, log); err != nil && s.logger != nil {
		ctx = s.logger.WithField(ctx, "action", string(entry.Action))
		s.logger.Error(ctx, "recording audit entry", err)
	}
}

// List returns one page of audit rows, newest first.
func (s *Service) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]LogDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return rows, pagination.NewMeta(page, total), nil
}
