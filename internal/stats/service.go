package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/internal/uploads"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
)

const (
	bucketLimit = 10
	recentLimit = 5
)

// Service assembles the admin dashboard overview.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type aggregateRepository interface {
	ProductCounts(ctx context.Context) (total, active, views int64, err error)
	CountUsers(ctx context.Context) (int64, error)
	CountActiveSessions(ctx context.Context, now time.Time) (int64, error)
	CountByType(ctx context.Context, limit int) ([]CountBucket, error)
	CountByCrop(ctx context.Context, limit int) ([]CountBucket, error)
}

type uploadLister interface {
	List(ctx context.Context, page pagination.Params) ([]uploads.HistoryDTO, int64, error)
}

type auditLister interface {
	List(ctx context.Context, filters audit.ListFilters, page pagination.Params) ([]audit.LogDTO, int64, error)
}

type service struct {
	repo    aggregateRepository
	uploads uploadLister
	audits  auditLister
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a stats service.
type ServiceParams struct {
	Repo    aggregateRepository
	Uploads uploadLister
	Audits  auditLister
	Now     func() time.Time
}

// NewService constructs the stats service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stats repository is required")
	}
	if params.Uploads == nil {
		return nil, fmt.Errorf("uploads repository is required")
	}
	if params.Audits == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:    params.Repo,
		uploads: params.Uploads,
		audits:  params.Audits,
		now:     now,
	}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}

	var err error
	overview.TotalProducts, overview.ActiveProducts, overview.TotalViews, err = s.repo.ProductCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	if overview.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	if overview.ActiveSessions, err = s.repo.CountActiveSessions(ctx, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count sessions")
	}
	if overview.ProductsByType, err = s.repo.CountByType(ctx, bucketLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count by type")
	}
	if overview.ProductsByCrop, err = s.repo.CountByCrop(ctx, bucketLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count by crop")
	}

	recent := pagination.Params{Page: 1, Limit: recentLimit}
	if overview.RecentUploads, _, err = s.uploads.List(ctx, recent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent uploads")
	}
	if overview.RecentActivity, _, err = s.audits.List(ctx, audit.ListFilters{}, recent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent activity")
	}
	return overview, nil
}
