package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/internal/uploads"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
)

type stubAggregates struct {
	failUsers bool
}

func (s *stubAggregates) ProductCounts(context.Context) (int64, int64, int64, error) {
	return 42, 40, 1234, nil
}

func (s *stubAggregates) CountUsers(context.Context) (int64, error) {
	if s.failUsers {
		return 0, errors.New("boom")
	}
	return 3, nil
}

func (s *stubAggregates) CountActiveSessions(_ context.Context, now time.Time) (int64, error) {
	if now.IsZero() {
		return 0, errors.New("zero clock")
	}
	return 2, nil
}

func (s *stubAggregates) CountByType(_ context.Context, limit int) ([]CountBucket, error) {
	buckets := []CountBucket{{Label: "fertilizer", Count: 20}, {Label: "pesticide", Count: 12}}
	if limit < len(buckets) {
		buckets = buckets[:limit]
	}
	return buckets, nil
}

func (s *stubAggregates) CountByCrop(_ context.Context, limit int) ([]CountBucket, error) {
	return []CountBucket{{Label: "Wheat", Count: 18}}, nil
}

type stubUploadLister struct {
	gotLimit int
}

func (s *stubUploadLister) List(_ context.Context, page pagination.Params) ([]uploads.HistoryDTO, int64, error) {
	s.gotLimit = page.Limit
	return []uploads.HistoryDTO{{Filename: "catalog.csv"}}, 1, nil
}

type stubAuditLister struct {
	gotLimit int
}

func (s *stubAuditLister) List(_ context.Context, _ audit.ListFilters, page pagination.Params) ([]audit.LogDTO, int64, error) {
	s.gotLimit = page.Limit
	return []audit.LogDTO{{Action: "LOGIN"}}, 1, nil
}

func TestOverviewAssemblesAllSections(t *testing.T) {
	uploadsStub := &stubUploadLister{}
	auditStub := &stubAuditLister{}
	svc, err := NewService(ServiceParams{
		Repo:    &stubAggregates{},
		Uploads: uploadsStub,
		Audits:  auditStub,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.TotalProducts != 42 || overview.ActiveProducts != 40 || overview.TotalViews != 1234 {
		t.Errorf("product counts = %d/%d/%d", overview.TotalProducts, overview.ActiveProducts, overview.TotalViews)
	}
	if overview.TotalUsers != 3 || overview.ActiveSessions != 2 {
		t.Errorf("users/sessions = %d/%d", overview.TotalUsers, overview.ActiveSessions)
	}
	if len(overview.ProductsByType) != 2 || overview.ProductsByType[0].Label != "fertilizer" {
		t.Errorf("by type = %v", overview.ProductsByType)
	}
	if len(overview.ProductsByCrop) != 1 {
		t.Errorf("by crop = %v", overview.ProductsByCrop)
	}
	if len(overview.RecentUploads) != 1 || len(overview.RecentActivity) != 1 {
		t.Error("recent sections missing")
	}
	if uploadsStub.gotLimit != recentLimit || auditStub.gotLimit != recentLimit {
		t.Errorf("recent limits = %d/%d, want %d", uploadsStub.gotLimit, auditStub.gotLimit, recentLimit)
	}
}

func TestOverviewPropagatesRepoFailure(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Repo:    &stubAggregates{failUsers: true},
		Uploads: &stubUploadLister{},
		Audits:  &stubAuditLister{},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.Overview(context.Background()); err == nil {
		t.Fatal("expected failure to propagate")
	}
}
