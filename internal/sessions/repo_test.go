package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func seedSession(t *testing.T, repo *Repository, userID uuid.UUID, hash string, expiresAt time.Time) *models.Session {
	t.Helper()
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func TestFindActiveRequiresMatchingHash(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	session := seedSession(t, repo, uuid.New(), "hash-a", now.Add(time.Hour))

	got, err := repo.FindActive(ctx, session.ID, "hash-a", now)
	if err != nil {
		t.Fatalf("expected active session, got %v", err)
	}
	if got.ID != session.ID {
		t.Fatalf("expected session %s, got %s", session.ID, got.ID)
	}

	if _, err := repo.FindActive(ctx, session.ID, "hash-b", now); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected not found for wrong hash, got %v", err)
	}
}

func TestFindActiveRejectsExpired(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	session := seedSession(t, repo, uuid.New(), "hash", now.Add(-time.Minute))
	if _, err := repo.FindActive(ctx, session.ID, "hash", now); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected not found for expired session, got %v", err)
	}
}

func TestDeleteRevokesSingleSession(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	userID := uuid.New()

	first := seedSession(t, repo, userID, "hash-1", now.Add(time.Hour))
	second := seedSession(t, repo, userID, "hash-2", now.Add(time.Hour))

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := repo.FindActive(ctx, first.ID, "hash-1", now); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected revoked session to be gone, got %v", err)
	}
	if _, err := repo.FindActive(ctx, second.ID, "hash-2", now); err != nil {
		t.Fatalf("other session should survive, got %v", err)
	}
}

func TestDeleteByUserCascades(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	userID := uuid.New()

	seedSession(t, repo, userID, "hash-1", now.Add(time.Hour))
	seedSession(t, repo, userID, "hash-2", now.Add(time.Hour))
	other := seedSession(t, repo, uuid.New(), "hash-3", now.Add(time.Hour))

	removed, err := repo.DeleteByUser(ctx, userID)
	if err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 sessions removed, got %d", removed)
	}
	if _, err := repo.FindActive(ctx, other.ID, "hash-3", now); err != nil {
		t.Fatalf("unrelated user's session should survive, got %v", err)
	}
}

func TestDeleteExpiredSweepsOnlyStaleRows(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	seedSession(t, repo, uuid.New(), "stale-1", now.Add(-time.Hour))
	seedSession(t, repo, uuid.New(), "stale-2", now.Add(-time.Minute))
	live := seedSession(t, repo, uuid.New(), "live", now.Add(time.Hour))

	removed, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 stale sessions removed, got %d", removed)
	}
	if _, err := repo.FindActive(ctx, live.ID, "live", now); err != nil {
		t.Fatalf("live session should survive the sweep, got %v", err)
	}
}
