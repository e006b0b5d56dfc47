package sessions

import (
	"context"
	"time"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes session persistence. Session rows are the source of
// truth for credential validity; a signed token without a matching row is
// dead.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sessions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new session row.
func (r *Repository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindActive loads the session matching id and token hash, rejecting rows
// that have already expired. Both the id and the hash must match so a token
// from one session cannot ride on another session's row.
func (r *Repository) FindActive(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND token_hash = ? AND expires_at > ?", id, tokenHash, now).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a single session row, revoking the bound token.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

// DeleteByUser removes every session belonging to the user. Used when a
// password changes or an account is deactivated.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Session{}, "user_id = ?", userID)
	return res.RowsAffected, res.Error
}

// DeleteExpired sweeps rows whose expiry has passed and reports how many
// were removed.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Session{}, "expires_at <= ?", now)
	return res.RowsAffected, res.Error
}

// CountActiveByUser reports the user's live sessions.
func (r *Repository) CountActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Count(&count).Error
	return count, err
}
