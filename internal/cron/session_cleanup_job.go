package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/agrihub/agrihub-backend/pkg/logger"
)

type sessionSweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionCleanupJobParams configure the session sweep.
type SessionCleanupJobParams struct {
	Logger   *logger.Logger
	Sessions sessionSweeper
}

// NewSessionCleanupJob builds the job that deletes expired session rows.
// Expired sessions are already rejected at validation time; the sweep keeps
// the table from growing without bound.
func NewSessionCleanupJob(params SessionCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	return &sessionCleanupJob{
		logg:     params.Logger,
		sessions: params.Sessions,
		now:      time.Now,
	}, nil
}

type sessionCleanupJob struct {
	logg     *logger.Logger
	sessions sessionSweeper
	now      func() time.Time
}

func (j *sessionCleanupJob) Name() string { return "session-cleanup" }

func (j *sessionCleanupJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	deleted, err := j.sessions.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("session cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       now,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "session cleanup complete")
	return nil
}
