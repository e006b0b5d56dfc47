package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/internal/users"
	pkgAuth "github.com/agrihub/agrihub-backend/pkg/auth"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/metrics"
	"github.com/agrihub/agrihub-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// invalidCredentialsMessage is shared by every failed login path so the
// response never reveals whether the email exists.
const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller and middleware.
type Service interface {
	Login(ctx context.Context, req LoginRequest, meta ClientMeta) (*LoginResponse, error)
	Validate(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, identity Identity, meta ClientMeta) error
	ChangePassword(ctx context.Context, identity Identity, req ChangePasswordRequest, meta ClientMeta) error
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindActive(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	users    userRepository
	sessions sessionRepository
	audit    audit.Recorder
	metrics  *metrics.AuthMetrics
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo    userRepository
	SessionRepo sessionRepository
	Audit       audit.Recorder
	Metrics     *metrics.AuthMetrics
	JWTConfig   config.JWTConfig
	Now         func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionRepo == nil {
		return nil, fmt.Errorf("session repository is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:    params.UserRepo,
		sessions: params.SessionRepo,
		audit:    params.Audit,
		metrics:  params.Metrics,
		jwtCfg:   params.JWTConfig,
		now:      now,
	}, nil
}

// Login authenticates the credentials, mints a signed token, and binds it to
// a fresh session row. Each login creates its own session so a user may stay
// signed in from several devices at once.
func (s *service) Login(ctx context.Context, req LoginRequest, meta ClientMeta) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.IncLogin("invalid_credentials")
		return nil, err
	}

	now := s.now()
	sessionID := uuid.New()
	token, err := pkgAuth.MintSessionToken(s.jwtCfg, now, pkgAuth.SessionTokenPayload{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: sessionID,
	})
	if err != nil {
		s.metrics.IncLogin("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	expiresAt := now.Add(s.jwtCfg.SessionTTL())
	session := &models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: security.HashToken(token),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.metrics.IncLogin("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.metrics.IncLogin("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     enums.AuditActionLogin,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	s.metrics.IncLogin("success")

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      users.FromModel(user),
	}, nil
}

// Validate checks the token signature first, then requires a live session row
// matching both the embedded session id and the token's hash. A valid
// signature alone is never enough: logout or password change deletes the row
// and every copy of the token dies with it.
func (s *service) Validate(ctx context.Context, token string) (*Identity, error) {
	claims, err := pkgAuth.ParseSessionToken(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired session")
	}

	now := s.now()
	if _, err := s.sessions.FindActive(ctx, claims.SessionID, security.HashToken(token), now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired session")
	}

	// Role comes from the database, not the token, so a role change takes
	// effect without waiting for re-login.
	return &Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: claims.SessionID,
	}, nil
}

// Logout deletes the caller's session row. Only the presented session dies;
// the user's other devices stay signed in.
func (s *service) Logout(ctx context.Context, identity Identity, meta ClientMeta) error {
	if err := s.sessions.Delete(ctx, identity.SessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete session")
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:     &identity.UserID,
		Action:     enums.AuditActionLogout,
		EntityType: "user",
		EntityID:   &identity.UserID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	s.metrics.IncLogout()
	return nil
}

// ChangePassword verifies the current credential, stores the new hash, and
// revokes every session the user holds, including the one making the call.
func (s *service) ChangePassword(ctx context.Context, identity Identity, req ChangePasswordRequest, meta ClientMeta) error {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	if _, err := s.sessions.DeleteByUser(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke sessions")
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     enums.AuditActionPasswordChange,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
