package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/agrihub/agrihub-backend/api/middleware"
	"github.com/agrihub/agrihub-backend/api/responses"
	"github.com/agrihub/agrihub-backend/api/validators"
	"github.com/agrihub/agrihub-backend/internal/auth"
	"github.com/agrihub/agrihub-backend/internal/users"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/google/uuid"
)

type userFetcher interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthLogin authenticates an admin and sets the session cookie. The token is
// also returned in the body for non-browser clients.
func AuthLogin(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload, clientMeta(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setAuthCookie(w, cfg, resp.Token, resp.ExpiresAt)
		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the presented session and clears the cookie.
func AuthLogout(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), *identity, clientMeta(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearAuthCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthMe returns the authenticated account.
func AuthMe(repo userFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := repo.FindByID(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account"))
			return
		}

		responses.WriteSuccess(w, users.FromModel(user))
	}
}

// AuthChangePassword rotates the caller's credential. Every session is
// revoked afterwards, including the one that made this request.
func AuthChangePassword(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload auth.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), *identity, payload, clientMeta(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearAuthCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "password_changed"})
	}
}

func setAuthCookie(w http.ResponseWriter, cfg *config.Config, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.App.CookieDomain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.App.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.App.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.App.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
