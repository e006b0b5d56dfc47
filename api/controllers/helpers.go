package controllers

import (
	"net"
	"net/http"
	"strings"

	"github.com/agrihub/agrihub-backend/api/middleware"
	"github.com/agrihub/agrihub-backend/internal/auth"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// requireIdentity pulls the validated caller out of the request context.
// Routes behind the auth middleware always have one; a nil result means the
// route was wired without it.
func requireIdentity(r *http.Request) (*auth.Identity, error) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return identity, nil
}

// clientMeta captures the caller's address and agent for session rows and
// audit entries.
func clientMeta(r *http.Request) auth.ClientMeta {
	meta := auth.ClientMeta{}
	if ip := requestIP(r); ip != "" {
		meta.IPAddress = &ip
	}
	if ua := strings.TrimSpace(r.UserAgent()); ua != "" {
		meta.UserAgent = &ua
	}
	return meta
}

func requestIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").WithDetails(map[string]any{"param": name})
	}
	return id, nil
}
