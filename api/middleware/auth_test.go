package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrihub/agrihub-backend/internal/auth"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	validToken string
	identity   *auth.Identity
}

func (s *stubAuthService) Login(context.Context, auth.LoginRequest, auth.ClientMeta) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAuthService) Validate(_ context.Context, token string) (*auth.Identity, error) {
	if token != s.validToken {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}
	return s.identity, nil
}

func (s *stubAuthService) Logout(context.Context, auth.Identity, auth.ClientMeta) error {
	return nil
}

func (s *stubAuthService) ChangePassword(context.Context, auth.Identity, auth.ChangePasswordRequest, auth.ClientMeta) error {
	return nil
}

func newAuthFixture() (*stubAuthService, http.Handler, *auth.Identity) {
	identity := &auth.Identity{
		UserID:    uuid.New(),
		Email:     "admin@agrihub.test",
		Role:      enums.RoleAdmin,
		SessionID: uuid.New(),
	}
	svc := &stubAuthService{validToken: "good-token", identity: identity}
	handler := Auth(svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	return svc, handler, identity
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	svc, _, want := newAuthFixture()

	var got *auth.Identity
	handler := Auth(svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good-token"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if got == nil || got.UserID != want.UserID {
		t.Fatal("identity not seeded into context")
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	_, handler, _ := newAuthFixture()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	_, handler, _ := newAuthFixture()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	_, handler, _ := newAuthFixture()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireRoleGatesByRole(t *testing.T) {
	identity := &auth.Identity{UserID: uuid.New(), Role: enums.RoleViewer}
	handler := RequireRole(nil, enums.RoleSuperAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithIdentity(r.Context(), identity))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("viewer status = %d, want 403", w.Code)
	}

	identity.Role = enums.RoleSuperAdmin
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("super_admin status = %d, want 204", w.Code)
	}
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	handler := RequireRole(nil, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
