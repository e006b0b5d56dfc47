package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrihub/agrihub-backend/api/middleware"
	"github.com/agrihub/agrihub-backend/internal/auth"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	loginResp   *auth.LoginResponse
	loginErr    error
	logoutCalls int
	lastLogout  auth.Identity
}

func (s *stubAuthService) Login(context.Context, auth.LoginRequest, auth.ClientMeta) (*auth.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Validate(context.Context, string) (*auth.Identity, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
}

func (s *stubAuthService) Logout(_ context.Context, identity auth.Identity, _ auth.ClientMeta) error {
	s.logoutCalls++
	s.lastLogout = identity
	return nil
}

func (s *stubAuthService) ChangePassword(context.Context, auth.Identity, auth.ChangePasswordRequest, auth.ClientMeta) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestAuthLoginSetsSessionCookie(t *testing.T) {
	svc := &stubAuthService{loginResp: &auth.LoginResponse{
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}}

	body := strings.NewReader(`{"email":"admin@agrihub.test","password":"secret123"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	AuthLogin(svc, testConfig(), nil).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	cookie := findCookie(t, w, middleware.AuthCookieName)
	if cookie.Value != "signed-token" {
		t.Fatalf("cookie value = %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatal("cookie must be HttpOnly")
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestAuthLoginRejectsMalformedPayload(t *testing.T) {
	svc := &stubAuthService{}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"nope"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	AuthLogin(svc, testConfig(), nil).ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAuthLogoutRevokesAndClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	identity := &auth.Identity{
		UserID:    uuid.New(),
		Email:     "admin@agrihub.test",
		Role:      enums.RoleAdmin,
		SessionID: uuid.New(),
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	r = r.WithContext(middleware.WithIdentity(r.Context(), identity))
	w := httptest.NewRecorder()
	AuthLogout(svc, testConfig(), nil).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.logoutCalls != 1 || svc.lastLogout.SessionID != identity.SessionID {
		t.Fatal("logout did not reach the service with the caller's session")
	}
	cookie := findCookie(t, w, middleware.AuthCookieName)
	if cookie.MaxAge != -1 {
		t.Fatalf("cookie MaxAge = %d, want -1", cookie.MaxAge)
	}
}

func TestAuthLogoutRequiresIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	AuthLogout(&stubAuthService{}, testConfig(), nil).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
