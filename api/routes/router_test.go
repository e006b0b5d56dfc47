package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrihub/agrihub-backend/internal/auth"
	productsvc "github.com/agrihub/agrihub-backend/internal/products"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"github.com/google/uuid"
)

type routeAuthStub struct {
	identity *auth.Identity
}

func (s *routeAuthStub) Login(context.Context, auth.LoginRequest, auth.ClientMeta) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (s *routeAuthStub) Validate(_ context.Context, token string) (*auth.Identity, error) {
	if token != "session-token" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}
	return s.identity, nil
}

func (s *routeAuthStub) Logout(context.Context, auth.Identity, auth.ClientMeta) error {
	return nil
}

func (s *routeAuthStub) ChangePassword(context.Context, auth.Identity, auth.ChangePasswordRequest, auth.ClientMeta) error {
	return nil
}

type routeProductsStub struct{}

func (routeProductsStub) List(_ context.Context, _ productsvc.ListFilters, page pagination.Params) ([]productsvc.ProductDTO, pagination.Meta, error) {
	return nil, pagination.NewMeta(page.Normalize(), 0), nil
}

func (routeProductsStub) Facets(context.Context) (*productsvc.Facets, error) {
	return &productsvc.Facets{}, nil
}

func (routeProductsStub) Get(context.Context, uuid.UUID, bool) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (routeProductsStub) Create(context.Context, productsvc.Actor, productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (routeProductsStub) Update(context.Context, productsvc.Actor, uuid.UUID, productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (routeProductsStub) Delete(context.Context, productsvc.Actor, uuid.UUID) error {
	return nil
}

func newTestRouter(role enums.Role) http.Handler {
	return NewRouter(RouterParams{
		Config: &config.Config{},
		Auth: &routeAuthStub{identity: &auth.Identity{
			UserID:    uuid.New(),
			Email:     "admin@agrihub.test",
			Role:      role,
			SessionID: uuid.New(),
		}},
		Products: routeProductsStub{},
	})
}

func TestRouterServesPublicCatalog(t *testing.T) {
	router := newTestRouter(enums.RoleViewer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRouterGatesAdminSurfaceBehindAuth(t *testing.T) {
	router := newTestRouter(enums.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
	r.Header.Set("Authorization", "Bearer session-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("authed status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRouterBlocksViewerFromCatalogWrites(t *testing.T) {
	router := newTestRouter(enums.RoleViewer)

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/"+uuid.NewString(), nil)
	r.Header.Set("Authorization", "Bearer session-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(enums.RoleViewer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
