package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrihub/agrihub-backend/api/controllers"
	"github.com/agrihub/agrihub-backend/api/middleware"
	"github.com/agrihub/agrihub-backend/internal/audit"
	authsvc "github.com/agrihub/agrihub-backend/internal/auth"
	columnsvc "github.com/agrihub/agrihub-backend/internal/columns"
	"github.com/agrihub/agrihub-backend/internal/importer"
	productsvc "github.com/agrihub/agrihub-backend/internal/products"
	statsvc "github.com/agrihub/agrihub-backend/internal/stats"
	"github.com/agrihub/agrihub-backend/internal/uploads"
	"github.com/agrihub/agrihub-backend/internal/users"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/db"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/agrihub/agrihub-backend/pkg/redis"
)

// RouterParams carries every dependency the HTTP surface needs. All fields
// are required except Redis, which only disables login rate limiting and the
// redis readiness check when absent.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Auth     authsvc.Service
	Users    users.Service
	UserRepo *users.Repository
	Products productsvc.Service
	Columns  columnsvc.Service
	Stats    statsvc.Service
	Audit    *audit.Service
	Uploads  *uploads.Repository
	Importer *importer.Engine
}

// NewRouter wires the public catalog, the auth endpoints and the role-gated
// admin surface onto one chi mux.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS(cfg.App.CORSOrigins))

	r.Get("/health/live", controllers.HealthLive(cfg))
	ready := controllers.HealthReady(cfg, logg, p.DB, nil)
	if p.Redis != nil {
		ready = controllers.HealthReady(cfg, logg, p.DB, p.Redis)
	}
	r.Get("/health/ready", ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(p.Products, logg, false))
		r.Get("/products/facets", controllers.ProductsFacets(p.Products, logg))
		r.Get("/products/{productId}", controllers.ProductGet(p.Products, logg, true))

		login := controllers.AuthLogin(p.Auth, cfg, logg)
		if p.Redis != nil {
			policy := middleware.NewAuthRateLimitPolicy(
				"login",
				cfg.AuthRateLimit.LoginWindow,
				cfg.AuthRateLimit.LoginIPLimit,
				cfg.AuthRateLimit.LoginEmailLimit,
			)
			r.With(middleware.AuthRateLimit(policy, p.Redis, logg)).Post("/auth/login", login)
		} else {
			r.Post("/auth/login", login)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(p.Auth, logg))

			r.Post("/auth/logout", controllers.AuthLogout(p.Auth, cfg, logg))
			r.Get("/auth/me", controllers.AuthMe(p.UserRepo, logg))
			r.Post("/auth/change-password", controllers.AuthChangePassword(p.Auth, cfg, logg))

			r.Route("/admin", func(r chi.Router) {
				adminRead := middleware.RequireRole(logg,
					enums.RoleSuperAdmin, enums.RoleAdmin, enums.RoleEditor, enums.RoleViewer)
				catalogWrite := middleware.RequireRole(logg, enums.RoleSuperAdmin, enums.RoleAdmin)
				superOnly := middleware.RequireRole(logg, enums.RoleSuperAdmin)

				r.With(adminRead).Get("/products", controllers.ProductsList(p.Products, logg, true))
				r.With(adminRead).Get("/products/{productId}", controllers.ProductGet(p.Products, logg, false))
				r.With(catalogWrite).Post("/products", controllers.ProductCreate(p.Products, logg))
				r.With(catalogWrite).Put("/products/{productId}", controllers.ProductUpdate(p.Products, logg))
				r.With(catalogWrite).Delete("/products/{productId}", controllers.ProductDelete(p.Products, logg))

				r.With(catalogWrite).Post("/products/import", controllers.ProductsImport(p.Importer, cfg.Import, logg))
				r.With(adminRead).Get("/uploads", controllers.UploadsList(p.Uploads, logg))
				r.With(adminRead).Get("/uploads/{uploadId}", controllers.UploadGet(p.Uploads, logg))

				r.With(adminRead).Get("/columns", controllers.ColumnsList(p.Columns, logg))
				r.With(superOnly).Post("/columns", controllers.ColumnCreate(p.Columns, logg))
				r.With(superOnly).Put("/columns/{columnId}", controllers.ColumnUpdate(p.Columns, logg))
				r.With(superOnly).Delete("/columns/{columnId}", controllers.ColumnDelete(p.Columns, logg))

				r.With(superOnly).Get("/users", controllers.UsersList(p.Users, logg))
				r.With(superOnly).Post("/users", controllers.UserCreate(p.Users, logg))
				r.With(superOnly).Put("/users/{userId}", controllers.UserUpdate(p.Users, logg))
				r.With(superOnly).Delete("/users/{userId}", controllers.UserDelete(p.Users, logg))

				r.With(adminRead).Get("/audit-logs", controllers.AuditList(p.Audit, logg))
				r.With(adminRead).Get("/stats/overview", controllers.StatsOverview(p.Stats, logg))
			})
		})
	})

	return r
}
