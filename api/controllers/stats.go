package controllers

import (
	"net/http"

	"github.com/agrihub/agrihub-backend/api/responses"
	statsvc "github.com/agrihub/agrihub-backend/internal/stats"
	"github.com/agrihub/agrihub-backend/pkg/logger"
)

// StatsOverview serves the admin dashboard aggregates.
func StatsOverview(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
