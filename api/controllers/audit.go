package controllers

import (
	"net/http"
	"strings"

	"github.com/agrihub/agrihub-backend/api/responses"
	"github.com/agrihub/agrihub-backend/api/validators"
	"github.com/agrihub/agrihub-backend/internal/audit"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/google/uuid"
)

// AuditList serves the audit trail, newest first, with optional user and
// action filters.
func AuditList(svc *audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := audit.ListFilters{
			Action:     strings.TrimSpace(r.URL.Query().Get("action")),
			EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id filter"))
				return
			}
			filters.UserID = &id
		}

		items, meta, err := svc.List(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list audit logs"))
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, Meta: meta})
	}
}
