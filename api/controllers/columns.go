package controllers

import (
	"net/http"

	"github.com/agrihub/agrihub-backend/api/responses"
	"github.com/agrihub/agrihub-backend/api/validators"
	columnsvc "github.com/agrihub/agrihub-backend/internal/columns"
	"github.com/agrihub/agrihub-backend/pkg/logger"
)

// ColumnsList serves the custom column definitions in display order.
func ColumnsList(svc columnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		columns, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, columns)
	}
}

// ColumnCreate defines a new custom product column.
func ColumnCreate(svc columnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload columnsvc.CreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := clientMeta(r)
		column, err := svc.Create(r.Context(), columnsvc.Actor{
			UserID:    identity.UserID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, column)
	}
}

// ColumnUpdate mutates a column definition. The machine name is immutable.
func ColumnUpdate(svc columnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "columnId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload columnsvc.UpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := clientMeta(r)
		column, err := svc.Update(r.Context(), columnsvc.Actor{
			UserID:    identity.UserID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}, id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, column)
	}
}

// ColumnDelete removes a column definition. Values already stored under the
// column's key remain in product custom_fields.
func ColumnDelete(svc columnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "columnId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := clientMeta(r)
		if err := svc.Delete(r.Context(), columnsvc.Actor{
			UserID:    identity.UserID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
