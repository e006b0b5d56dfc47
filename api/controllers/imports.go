package controllers

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub-backend/api/responses"
	"github.com/agrihub/agrihub-backend/api/validators"
	"github.com/agrihub/agrihub-backend/internal/importer"
	"github.com/agrihub/agrihub-backend/internal/uploads"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/db"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"github.com/google/uuid"
)

type historyLister interface {
	List(ctx context.Context, page pagination.Params) ([]uploads.HistoryDTO, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.UploadHistory, error)
}

// ProductsImport accepts a CSV or XLSX upload and imports it row by row.
// The response reports per-row failures; the error list is capped to keep
// the payload bounded while the stored history keeps everything.
func ProductsImport(engine *importer.Engine, cfg config.ImportConfig, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.MaxUploadMB) << 20
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large or malformed"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing file field"))
			return
		}
		defer file.Close()

		meta := clientMeta(r)
		result, err := engine.Import(r.Context(), importer.Actor{
			UserID:    identity.UserID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if limit := cfg.ResponseErrorCap; limit > 0 && len(result.Errors) > limit {
			result.Errors = result.Errors[:limit]
		}
		responses.WriteSuccess(w, result)
	}
}

// UploadsList serves the import run history, newest first.
func UploadsList(repo historyLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, total, err := repo.List(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list uploads"))
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, Meta: pagination.NewMeta(page.Normalize(), total)})
	}
}

// UploadGet serves one import run including its full error log.
func UploadGet(repo historyLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "uploadId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := repo.FindByID(r.Context(), id)
		if err != nil {
			if db.IsNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "upload not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load upload"))
			return
		}
		responses.WriteSuccess(w, uploads.FromModel(history, nil))
	}
}
