package controllers

import (
	"net/http"
	"strings"

	"github.com/agrihub/agrihub-backend/api/responses"
	"github.com/agrihub/agrihub-backend/api/validators"
	productsvc "github.com/agrihub/agrihub-backend/internal/products"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
)

type listEnvelope struct {
	Items any             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// ProductsList serves the catalog listing. The public surface only ever sees
// active products; the admin surface may filter on is_active explicitly.
func ProductsList(svc productsvc.Service, logg *logger.Logger, adminView bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, page, err := parseProductQuery(r, adminView)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.List(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, Meta: meta})
	}
}

// ProductsFacets serves the distinct filter values for the catalog UI.
func ProductsFacets(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facets, err := svc.Facets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, facets)
	}
}

// ProductGet serves one listing. The public detail view counts as a view;
// admin reads do not inflate the counter.
func ProductGet(svc productsvc.Service, logg *logger.Logger, countView bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id, countView)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCreate adds a listing to the catalog.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input productsvc.ProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := clientMeta(r)
		product, err := svc.Create(r.Context(), productsvc.Actor{
			UserID:    identity.UserID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate mutates the provided fields of one listing.
func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input productsvc.ProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := clientMeta(r)
		product, err := svc.Update(r.Context(), productsvc.Actor{
			UserID:    identity.UserID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes one listing.
func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := clientMeta(r)
		if err := svc.Delete(r.Context(), productsvc.Actor{
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

func parseProductQuery(r *http.Request, adminView bool) (productsvc.ListFilters, pagination.Params, error) {
	page, err := validators.ParsePagination(r)
	if err != nil {
		return productsvc.ListFilters{}, pagination.Params{}, err
	}

	q := r.URL.Query()
	filters := productsvc.ListFilters{
		Query:       strings.TrimSpace(q.Get("q")),
		CompanyName: strings.TrimSpace(q.Get("company")),
		ProductType: strings.TrimSpace(q.Get("type")),
		Season:      strings.TrimSpace(q.Get("season")),
		Crop:        strings.TrimSpace(q.Get("crop")),
		State:       strings.TrimSpace(q.Get("state")),
	}

	if filters.OrganicOnly, err = validators.ParseQueryBool(r, "organic"); err != nil {
		return productsvc.ListFilters{}, pagination.Params{}, err
	}
	if filters.GovtApproved, err = validators.ParseQueryBool(r, "govt_approved"); err != nil {
		return productsvc.ListFilters{}, pagination.Params{}, err
	}

	filters.SortBy = strings.TrimSpace(q.Get("sort"))
	switch order := strings.ToLower(strings.TrimSpace(q.Get("order"))); order {
	case "", "desc":
	case "asc":
		filters.SortAsc = true
	default:
		return productsvc.ListFilters{}, pagination.Params{},
			pkgerrors.New(pkgerrors.CodeValidation, "order must be asc or desc")
	}

	if adminView {
		if filters.IsActive, err = validators.ParseQueryBool(r, "is_active"); err != nil {
			return productsvc.ListFilters{}, pagination.Params{}, err
		}
	} else {
		active := true
		filters.IsActive = &active
	}
	return filters, page, nil
}
