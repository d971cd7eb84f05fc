package controllers

import (
	"net/http"

	"github.com/pudimaria/storefront-backend/api/middleware"
	"github.com/pudimaria/storefront-backend/api/responses"
	"github.com/pudimaria/storefront-backend/api/validators"
	"github.com/pudimaria/storefront-backend/internal/catalog"
	"github.com/pudimaria/storefront-backend/internal/storefront"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
)

// CatalogList serves the storefront product grid with search and filter.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter, err := catalog.ParseFilter(r.URL.Query().Get("filter"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListProducts(r.Context(), catalog.ListInput{
			Search: r.URL.Query().Get("search"),
			Filter: filter,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// CatalogDetail serves one product with its per-size offers.
func CatalogDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CatalogAvailability serves the session-aware size selector data: per-size
// available-to-promise with the caller's own cart already subtracted.
func CatalogAvailability(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Availability(r.Context(), middleware.CartSessionFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
