package controllers

import (
	"net/http"

	"github.com/pudimaria/storefront-backend/api/middleware"
	"github.com/pudimaria/storefront-backend/api/responses"
	"github.com/pudimaria/storefront-backend/internal/storefront"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
)

// Checkout assembles the WhatsApp hand-off for the session's cart: the
// order message and the wa.me link that opens the conversation with the
// store. Nothing is persisted and stock is not touched.
func Checkout(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		order, err := svc.Checkout(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
