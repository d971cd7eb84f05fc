package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/api/middleware"
	"github.com/pudimaria/storefront-backend/api/responses"
	"github.com/pudimaria/storefront-backend/api/validators"
	"github.com/pudimaria/storefront-backend/internal/storefront"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
)

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type cartUpdateRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity"`
}

func parseItemKey(rawProductID, rawSize string) (uuid.UUID, enums.Size, error) {
	productID, err := uuid.Parse(rawProductID)
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	size, err := enums.ParseSize(rawSize)
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeValidation, "unknown size")
	}
	return productID, size, nil
}

// CartFetch serves the session's cart.
func CartFetch(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		view, err := svc.ViewCart(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds a validated (product, size, quantity) to the cart. Asking
// beyond available-to-promise is rejected whole with the remaining quantity.
func CartAddItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, size, err := parseItemKey(payload.ProductID, payload.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddItem(r.Context(), middleware.CartSessionFromContext(r.Context()), storefront.AddItemInput{
			ProductID: productID,
			Size:      size,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartUpdateItem replaces the quantity of a cart line; zero removes it.
func CartUpdateItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		var payload cartUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, size, err := parseItemKey(payload.ProductID, payload.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateItem(r.Context(), middleware.CartSessionFromContext(r.Context()), storefront.UpdateItemInput{
			ProductID: productID,
			Size:      size,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem drops one (product, size) line from the cart.
func CartRemoveItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
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
		size, err := validators.ParseSizeParam(r, "size")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveItem(r.Context(), middleware.CartSessionFromContext(r.Context()), productID, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the session's cart.
func CartClear(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		view, err := svc.ClearCart(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartToggle flips the cart panel open state.
func CartToggle(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		view, err := svc.TogglePanel(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
