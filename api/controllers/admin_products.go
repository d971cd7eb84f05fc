package controllers

import (
	"net/http"

	"github.com/pudimaria/storefront-backend/api/responses"
	"github.com/pudimaria/storefront-backend/api/validators"
	"github.com/pudimaria/storefront-backend/internal/catalog"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type inventoryEntryRequest struct {
	Size              string          `json:"size" validate:"required"`
	AvailableQuantity int             `json:"available_quantity" validate:"min=0"`
	Price             decimal.Decimal `json:"price" validate:"required"`
}

type createProductRequest struct {
	Name        string                  `json:"name" validate:"required,max=200"`
	Description string                  `json:"description" validate:"max=2000"`
	Image       string                  `json:"image" validate:"omitempty,url"`
	Featured    bool                    `json:"featured"`
	IsNew       bool                    `json:"is_new"`
	Inventory   []inventoryEntryRequest `json:"inventory" validate:"required,min=1,dive"`
}

type updateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image" validate:"omitempty,url"`
	Featured    *bool   `json:"featured"`
	IsNew       *bool   `json:"is_new"`
}

type setInventoryRequest struct {
	Inventory []inventoryEntryRequest `json:"inventory" validate:"required,dive"`
}

// toInventoryInputs maps raw entries without size validation; the catalog
// service validates sizes so unknown values surface in its aggregated report.
func toInventoryInputs(entries []inventoryEntryRequest) []catalog.InventoryInput {
	inputs := make([]catalog.InventoryInput, 0, len(entries))
	for _, entry := range entries {
		inputs = append(inputs, catalog.InventoryInput{
			Size:              enums.Size(entry.Size),
			AvailableQuantity: entry.AvailableQuantity,
			Price:             entry.Price,
		})
	}
	return inputs
}

// AdminListProducts serves the full catalog for the admin panel, search and
// filter included.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

// AdminCreateProduct creates a product with its initial per-size inventory.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Image:       payload.Image,
			Featured:    payload.Featured,
			IsNew:       payload.IsNew,
			Inventory:   toInventoryInputs(payload.Inventory),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AdminUpdateProduct applies a partial update to product fields. Inventory is
// managed through AdminSetInventory.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Image:       payload.Image,
			Featured:    payload.Featured,
			IsNew:       payload.IsNew,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminDeleteProduct removes a product and its inventory rows.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminSetInventory replaces a product's per-size stock: listed sizes are
// upserted, unlisted sizes are removed.
func AdminSetInventory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload setInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetInventory(r.Context(), productID, toInventoryInputs(payload.Inventory))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminStats serves the dashboard summary counters.
func AdminStats(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
