package validators

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
)

// ParseUUIDParam reads a UUID path parameter.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

// ParseSizeParam reads a jar size path parameter.
func ParseSizeParam(r *http.Request, name string) (enums.Size, error) {
	size, err := enums.ParseSize(chi.URLParam(r, name))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown size").
			WithDetails(map[string]any{"field": name})
	}
	return size, nil
}
