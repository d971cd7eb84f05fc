package controllers

import (
	"net/http"

	"github.com/pudimaria/storefront-backend/api/middleware"
	"github.com/pudimaria/storefront-backend/api/responses"
	"github.com/pudimaria/storefront-backend/api/validators"
	authsvc "github.com/pudimaria/storefront-backend/internal/auth"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
)

// AdminAuthLogin authenticates an admin and returns a session-backed token.
func AdminAuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminAuthLogout revokes the caller's session.
func AdminAuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
