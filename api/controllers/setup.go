package controllers

import (
	"net/http"

	"github.com/luisaguirre/cartquotes-backend/api/responses"
	"github.com/luisaguirre/cartquotes-backend/internal/setup"
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/logger"
)

// SetupConfig runs the setup guard and returns the store's quote settings.
func SetupConfig(svc setup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "setup service unavailable"))
			return
		}

		settings, err := svc.GetSetupConfig(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, settings)
	}
}
