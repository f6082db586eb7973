package controllers

import (
	"net/http"

	"github.com/dmorales-dev/tradeflow-backend/api/responses"
	"github.com/dmorales-dev/tradeflow-backend/api/validators"
	"github.com/dmorales-dev/tradeflow-backend/internal/materials"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
)

// MaterialsSuggest turns a free-form project description into normalized,
// priced line-item suggestions via the external parsing service.
func MaterialsSuggest(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "materials service not configured"))
			return
		}

		var payload materials.GenerateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := svc.SuggestLineItems(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// MaterialsSearch queries the supplier catalog for priced materials.
func MaterialsSearch(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "materials service not configured"))
			return
		}

		var payload materials.SearchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		results, err := svc.Search(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}
