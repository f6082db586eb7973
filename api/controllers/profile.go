package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/api/middleware"
	"github.com/dmorales-dev/tradeflow-backend/api/responses"
	"github.com/dmorales-dev/tradeflow-backend/api/validators"
	"github.com/dmorales-dev/tradeflow-backend/internal/contractors"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
)

type createProfilePayload struct {
	BusinessName   string   `json:"business_name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          *string  `json:"phone"`
	DefaultTaxRate *float64 `json:"default_sales_tax_rate"`
	DefaultTaxMode *string  `json:"default_tax_mode"`
}

type updateProfilePayload struct {
	BusinessName   *string  `json:"business_name"`
	Phone          *string  `json:"phone"`
	DefaultTaxRate *float64 `json:"default_sales_tax_rate"`
	DefaultTaxMode *string  `json:"default_tax_mode"`
}

// ProfileCreate registers a contractor profile. This is the onboarding
// endpoint the gateway calls before any contractor-scoped route works.
func ProfileCreate(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contractor service unavailable"))
			return
		}

		var payload createProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := svc.CreateProfile(ctx, contractors.CreateProfileInput{
			BusinessName:   payload.BusinessName,
			Email:          payload.Email,
			Phone:          payload.Phone,
			DefaultTaxRate: payload.DefaultTaxRate,
			DefaultTaxMode: payload.DefaultTaxMode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// ProfileFetch returns the acting contractor's profile.
func ProfileFetch(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contractor service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := svc.GetProfile(ctx, contractorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ProfileUpdate applies partial updates to the acting contractor's profile.
func ProfileUpdate(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contractor service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(ctx, contractorID, contractors.UpdateProfileInput{
			BusinessName:   payload.BusinessName,
			Phone:          payload.Phone,
			DefaultTaxRate: payload.DefaultTaxRate,
			DefaultTaxMode: payload.DefaultTaxMode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// contractorIDFromRequest reads the contractor set by ContractorContext.
func contractorIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ContractorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contractor id")
	}
	return id, nil
}
