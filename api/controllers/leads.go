package controllers

import (
	"net/http"
	"strings"

	"github.com/dmorales-dev/tradeflow-backend/api/responses"
	"github.com/dmorales-dev/tradeflow-backend/api/validators"
	"github.com/dmorales-dev/tradeflow-backend/internal/leads"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
)

type updateLeadStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// LeadCreate records an intake lead from the form or the conversational
// assistant handoff.
func LeadCreate(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload leads.CreateLeadInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lead, err := svc.Create(ctx, contractorID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lead)
	}
}

// LeadList returns the contractor's leads, optionally filtered by status.
func LeadList(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var status *enums.LeadStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseLeadStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		list, err := svc.List(ctx, contractorID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// LeadFetch returns one lead by id.
func LeadFetch(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		leadID, err := validators.ParseURLUUID(r, "leadId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lead, err := svc.Get(ctx, contractorID, leadID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

// LeadUpdateStatus moves a lead through the intake funnel. Conversion is a
// separate endpoint so it can create the client record atomically.
func LeadUpdateStatus(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		leadID, err := validators.ParseURLUUID(r, "leadId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateLeadStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseLeadStatus(payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead status"))
			return
		}

		lead, err := svc.UpdateStatus(ctx, contractorID, leadID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

// LeadConvert turns a lead into a client record.
func LeadConvert(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		leadID, err := validators.ParseURLUUID(r, "leadId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		client, err := svc.ConvertToClient(ctx, contractorID, leadID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, client)
	}
}
