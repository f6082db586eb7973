package controllers

import (
	"net/http"
	"strings"

	"github.com/dmorales-dev/tradeflow-backend/api/responses"
	"github.com/dmorales-dev/tradeflow-backend/api/validators"
	"github.com/dmorales-dev/tradeflow-backend/internal/jobs"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
)

type updateJobStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// JobCreate builds a priced job draft. Totals are recomputed server-side;
// client-reported figures in the payload are verified, never trusted.
func JobCreate(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload jobs.UpsertJobInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		job, err := svc.Create(ctx, contractorID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, job)
	}
}

// JobList returns the contractor's jobs, optionally filtered by status.
func JobList(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var status *enums.JobStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseJobStatus(raw)
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

// JobFetch returns one job with its line items and totals.
func JobFetch(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		jobID, err := validators.ParseURLUUID(r, "jobId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		job, err := svc.Get(ctx, contractorID, jobID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

// JobUpdate replaces a draft or sent job's line items and reprices it.
func JobUpdate(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		jobID, err := validators.ParseURLUUID(r, "jobId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload jobs.UpsertJobInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		job, err := svc.Update(ctx, contractorID, jobID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

// JobUpdateStatus drives the quote lifecycle (draft, sent, approved, declined).
func JobUpdateStatus(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		jobID, err := validators.ParseURLUUID(r, "jobId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateJobStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseJobStatus(payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid job status"))
			return
		}

		job, err := svc.UpdateStatus(ctx, contractorID, jobID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

// JobPreviewTotals prices a payload without persisting anything. The editing
// UI calls this on every change for a server-authoritative recompute.
func JobPreviewTotals(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload jobs.UpsertJobInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		totals, items, err := svc.PreviewTotals(ctx, contractorID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"totals": totals,
			"items":  items,
		})
	}
}
