package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/api/responses"
	"github.com/dmorales-dev/tradeflow-backend/api/validators"
	"github.com/dmorales-dev/tradeflow-backend/internal/contractors"
	"github.com/dmorales-dev/tradeflow-backend/internal/invoices"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
)

// InvoiceCreate issues an invoice from an approved job.
func InvoiceCreate(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload invoices.CreateFromJobInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		invoice, err := svc.CreateFromJob(ctx, contractorID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// InvoiceList returns the contractor's invoices, optionally filtered by status.
func InvoiceList(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var status *enums.InvoiceStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseInvoiceStatus(raw)
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

// InvoiceFetch returns one invoice with items and payments.
func InvoiceFetch(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		invoiceID, err := validators.ParseURLUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		invoice, err := svc.Get(ctx, contractorID, invoiceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

// invoiceTransition builds a handler for one lifecycle stamp endpoint.
func invoiceTransition(
	logg *logger.Logger,
	transition func(r *http.Request) (*invoices.InvoiceDTO, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoice, err := transition(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

// InvoiceMarkSent stamps the invoice as delivered to the client.
func InvoiceMarkSent(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return invoiceTransition(logg, func(r *http.Request) (*invoices.InvoiceDTO, error) {
		contractorID, invoiceID, err := invoiceRequestIDs(r, svc)
		if err != nil {
			return nil, err
		}
		return svc.MarkSent(r.Context(), contractorID, invoiceID)
	})
}

// InvoiceMarkViewed stamps the client's first view.
func InvoiceMarkViewed(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return invoiceTransition(logg, func(r *http.Request) (*invoices.InvoiceDTO, error) {
		contractorID, invoiceID, err := invoiceRequestIDs(r, svc)
		if err != nil {
			return nil, err
		}
		return svc.MarkViewed(r.Context(), contractorID, invoiceID)
	})
}

// InvoiceMarkSigned stamps the client's acceptance signature.
func InvoiceMarkSigned(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return invoiceTransition(logg, func(r *http.Request) (*invoices.InvoiceDTO, error) {
		contractorID, invoiceID, err := invoiceRequestIDs(r, svc)
		if err != nil {
			return nil, err
		}
		return svc.MarkSigned(r.Context(), contractorID, invoiceID)
	})
}

// InvoiceRecordPayment books a payment against the balance due.
func InvoiceRecordPayment(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		invoiceID, err := validators.ParseURLUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload invoices.PaymentInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		invoice, err := svc.RecordPayment(ctx, contractorID, invoiceID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// InvoicePDF streams the customer-facing invoice document.
func InvoicePDF(svc invoices.Service, profiles contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		invoiceID, err := validators.ParseURLUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		invoice, err := svc.Get(ctx, contractorID, invoiceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		info := invoices.PDFBusinessInfo{}
		if profiles != nil {
			if profile, profErr := profiles.GetProfile(ctx, contractorID); profErr == nil {
				info.BusinessName = profile.BusinessName
				info.Email = profile.Email
				if profile.Phone != nil {
					info.Phone = *profile.Phone
				}
			}
		}

		data, err := invoices.RenderPDF(invoice, info)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.Number+".pdf"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func invoiceRequestIDs(r *http.Request, svc invoices.Service) (uuid.UUID, uuid.UUID, error) {
	if svc == nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable")
	}
	contractorID, err := contractorIDFromRequest(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	invoiceID, err := validators.ParseURLUUID(r, "invoiceId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return contractorID, invoiceID, nil
}
