package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/internal/jobs"
	"github.com/dmorales-dev/tradeflow-backend/internal/pricing"
	"github.com/dmorales-dev/tradeflow-backend/pkg/config"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

const defaultPaymentMethod = "other"

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the invoice service.
type ServiceParams struct {
	Repo      *Repository
	JobRepo   *jobs.Repository
	Tx        TxRunner
	Invoicing config.InvoicingConfig
}

// Service exposes invoice lifecycle management. Every money figure is the
// output of the reconciliation engine over the snapshot items; job edits after
// invoicing never change an issued invoice.
type Service interface {
	CreateFromJob(ctx context.Context, contractorID uuid.UUID, input CreateFromJobInput) (*InvoiceDTO, error)
	Get(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error)
	List(ctx context.Context, contractorID uuid.UUID, status *enums.InvoiceStatus) ([]InvoiceDTO, error)
	MarkSent(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error)
	MarkViewed(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error)
	MarkSigned(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error)
	RecordPayment(ctx context.Context, contractorID, id uuid.UUID, input PaymentInput) (*InvoiceDTO, error)
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo      *Repository
	jobRepo   *jobs.Repository
	tx        TxRunner
	invoicing config.InvoicingConfig
}

// NewService builds an invoice service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice repo is required")
	}
	if params.JobRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{
		repo:      params.Repo,
		jobRepo:   params.JobRepo,
		tx:        params.Tx,
		invoicing: params.Invoicing,
	}, nil
}

// CreateFromJob snapshots an approved job's line items, reconciles the totals
// with the requested discount, and issues a numbered draft invoice.
func (s *service) CreateFromJob(ctx context.Context, contractorID uuid.UUID, input CreateFromJobInput) (*InvoiceDTO, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	if input.JobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id is required")
	}

	job, err := s.jobRepo.FindByID(ctx, contractorID, input.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}
	if job.Status != enums.JobStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved jobs can be invoiced").
			WithDetails(map[string]any{"status": string(job.Status)})
	}
	snapshot := snapshotItems(job.Items)
	quote, err := pricing.ComputeQuote(engineItems(snapshot), job.TaxMode, money.FromFloat(job.TaxRate))
	if err != nil {
		return nil, err
	}

	reconcileInput, err := discountInput(input.DiscountAmount, input.DiscountPercent, decimal.Zero)
	if err != nil {
		return nil, err
	}
	totals, err := pricing.ReconcileInvoice(quote, reconcileInput)
	if err != nil {
		return nil, err
	}

	dueDate := input.DueDate
	if dueDate == nil {
		due := time.Now().UTC().AddDate(0, 0, s.invoicing.NetTermsDays)
		dueDate = &due
	}

	invoice := &models.Invoice{
		ContractorID:        contractorID,
		JobID:               job.ID,
		ClientID:            job.ClientID,
		Status:              enums.InvoiceStatusDraft,
		TaxMode:             job.TaxMode,
		TaxRate:             job.TaxRate,
		DiscountPercentage:  input.DiscountPercent,
		DiscountAmountCents: money.Cents(totals.DiscountAmount),
		BaseSubtotalCents:   money.Cents(totals.BaseSubtotal),
		MarkupTotalCents:    money.Cents(totals.MarkupTotal),
		SubtotalCents:       money.Cents(totals.SubtotalWithMarkup),
		TaxCents:            money.Cents(totals.TaxAmount),
		TotalCents:          money.Cents(totals.Total),
		BalanceDueCents:     money.Cents(totals.BalanceDue),
		DueDate:             dueDate,
		Items:               snapshot,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := s.repo.ExistsForJobTx(tx, job.ID)
		if err != nil {
			return err
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "job already has an invoice")
		}
		count, err := s.repo.CountForYearTx(tx, time.Now().UTC().Year())
		if err != nil {
			return err
		}
		invoice.Number = fmt.Sprintf("INV-%d-%05d", time.Now().UTC().Year(), count+1)
		return s.repo.CreateTx(tx, invoice)
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "ux_invoices_job_id") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "job already has an invoice")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
	}
	return s.Get(ctx, contractorID, invoice.ID)
}

func (s *service) Get(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	dto := toInvoiceDTO(invoice)
	return &dto, nil
}

func (s *service) List(ctx context.Context, contractorID uuid.UUID, status *enums.InvoiceStatus) ([]InvoiceDTO, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid invoice status filter").
			WithDetails(map[string]any{"status": string(*status)})
	}
	records, err := s.repo.List(ctx, contractorID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	out := make([]InvoiceDTO, 0, len(records))
	for i := range records {
		out = append(out, toInvoiceDTO(&records[i]))
	}
	return out, nil
}

func (s *service) MarkSent(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error) {
	return s.transition(ctx, contractorID, id, enums.InvoiceStatusSent, func(invoice *models.Invoice, now time.Time) {
		invoice.SentAt = &now
	})
}

func (s *service) MarkViewed(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error) {
	return s.transition(ctx, contractorID, id, enums.InvoiceStatusViewed, func(invoice *models.Invoice, now time.Time) {
		invoice.ViewedAt = &now
	})
}

func (s *service) MarkSigned(ctx context.Context, contractorID, id uuid.UUID) (*InvoiceDTO, error) {
	return s.transition(ctx, contractorID, id, enums.InvoiceStatusSigned, func(invoice *models.Invoice, now time.Time) {
		invoice.SignedAt = &now
	})
}

// RecordPayment books a payment and reconciles the running balance. A payment
// that would push the paid amount past the invoice total is rejected with an
// overpayment error; nothing is clamped or partially applied.
func (s *service) RecordPayment(ctx context.Context, contractorID, id uuid.UUID, input PaymentInput) (*InvoiceDTO, error) {
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be greater than zero").
			WithDetails(map[string]any{"amount": input.Amount})
	}
	amountCents := money.Cents(money.Round2(money.FromFloat(input.Amount)))

	var updated *models.Invoice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDTx(tx, contractorID, id)
		if err != nil {
			return err
		}
		if !invoice.Status.AcceptsPayment() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "invoice does not accept payments in its current status").
				WithDetails(map[string]any{"status": string(invoice.Status)})
		}

		quote, err := pricing.ComputeQuote(engineItems(invoice.Items), invoice.TaxMode, money.FromFloat(invoice.TaxRate))
		if err != nil {
			return err
		}
		paid := money.FromCents(invoice.AmountPaidCents + amountCents)
		reconcileInput, err := discountInput(nil, invoice.DiscountPercentage, money.FromCents(invoice.DiscountAmountCents))
		if err != nil {
			return err
		}
		reconcileInput.AmountPaid = paid
		totals, err := pricing.ReconcileInvoice(quote, reconcileInput)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		receivedAt := now
		if input.ReceivedAt != nil {
			receivedAt = *input.ReceivedAt
		}
		method := strings.TrimSpace(input.Method)
		if method == "" {
			method = defaultPaymentMethod
		}
		payment := &models.InvoicePayment{
			InvoiceID:   invoice.ID,
			AmountCents: amountCents,
			Method:      method,
			Reference:   input.Reference,
			Note:        input.Note,
			ReceivedAt:  receivedAt,
		}
		if err := s.repo.AddPaymentTx(tx, payment); err != nil {
			return err
		}

		invoice.AmountPaidCents = money.Cents(paid)
		invoice.BalanceDueCents = money.Cents(totals.BalanceDue)
		if invoice.BalanceDueCents == 0 {
			invoice.Status = enums.InvoiceStatusPaid
			invoice.PaidAt = &now
		}
		if err := s.repo.UpdateStateTx(tx, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}
	return s.Get(ctx, contractorID, updated.ID)
}

// SweepOverdue is invoked by the background worker.
func (s *service) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	affected, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sweep overdue invoices")
	}
	return affected, nil
}

func (s *service) transition(ctx context.Context, contractorID, id uuid.UUID, next enums.InvoiceStatus, stamp func(*models.Invoice, time.Time)) (*InvoiceDTO, error) {
	invoice, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid invoice status transition").
			WithDetails(map[string]any{"from": string(invoice.Status), "to": string(next)})
	}
	invoice.Status = next
	stamp(invoice, time.Now().UTC())

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.UpdateStateTx(tx, invoice)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invoice status")
	}
	return s.Get(ctx, contractorID, id)
}

func (s *service) load(ctx context.Context, contractorID, id uuid.UUID) (*models.Invoice, error) {
	if contractorID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id and invoice id are required")
	}
	invoice, err := s.repo.FindByID(ctx, contractorID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return invoice, nil
}

// snapshotItems copies job rows into immutable invoice rows, folding markup
// into the stored customer-facing unit price.
func snapshotItems(items []models.JobLineItem) []models.InvoiceLineItem {
	out := make([]models.InvoiceLineItem, 0, len(items))
	for _, item := range items {
		factor := decimal.NewFromInt(1).Add(money.FromFloat(item.MarkupPercentage).Div(decimal.NewFromInt(100)))
		unitPrice := money.Cents(money.Round2(money.FromCents(item.CostPerUnitCents).Mul(factor)))
		out = append(out, models.InvoiceLineItem{
			Description:      item.Description,
			Quantity:         item.Quantity,
			Unit:             item.Unit,
			CostPerUnitCents: item.CostPerUnitCents,
			MarkupPercentage: item.MarkupPercentage,
			UnitPriceCents:   unitPrice,
			Taxable:          item.Taxable,
			TaxRate:          item.TaxRate,
			SortOrder:        item.SortOrder,
		})
	}
	return out
}

// discountInput builds the reconciliation input from either the request
// payload (percent/amount as floats) or the stored invoice columns.
func discountInput(amount *float64, percent *float64, storedAmount decimal.Decimal) (pricing.InvoiceInput, error) {
	if amount != nil && percent != nil {
		return pricing.InvoiceInput{}, pkgerrors.New(pkgerrors.CodeValidation,
			"discount amount and discount percentage are mutually exclusive")
	}
	input := pricing.InvoiceInput{AmountPaid: decimal.Zero}
	switch {
	case percent != nil:
		pct := money.FromFloat(*percent)
		input.DiscountPercent = &pct
	case amount != nil:
		amt := money.FromFloat(*amount)
		input.DiscountAmount = &amt
	case storedAmount.Sign() > 0:
		amt := storedAmount
		input.DiscountAmount = &amt
	}
	return input, nil
}
