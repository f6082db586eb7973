package jobs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/internal/contractors"
	"github.com/dmorales-dev/tradeflow-backend/internal/pricing"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

// centTolerance absorbs client-side float rounding when verifying reported
// totals against the server's recomputation.
const centTolerance = 1

var jobTransitions = map[enums.JobStatus][]enums.JobStatus{
	enums.JobStatusDraft:    {enums.JobStatusSent},
	enums.JobStatusSent:     {enums.JobStatusApproved, enums.JobStatusDeclined},
	enums.JobStatusDeclined: {enums.JobStatusSent},
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the job service.
type ServiceParams struct {
	Repo           *Repository
	ContractorRepo *contractors.Repository
	Tx             TxRunner
}

// Service exposes quote/job management. Totals are always the server's own
// computation over the submitted line items.
type Service interface {
	Create(ctx context.Context, contractorID uuid.UUID, input UpsertJobInput) (*JobDTO, error)
	Get(ctx context.Context, contractorID, id uuid.UUID) (*JobDTO, error)
	List(ctx context.Context, contractorID uuid.UUID, status *enums.JobStatus) ([]JobDTO, error)
	Update(ctx context.Context, contractorID, id uuid.UUID, input UpsertJobInput) (*JobDTO, error)
	UpdateStatus(ctx context.Context, contractorID, id uuid.UUID, status enums.JobStatus) (*JobDTO, error)
	PreviewTotals(ctx context.Context, contractorID uuid.UUID, input UpsertJobInput) (*TotalsDTO, []LineItemDTO, error)
}

type service struct {
	repo           *Repository
	contractorRepo *contractors.Repository
	tx             TxRunner
}

// NewService builds a job service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job repo is required")
	}
	if params.ContractorRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{
		repo:           params.Repo,
		contractorRepo: params.ContractorRepo,
		tx:             params.Tx,
	}, nil
}

func (s *service) Create(ctx context.Context, contractorID uuid.UUID, input UpsertJobInput) (*JobDTO, error) {
	job, err := s.buildJob(ctx, contractorID, input)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, job)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create job")
	}
	return s.Get(ctx, contractorID, job.ID)
}

func (s *service) Get(ctx context.Context, contractorID, id uuid.UUID) (*JobDTO, error) {
	job, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	dto := toJobDTO(job)
	return &dto, nil
}

func (s *service) List(ctx context.Context, contractorID uuid.UUID, status *enums.JobStatus) ([]JobDTO, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid job status filter").
			WithDetails(map[string]any{"status": string(*status)})
	}
	records, err := s.repo.List(ctx, contractorID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}
	out := make([]JobDTO, 0, len(records))
	for i := range records {
		out = append(out, toJobDTO(&records[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, contractorID, id uuid.UUID, input UpsertJobInput) (*JobDTO, error) {
	existing, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == enums.JobStatusApproved || existing.Status == enums.JobStatusDeclined {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "finalized jobs cannot be edited").
			WithDetails(map[string]any{"status": string(existing.Status)})
	}

	rebuilt, err := s.buildJob(ctx, contractorID, input)
	if err != nil {
		return nil, err
	}
	rebuilt.ID = existing.ID
	rebuilt.Status = existing.Status

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.ReplaceItemsTx(tx, rebuilt)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job")
	}
	return s.Get(ctx, contractorID, id)
}

func (s *service) UpdateStatus(ctx context.Context, contractorID, id uuid.UUID, status enums.JobStatus) (*JobDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid job status").
			WithDetails(map[string]any{"status": string(status)})
	}
	job, err := s.load(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(job.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid job status transition").
			WithDetails(map[string]any{"from": string(job.Status), "to": string(status)})
	}
	if err := s.repo.UpdateStatus(ctx, contractorID, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job status")
	}
	return s.Get(ctx, contractorID, id)
}

// PreviewTotals runs the pricing engine without persisting anything. The API
// exposes this so the client can show live numbers while a quote is edited.
func (s *service) PreviewTotals(ctx context.Context, contractorID uuid.UUID, input UpsertJobInput) (*TotalsDTO, []LineItemDTO, error) {
	job, err := s.buildJob(ctx, contractorID, input)
	if err != nil {
		return nil, nil, err
	}
	totals := TotalsDTO{
		BaseSubtotalCents: job.BaseSubtotalCents,
		MarkupTotalCents:  job.MarkupTotalCents,
		SubtotalCents:     job.SubtotalCents,
		TaxCents:          job.TaxCents,
		TotalCents:        job.TotalCents,
	}
	items := make([]LineItemDTO, 0, len(job.Items))
	for _, item := range job.Items {
		items = append(items, toLineItemDTO(item))
	}
	return &totals, items, nil
}

// buildJob validates the payload, resolves tax defaults from the contractor
// profile, and recomputes every stored amount with the pricing engine.
func (s *service) buildJob(ctx context.Context, contractorID uuid.UUID, input UpsertJobInput) (*models.Job, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job title is required")
	}

	contractor, err := s.contractorRepo.FindByID(ctx, contractorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contractor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contractor")
	}

	mode := contractor.DefaultTaxMode
	if input.TaxMode != nil {
		parsed, err := enums.ParseTaxMode(*input.TaxMode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tax mode")
		}
		mode = parsed
	}
	rate := contractor.DefaultTaxRate
	if input.TaxRate != nil {
		rate = *input.TaxRate
	}
	if rate < 0 || rate > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be within [0,100]").
			WithDetails(map[string]any{"tax_rate": rate})
	}

	engineItems := make([]pricing.LineItem, 0, len(input.Items))
	for _, row := range input.Items {
		engineItems = append(engineItems, toEngineItem(row, rate))
	}

	totals, err := pricing.ComputeQuote(engineItems, mode, money.FromFloat(rate))
	if err != nil {
		return nil, err
	}
	if err := verifyReportedTotals(input.Reported, totals); err != nil {
		return nil, err
	}

	modelItems := make([]models.JobLineItem, 0, len(engineItems))
	for _, item := range engineItems {
		modelItems = append(modelItems, toModelItem(item))
	}

	return &models.Job{
		ContractorID:      contractorID,
		ClientID:          input.ClientID,
		LeadID:            input.LeadID,
		Title:             title,
		Status:            enums.JobStatusDraft,
		TaxMode:           mode,
		TaxRate:           rate,
		BaseSubtotalCents: money.Cents(totals.BaseSubtotal),
		MarkupTotalCents:  money.Cents(totals.MarkupTotal),
		SubtotalCents:     money.Cents(totals.SubtotalWithMarkup),
		TaxCents:          money.Cents(totals.TaxAmount),
		TotalCents:        money.Cents(totals.Total),
		Notes:             input.Notes,
		ScheduledFor:      input.ScheduledFor,
		Items:             modelItems,
	}, nil
}

// verifyReportedTotals compares client-side numbers against the recomputed
// aggregates. Drift beyond one cent per figure is rejected so a stale or
// tampered client can never book totals the engine disagrees with.
func verifyReportedTotals(reported *ReportedTotals, totals pricing.QuoteTotals) error {
	if reported == nil {
		return nil
	}
	computed := toTotalsDTO(totals)
	checks := []struct {
		name     string
		reported int64
		computed int64
	}{
		{"base_subtotal_cents", reported.BaseSubtotalCents, computed.BaseSubtotalCents},
		{"markup_total_cents", reported.MarkupTotalCents, computed.MarkupTotalCents},
		{"subtotal_cents", reported.SubtotalCents, computed.SubtotalCents},
		{"tax_cents", reported.TaxCents, computed.TaxCents},
		{"total_cents", reported.TotalCents, computed.TotalCents},
	}
	for _, check := range checks {
		if abs64(check.reported-check.computed) > centTolerance {
			return pkgerrors.New(pkgerrors.CodeValidation, "reported totals do not match computed totals").
				WithDetails(map[string]any{
					"field":    check.name,
					"reported": check.reported,
					"computed": check.computed,
				})
		}
	}
	return nil
}

func canTransition(from, to enums.JobStatus) bool {
	for _, candidate := range jobTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (s *service) load(ctx context.Context, contractorID, id uuid.UUID) (*models.Job, error) {
	if contractorID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id and job id are required")
	}
	job, err := s.repo.FindByID(ctx, contractorID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}
	return job, nil
}
