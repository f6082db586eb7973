package jobs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/internal/contractors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupJobsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	contractorDDL := `
CREATE TABLE IF NOT EXISTS contractors (
  id TEXT PRIMARY KEY,
  business_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  default_sales_tax_rate REAL NOT NULL DEFAULT 0,
  default_tax_mode TEXT NOT NULL DEFAULT 'uniform',
  created_at DATETIME,
  updated_at DATETIME
);`
	jobDDL := `
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  contractor_id TEXT NOT NULL,
  client_id TEXT,
  lead_id TEXT,
  title TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  tax_mode TEXT NOT NULL,
  tax_rate REAL NOT NULL DEFAULT 0,
  base_subtotal_cents INTEGER NOT NULL DEFAULT 0,
  markup_total_cents INTEGER NOT NULL DEFAULT 0,
  subtotal_cents INTEGER NOT NULL DEFAULT 0,
  tax_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL DEFAULT 0,
  notes TEXT,
  scheduled_for DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	itemDDL := `
CREATE TABLE IF NOT EXISTS job_line_items (
  id TEXT PRIMARY KEY,
  job_id TEXT NOT NULL,
  description TEXT NOT NULL,
  quantity REAL NOT NULL,
  unit TEXT NOT NULL DEFAULT 'each',
  cost_per_unit_cents INTEGER NOT NULL,
  markup_percentage REAL NOT NULL DEFAULT 0,
  taxable INTEGER NOT NULL DEFAULT 1,
  tax_rate REAL NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(contractorDDL).Error)
	require.NoError(t, db.Exec(jobDDL).Error)
	require.NoError(t, db.Exec(itemDDL).Error)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (Service, uuid.UUID) {
	t.Helper()

	contractorRepo := contractors.NewRepository(db)
	contractor := &models.Contractor{
		BusinessName:   "Morales Remodeling",
		Email:          "dan@moralesremodeling.com",
		DefaultTaxRate: 8,
		DefaultTaxMode: enums.TaxModeUniform,
	}
	require.NoError(t, contractorRepo.Create(context.Background(), contractor))

	svc, err := NewService(ServiceParams{
		Repo:           NewRepository(db),
		ContractorRepo: contractorRepo,
		Tx:             &testTxRunner{db: db},
	})
	require.NoError(t, err)
	return svc, contractor.ID
}

func ptr[T any](v T) *T { return &v }

func TestCreateJobComputesUniformTotals(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	job, err := svc.Create(context.Background(), contractorID, UpsertJobInput{
		Title: "Deck repair",
		Items: []LineItemInput{
			{Description: "Labor", Quantity: 10, UnitCost: 150},
		},
	})
	require.NoError(t, err)

	// contractor defaults: uniform mode at 8%
	assert.Equal(t, enums.TaxModeUniform, job.TaxMode)
	assert.Equal(t, 8.0, job.TaxRate)
	assert.Equal(t, int64(150000), job.Totals.BaseSubtotalCents)
	assert.Equal(t, int64(0), job.Totals.MarkupTotalCents)
	assert.Equal(t, int64(150000), job.Totals.SubtotalCents)
	assert.Equal(t, int64(12000), job.Totals.TaxCents)
	assert.Equal(t, int64(162000), job.Totals.TotalCents)
	assert.Equal(t, enums.JobStatusDraft, job.Status)
}

func TestCreateJobFoldsMarkupIntoUnitPrice(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	job, err := svc.Create(context.Background(), contractorID, UpsertJobInput{
		Title:   "Fence install",
		TaxRate: ptr(0.0),
		Items: []LineItemInput{
			{Description: "Cedar pickets", Quantity: 4, UnitCost: 250, MarkupPercentage: ptr(20.0)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100000), job.Totals.BaseSubtotalCents)
	assert.Equal(t, int64(20000), job.Totals.MarkupTotalCents)
	assert.Equal(t, int64(120000), job.Totals.SubtotalCents)

	require.Len(t, job.Items, 1)
	item := job.Items[0]
	assert.Equal(t, int64(25000), item.CostPerUnitCents)
	assert.Equal(t, int64(30000), item.UnitPriceCents)
	assert.Equal(t, int64(120000), item.LineTotalCents)
}

func TestCreateJobPerItemModeSkipsExemptLines(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	job, err := svc.Create(context.Background(), contractorID, UpsertJobInput{
		Title:   "Mixed taxability",
		TaxMode: ptr("per_item"),
		Items: []LineItemInput{
			{Description: "Materials", Quantity: 1, UnitCost: 500, TaxRate: ptr(8.0)},
			{Description: "Labor", Quantity: 1, UnitCost: 760, Taxable: ptr(false)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(126000), job.Totals.SubtotalCents)
	assert.Equal(t, int64(4000), job.Totals.TaxCents)
	assert.Equal(t, int64(130000), job.Totals.TotalCents)
}

func TestCreateJobVerifiesReportedTotals(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	input := UpsertJobInput{
		Title: "Verified job",
		Items: []LineItemInput{
			{Description: "Labor", Quantity: 10, UnitCost: 150},
		},
		Reported: &ReportedTotals{
			BaseSubtotalCents: 150000,
			SubtotalCents:     150000,
			TaxCents:          12001, // one cent drift is tolerated
			TotalCents:        162000,
		},
	}
	_, err := svc.Create(context.Background(), contractorID, input)
	require.NoError(t, err)

	input.Reported.TotalCents = 160000
	_, err = svc.Create(context.Background(), contractorID, input)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateJobRejectsInvalidItems(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	_, err := svc.Create(context.Background(), contractorID, UpsertJobInput{
		Title: "Bad job",
		Items: []LineItemInput{
			{Description: "Labor", Quantity: 0, UnitCost: 150},
		},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateJobWithNoItemsYieldsZeroTotals(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	job, err := svc.Create(context.Background(), contractorID, UpsertJobInput{Title: "Empty quote"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), job.Totals.TotalCents)
	assert.Empty(t, job.Items)
}

func TestUpdateJobReplacesItemsAndRecomputes(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	job, err := svc.Create(context.Background(), contractorID, UpsertJobInput{
		Title: "Changing scope",
		Items: []LineItemInput{
			{Description: "Labor", Quantity: 10, UnitCost: 150},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), contractorID, job.ID, UpsertJobInput{
		Title: "Changing scope",
		Items: []LineItemInput{
			{Description: "Labor", Quantity: 5, UnitCost: 150},
			{Description: "Haul-off", Quantity: 1, UnitCost: 200, Taxable: ptr(false)},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.Equal(t, int64(95000), updated.Totals.SubtotalCents)
	assert.Equal(t, int64(7600), updated.Totals.TaxCents)
	assert.Equal(t, int64(102600), updated.Totals.TotalCents)
}

func TestJobStatusTransitions(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	job, err := svc.Create(context.Background(), contractorID, UpsertJobInput{Title: "Lifecycle"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), contractorID, job.ID, enums.JobStatusApproved)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	sent, err := svc.UpdateStatus(context.Background(), contractorID, job.ID, enums.JobStatusSent)
	require.NoError(t, err)
	assert.Equal(t, enums.JobStatusSent, sent.Status)

	approved, err := svc.UpdateStatus(context.Background(), contractorID, job.ID, enums.JobStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, enums.JobStatusApproved, approved.Status)

	_, err = svc.Update(context.Background(), contractorID, job.ID, UpsertJobInput{Title: "Lifecycle"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestPreviewTotalsDoesNotPersist(t *testing.T) {
	db := setupJobsTestDB(t)
	svc, contractorID := newTestService(t, db)

	totals, items, err := svc.PreviewTotals(context.Background(), contractorID, UpsertJobInput{
		Title: "Preview",
		Items: []LineItemInput{
			{Description: "Labor", Quantity: 2, UnitCost: 100, MarkupPercentage: ptr(10.0)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(22000), totals.SubtotalCents)
	require.Len(t, items, 1)

	list, err := svc.List(context.Background(), contractorID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
