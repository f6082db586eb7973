package jobs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// Repository encapsulates job persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a job repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts a job and its line items inside an existing transaction.
func (r *Repository) CreateTx(tx *gorm.DB, job *models.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	for i := range job.Items {
		if job.Items[i].ID == uuid.Nil {
			job.Items[i].ID = uuid.New()
		}
		job.Items[i].JobID = job.ID
		job.Items[i].SortOrder = i
	}
	return tx.Create(job).Error
}

// FindByID loads a job with its line items, scoped to the contractor.
func (r *Repository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&job, "id = ? AND contractor_id = ?", id, contractorID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns jobs for the contractor, optionally filtered by status.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID, status *enums.JobStatus) ([]models.Job, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var records []models.Job
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceItemsTx swaps the job's line items and updates the stored totals
// inside an existing transaction.
func (r *Repository) ReplaceItemsTx(tx *gorm.DB, job *models.Job) error {
	if err := tx.Where("job_id = ?", job.ID).Delete(&models.JobLineItem{}).Error; err != nil {
		return err
	}
	for i := range job.Items {
		if job.Items[i].ID == uuid.Nil {
			job.Items[i].ID = uuid.New()
		}
		job.Items[i].JobID = job.ID
		job.Items[i].SortOrder = i
	}
	if len(job.Items) > 0 {
		if err := tx.Create(&job.Items).Error; err != nil {
			return err
		}
	}
	return r.updateJobRowTx(tx, job)
}

// UpdateStatus persists only the lifecycle column.
func (r *Repository) UpdateStatus(ctx context.Context, contractorID, id uuid.UUID, status enums.JobStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND contractor_id = ?", id, contractorID).
		Update("status", status).Error
}

func (r *Repository) updateJobRowTx(tx *gorm.DB, job *models.Job) error {
	return tx.
		Model(&models.Job{}).
		Where("id = ? AND contractor_id = ?", job.ID, job.ContractorID).
		Updates(map[string]any{
			"client_id":           job.ClientID,
			"lead_id":             job.LeadID,
			"title":               job.Title,
			"tax_mode":            job.TaxMode,
			"tax_rate":            job.TaxRate,
			"base_subtotal_cents": job.BaseSubtotalCents,
			"markup_total_cents":  job.MarkupTotalCents,
			"subtotal_cents":      job.SubtotalCents,
			"tax_cents":           job.TaxCents,
			"total_cents":         job.TotalCents,
			"notes":               job.Notes,
			"scheduled_for":       job.ScheduledFor,
		}).Error
}
