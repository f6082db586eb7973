package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// Repository encapsulates invoice persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an invoice repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts an invoice and its snapshot line items inside a transaction.
func (r *Repository) CreateTx(tx *gorm.DB, invoice *models.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	for i := range invoice.Items {
		if invoice.Items[i].ID == uuid.Nil {
			invoice.Items[i].ID = uuid.New()
		}
		invoice.Items[i].InvoiceID = invoice.ID
		invoice.Items[i].SortOrder = i
	}
	return tx.Create(invoice).Error
}

// FindByID loads an invoice with items and payments, scoped to the contractor.
func (r *Repository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("received_at ASC")
		}).
		First(&invoice, "id = ? AND contractor_id = ?", id, contractorID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByIDTx reloads the invoice for update inside a transaction.
func (r *Repository) FindByIDTx(tx *gorm.DB, contractorID, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&invoice, "id = ? AND contractor_id = ?", id, contractorID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List returns invoices for the contractor, optionally filtered by status.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID, status *enums.InvoiceStatus) ([]models.Invoice, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("received_at ASC")
		}).
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var records []models.Invoice
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountForYearTx counts invoices created in the given year, for numbering.
func (r *Repository) CountForYearTx(tx *gorm.DB, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	var count int64
	err := tx.Model(&models.Invoice{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// ExistsForJobTx reports whether the job already has an invoice. Runs inside
// the creation transaction; the ux_invoices_job_id unique index backstops the
// window this read cannot see.
func (r *Repository) ExistsForJobTx(tx *gorm.DB, jobID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.Invoice{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	return count > 0, err
}

// UpdateStateTx persists status, timestamps and payment-dependent columns.
func (r *Repository) UpdateStateTx(tx *gorm.DB, invoice *models.Invoice) error {
	return tx.Model(&models.Invoice{}).
		Where("id = ? AND contractor_id = ?", invoice.ID, invoice.ContractorID).
		Updates(map[string]any{
			"status":            invoice.Status,
			"amount_paid_cents": invoice.AmountPaidCents,
			"balance_due_cents": invoice.BalanceDueCents,
			"sent_at":           invoice.SentAt,
			"viewed_at":         invoice.ViewedAt,
			"signed_at":         invoice.SignedAt,
			"paid_at":           invoice.PaidAt,
			"due_date":          invoice.DueDate,
		}).Error
}

// AddPaymentTx inserts a payment row inside a transaction.
func (r *Repository) AddPaymentTx(tx *gorm.DB, payment *models.InvoicePayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return tx.Create(payment).Error
}

// MarkOverdue flips payable invoices past their due date to overdue and
// returns how many rows changed.
func (r *Repository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("status IN ?", []enums.InvoiceStatus{
			enums.InvoiceStatusSent,
			enums.InvoiceStatusViewed,
			enums.InvoiceStatusSigned,
		}).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Update("status", enums.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}
