package leads

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// Repository encapsulates lead persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a lead repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a lead record.
func (r *Repository) Create(ctx context.Context, lead *models.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(lead).Error
}

// FindByID loads a lead scoped to its owning contractor.
func (r *Repository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).
		First(&lead, "id = ? AND contractor_id = ?", id, contractorID).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads for the contractor, optionally filtered by status.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID, status *enums.LeadStatus) ([]models.Lead, error) {
	query := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var records []models.Lead
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update persists the mutable lead fields.
func (r *Repository) Update(ctx context.Context, lead *models.Lead) error {
	return r.updateWith(r.db.WithContext(ctx), lead)
}

// UpdateTx persists the lead inside an existing transaction.
func (r *Repository) UpdateTx(tx *gorm.DB, lead *models.Lead) error {
	return r.updateWith(tx, lead)
}

func (r *Repository) updateWith(db *gorm.DB, lead *models.Lead) error {
	return db.
		Model(&models.Lead{}).
		Where("id = ? AND contractor_id = ?", lead.ID, lead.ContractorID).
		Updates(map[string]any{
			"client_id":    lead.ClientID,
			"name":         lead.Name,
			"email":        lead.Email,
			"phone":        lead.Phone,
			"source":       lead.Source,
			"project_type": lead.ProjectType,
			"description":  lead.Description,
			"status":       lead.Status,
		}).Error
}
