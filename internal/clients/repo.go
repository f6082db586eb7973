package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
)

// Repository encapsulates client persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a client repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a client record.
func (r *Repository) Create(ctx context.Context, client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(client).Error
}

// CreateTx inserts a client inside an existing transaction.
func (r *Repository) CreateTx(tx *gorm.DB, client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	return tx.Create(client).Error
}

// FindByID loads a client scoped to its owning contractor.
func (r *Repository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		First(&client, "id = ? AND contractor_id = ?", id, contractorID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// List returns every client for the contractor, newest first.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID) ([]models.Client, error) {
	var records []models.Client
	if err := r.db.WithContext(ctx).
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update persists the mutable client fields.
func (r *Repository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND contractor_id = ?", client.ID, client.ContractorID).
		Updates(map[string]any{
			"name":          client.Name,
			"email":         client.Email,
			"phone":         client.Phone,
			"address_line1": client.AddressLine1,
			"address_line2": client.AddressLine2,
			"city":          client.City,
			"state":         client.State,
			"postal_code":   client.PostalCode,
			"notes":         client.Notes,
		}).Error
}

// Delete removes the client if it belongs to the contractor.
func (r *Repository) Delete(ctx context.Context, contractorID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND contractor_id = ?", id, contractorID).
		Delete(&models.Client{})
	return result.RowsAffected, result.Error
}
