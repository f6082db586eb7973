package contractors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
)

// Repository encapsulates contractor persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contractor repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a contractor profile.
func (r *Repository) Create(ctx context.Context, contractor *models.Contractor) error {
	if contractor.ID == uuid.Nil {
		contractor.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(contractor).Error
}

// FindByID loads a contractor by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := r.db.WithContext(ctx).First(&contractor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contractor, nil
}

// FindByEmail loads a contractor by unique email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := r.db.WithContext(ctx).First(&contractor, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &contractor, nil
}

// Update persists the mutable profile fields.
func (r *Repository) Update(ctx context.Context, contractor *models.Contractor) error {
	return r.db.WithContext(ctx).
		Model(&models.Contractor{}).
		Where("id = ?", contractor.ID).
		Updates(map[string]any{
			"business_name":          contractor.BusinessName,
			"phone":                  contractor.Phone,
			"default_sales_tax_rate": contractor.DefaultTaxRate,
			"default_tax_mode":       contractor.DefaultTaxMode,
		}).Error
}
