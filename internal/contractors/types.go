package contractors

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// ProfileDTO is the outward contractor profile shape.
type ProfileDTO struct {
	ID             uuid.UUID     `json:"id"`
	BusinessName   string        `json:"business_name"`
	Email          string        `json:"email"`
	Phone          *string       `json:"phone,omitempty"`
	DefaultTaxRate float64       `json:"default_sales_tax_rate"`
	DefaultTaxMode enums.TaxMode `json:"default_tax_mode"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func newContractorModel(name, email string, phone *string, rate float64, mode enums.TaxMode) *models.Contractor {
	return &models.Contractor{
		BusinessName:   name,
		Email:          email,
		Phone:          phone,
		DefaultTaxRate: rate,
		DefaultTaxMode: mode,
	}
}

func toProfileDTO(contractor *models.Contractor) ProfileDTO {
	return ProfileDTO{
		ID:             contractor.ID,
		BusinessName:   contractor.BusinessName,
		Email:          contractor.Email,
		Phone:          contractor.Phone,
		DefaultTaxRate: contractor.DefaultTaxRate,
		DefaultTaxMode: contractor.DefaultTaxMode,
		CreatedAt:      contractor.CreatedAt,
		UpdatedAt:      contractor.UpdatedAt,
	}
}
