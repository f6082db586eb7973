package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// Contractor is the business profile owning all other records. Its tax
// defaults seed every new job and invoice; computations never fall back to a
// hardcoded rate.
type Contractor struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessName   string        `gorm:"column:business_name;not null"`
	Email          string        `gorm:"column:email;not null;uniqueIndex"`
	Phone          *string       `gorm:"column:phone"`
	DefaultTaxRate float64       `gorm:"column:default_sales_tax_rate;not null;default:0"`
	DefaultTaxMode enums.TaxMode `gorm:"column:default_tax_mode;not null;default:'uniform'"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
