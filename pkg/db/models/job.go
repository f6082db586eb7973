package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// Job is a quote/estimate aggregate. The stored totals are the server's
// authoritative recomputation over the line items; client-supplied numbers
// are verified against them on every write.
type Job struct {
	ID           uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractorID uuid.UUID     `gorm:"column:contractor_id;type:uuid;not null;index"`
	ClientID     *uuid.UUID    `gorm:"column:client_id;type:uuid"`
	LeadID       *uuid.UUID    `gorm:"column:lead_id;type:uuid"`
	Title        string        `gorm:"column:title;not null"`
	Status       enums.JobStatus `gorm:"column:status;not null;default:'draft'"`
	TaxMode      enums.TaxMode `gorm:"column:tax_mode;not null"`
	TaxRate      float64       `gorm:"column:tax_rate;not null;default:0"`

	BaseSubtotalCents int64 `gorm:"column:base_subtotal_cents;not null;default:0"`
	MarkupTotalCents  int64 `gorm:"column:markup_total_cents;not null;default:0"`
	SubtotalCents     int64 `gorm:"column:subtotal_cents;not null;default:0"`
	TaxCents          int64 `gorm:"column:tax_cents;not null;default:0"`
	TotalCents        int64 `gorm:"column:total_cents;not null;default:0"`

	Notes        *string       `gorm:"column:notes"`
	ScheduledFor *time.Time    `gorm:"column:scheduled_for"`
	Items        []JobLineItem `gorm:"foreignKey:JobID"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// JobLineItem is one priced row of a job. Markup is internal: the customer
// view folds it into the unit price and never shows it separately.
type JobLineItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobID            uuid.UUID `gorm:"column:job_id;type:uuid;not null;index"`
	Description      string    `gorm:"column:description;not null"`
	Quantity         float64   `gorm:"column:quantity;not null"`
	Unit             string    `gorm:"column:unit;not null;default:'each'"`
	CostPerUnitCents int64     `gorm:"column:cost_per_unit_cents;not null"`
	MarkupPercentage float64   `gorm:"column:markup_percentage;not null;default:0"`
	Taxable          bool      `gorm:"column:taxable;not null;default:true"`
	TaxRate          float64   `gorm:"column:tax_rate;not null;default:0"`
	SortOrder        int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
