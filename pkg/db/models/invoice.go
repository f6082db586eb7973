package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
)

// Invoice extends a job's totals with discount and payment state. Line items
// are snapshotted at creation so later job edits never change an issued
// invoice.
type Invoice struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractorID uuid.UUID           `gorm:"column:contractor_id;type:uuid;not null;index"`
	JobID        uuid.UUID           `gorm:"column:job_id;type:uuid;not null;index"`
	ClientID     *uuid.UUID          `gorm:"column:client_id;type:uuid"`
	Number       string              `gorm:"column:number;not null;uniqueIndex"`
	Status       enums.InvoiceStatus `gorm:"column:status;not null;default:'draft'"`
	TaxMode      enums.TaxMode       `gorm:"column:tax_mode;not null"`
	TaxRate      float64             `gorm:"column:tax_rate;not null;default:0"`

	DiscountPercentage  *float64 `gorm:"column:discount_percentage"`
	DiscountAmountCents int64    `gorm:"column:discount_amount_cents;not null;default:0"`

	BaseSubtotalCents int64 `gorm:"column:base_subtotal_cents;not null;default:0"`
	MarkupTotalCents  int64 `gorm:"column:markup_total_cents;not null;default:0"`
	SubtotalCents     int64 `gorm:"column:subtotal_cents;not null;default:0"`
	TaxCents          int64 `gorm:"column:tax_cents;not null;default:0"`
	TotalCents        int64 `gorm:"column:total_cents;not null;default:0"`
	AmountPaidCents   int64 `gorm:"column:amount_paid_cents;not null;default:0"`
	BalanceDueCents   int64 `gorm:"column:balance_due_cents;not null;default:0"`

	DueDate  *time.Time `gorm:"column:due_date"`
	SentAt   *time.Time `gorm:"column:sent_at"`
	ViewedAt *time.Time `gorm:"column:viewed_at"`
	SignedAt *time.Time `gorm:"column:signed_at"`
	PaidAt   *time.Time `gorm:"column:paid_at"`

	Items     []InvoiceLineItem `gorm:"foreignKey:InvoiceID"`
	Payments  []InvoicePayment  `gorm:"foreignKey:InvoiceID"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// InvoiceLineItem is the immutable snapshot of a job line at invoicing time.
// UnitPriceCents carries the customer-facing price with markup folded in.
type InvoiceLineItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID        uuid.UUID `gorm:"column:invoice_id;type:uuid;not null;index"`
	Description      string    `gorm:"column:description;not null"`
	Quantity         float64   `gorm:"column:quantity;not null"`
	Unit             string    `gorm:"column:unit;not null;default:'each'"`
	CostPerUnitCents int64     `gorm:"column:cost_per_unit_cents;not null"`
	MarkupPercentage float64   `gorm:"column:markup_percentage;not null;default:0"`
	UnitPriceCents   int64     `gorm:"column:unit_price_cents;not null"`
	Taxable          bool      `gorm:"column:taxable;not null;default:true"`
	TaxRate          float64   `gorm:"column:tax_rate;not null;default:0"`
	SortOrder        int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

// InvoicePayment records money received against an invoice.
type InvoicePayment struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID   uuid.UUID `gorm:"column:invoice_id;type:uuid;not null;index"`
	AmountCents int64     `gorm:"column:amount_cents;not null"`
	Method      string    `gorm:"column:method;not null;default:'other'"`
	Reference   *string   `gorm:"column:reference"`
	Note        *string   `gorm:"column:note"`
	ReceivedAt  time.Time `gorm:"column:received_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
