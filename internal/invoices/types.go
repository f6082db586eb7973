package invoices

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/internal/pricing"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

// CreateFromJobInput carries the invoice-specific fields layered on top of an
// approved job. Discount amount and percentage are mutually exclusive.
type CreateFromJobInput struct {
	JobID           uuid.UUID  `json:"job_id"`
	DiscountAmount  *float64   `json:"discount_amount"`
	DiscountPercent *float64   `json:"discount_percentage"`
	DueDate         *time.Time `json:"due_date"`
}

// PaymentInput records money received against an invoice.
type PaymentInput struct {
	Amount     float64    `json:"amount"`
	Method     string     `json:"method"`
	Reference  *string    `json:"reference"`
	Note       *string    `json:"note"`
	ReceivedAt *time.Time `json:"received_at"`
}

// PaymentDTO is the outward payment shape.
type PaymentDTO struct {
	ID          uuid.UUID `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	Reference   *string   `json:"reference,omitempty"`
	Note        *string   `json:"note,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// InvoiceLineItemDTO is the customer-facing row: the unit price carries the
// markup folded in, and the raw cost never leaves the snapshot.
type InvoiceLineItemDTO struct {
	ID             uuid.UUID `json:"id"`
	Description    string    `json:"description"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
	Taxable        bool      `json:"taxable"`
	TaxRate        float64   `json:"tax_rate"`
}

// InvoiceDTO is the outward invoice shape.
type InvoiceDTO struct {
	ID                  uuid.UUID            `json:"id"`
	ContractorID        uuid.UUID            `json:"contractor_id"`
	JobID               uuid.UUID            `json:"job_id"`
	ClientID            *uuid.UUID           `json:"client_id,omitempty"`
	Number              string               `json:"number"`
	Status              enums.InvoiceStatus  `json:"status"`
	TaxMode             enums.TaxMode        `json:"tax_mode"`
	TaxRate             float64              `json:"tax_rate"`
	DiscountPercentage  *float64             `json:"discount_percentage,omitempty"`
	DiscountAmountCents int64                `json:"discount_amount_cents"`
	BaseSubtotalCents   int64                `json:"base_subtotal_cents"`
	MarkupTotalCents    int64                `json:"markup_total_cents"`
	SubtotalCents       int64                `json:"subtotal_cents"`
	TaxCents            int64                `json:"tax_cents"`
	TotalCents          int64                `json:"total_cents"`
	AmountPaidCents     int64                `json:"amount_paid_cents"`
	BalanceDueCents     int64                `json:"balance_due_cents"`
	DueDate             *time.Time           `json:"due_date,omitempty"`
	SentAt              *time.Time           `json:"sent_at,omitempty"`
	ViewedAt            *time.Time           `json:"viewed_at,omitempty"`
	SignedAt            *time.Time           `json:"signed_at,omitempty"`
	PaidAt              *time.Time           `json:"paid_at,omitempty"`
	Items               []InvoiceLineItemDTO `json:"items"`
	Payments            []PaymentDTO         `json:"payments"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// engineItems rebuilds the pricing rows from the stored snapshot so quote
// totals can be recomputed exactly, independent of the originating job.
func engineItems(items []models.InvoiceLineItem) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, pricing.LineItem{
			Description:   item.Description,
			Quantity:      money.FromFloat(item.Quantity),
			UnitCost:      money.FromCents(item.CostPerUnitCents),
			MarkupPercent: money.FromFloat(item.MarkupPercentage),
			Taxable:       item.Taxable,
			TaxRate:       money.FromFloat(item.TaxRate),
			Unit:          item.Unit,
		})
	}
	return out
}

func toInvoiceDTO(invoice *models.Invoice) InvoiceDTO {
	items := make([]InvoiceLineItemDTO, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		lineTotal := money.Cents(money.Round2(
			money.FromFloat(item.Quantity).Mul(money.FromCents(item.UnitPriceCents))))
		items = append(items, InvoiceLineItemDTO{
			ID:             item.ID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: lineTotal,
			Taxable:        item.Taxable,
			TaxRate:        item.TaxRate,
		})
	}
	payments := make([]PaymentDTO, 0, len(invoice.Payments))
	for _, payment := range invoice.Payments {
		payments = append(payments, PaymentDTO{
			ID:          payment.ID,
			AmountCents: payment.AmountCents,
			Method:      payment.Method,
			Reference:   payment.Reference,
			Note:        payment.Note,
			ReceivedAt:  payment.ReceivedAt,
		})
	}
	return InvoiceDTO{
		ID:                  invoice.ID,
		ContractorID:        invoice.ContractorID,
		JobID:               invoice.JobID,
		ClientID:            invoice.ClientID,
		Number:              invoice.Number,
		Status:              invoice.Status,
		TaxMode:             invoice.TaxMode,
		TaxRate:             invoice.TaxRate,
		DiscountPercentage:  invoice.DiscountPercentage,
		DiscountAmountCents: invoice.DiscountAmountCents,
		BaseSubtotalCents:   invoice.BaseSubtotalCents,
		MarkupTotalCents:    invoice.MarkupTotalCents,
		SubtotalCents:       invoice.SubtotalCents,
		TaxCents:            invoice.TaxCents,
		TotalCents:          invoice.TotalCents,
		AmountPaidCents:     invoice.AmountPaidCents,
		BalanceDueCents:     invoice.BalanceDueCents,
		DueDate:             invoice.DueDate,
		SentAt:              invoice.SentAt,
		ViewedAt:            invoice.ViewedAt,
		SignedAt:            invoice.SignedAt,
		PaidAt:              invoice.PaidAt,
		Items:               items,
		Payments:            payments,
		CreatedAt:           invoice.CreatedAt,
		UpdatedAt:           invoice.UpdatedAt,
	}
}
