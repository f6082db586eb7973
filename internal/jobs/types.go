package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/tradeflow-backend/internal/pricing"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db/models"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

// LineItemInput is one incoming priced row. Markup, taxability, tax rate and
// unit are optional; defaults are applied during normalization.
type LineItemInput struct {
	Description      string   `json:"description"`
	Quantity         float64  `json:"quantity"`
	UnitCost         float64  `json:"unit_cost"`
	MarkupPercentage *float64 `json:"markup_percentage"`
	Taxable          *bool    `json:"taxable"`
	TaxRate          *float64 `json:"tax_rate"`
	Unit             *string  `json:"unit"`
}

// ReportedTotals carries client-side totals for verification. The server's
// recomputation is authoritative; these are checked, never stored as-is.
type ReportedTotals struct {
	BaseSubtotalCents int64 `json:"base_subtotal_cents"`
	MarkupTotalCents  int64 `json:"markup_total_cents"`
	SubtotalCents     int64 `json:"subtotal_cents"`
	TaxCents          int64 `json:"tax_cents"`
	TotalCents        int64 `json:"total_cents"`
}

// UpsertJobInput carries the full job payload for create and update.
type UpsertJobInput struct {
	Title        string          `json:"title"`
	ClientID     *uuid.UUID      `json:"client_id"`
	LeadID       *uuid.UUID      `json:"lead_id"`
	TaxMode      *string         `json:"tax_mode"`
	TaxRate      *float64        `json:"tax_rate"`
	Notes        *string         `json:"notes"`
	ScheduledFor *time.Time      `json:"scheduled_for"`
	Items        []LineItemInput `json:"items"`
	Reported     *ReportedTotals `json:"reported_totals"`
}

// TotalsDTO is the aggregate money block, in cents.
type TotalsDTO struct {
	BaseSubtotalCents int64 `json:"base_subtotal_cents"`
	MarkupTotalCents  int64 `json:"markup_total_cents"`
	SubtotalCents     int64 `json:"subtotal_cents"`
	TaxCents          int64 `json:"tax_cents"`
	TotalCents        int64 `json:"total_cents"`
}

// LineItemDTO is the outward row shape. UnitPriceCents folds markup into the
// customer-facing price; the raw cost and markup stay internal-only fields
// the API layer can strip for customer documents.
type LineItemDTO struct {
	ID               uuid.UUID `json:"id"`
	Description      string    `json:"description"`
	Quantity         float64   `json:"quantity"`
	Unit             string    `json:"unit"`
	CostPerUnitCents int64     `json:"cost_per_unit_cents"`
	MarkupPercentage float64   `json:"markup_percentage"`
	UnitPriceCents   int64     `json:"unit_price_cents"`
	LineTotalCents   int64     `json:"line_total_cents"`
	Taxable          bool      `json:"taxable"`
	TaxRate          float64   `json:"tax_rate"`
}

// JobDTO is the outward job shape.
type JobDTO struct {
	ID           uuid.UUID       `json:"id"`
	ContractorID uuid.UUID       `json:"contractor_id"`
	ClientID     *uuid.UUID      `json:"client_id,omitempty"`
	LeadID       *uuid.UUID      `json:"lead_id,omitempty"`
	Title        string          `json:"title"`
	Status       enums.JobStatus `json:"status"`
	TaxMode      enums.TaxMode   `json:"tax_mode"`
	TaxRate      float64         `json:"tax_rate"`
	Totals       TotalsDTO       `json:"totals"`
	Items        []LineItemDTO   `json:"items"`
	Notes        *string         `json:"notes,omitempty"`
	ScheduledFor *time.Time      `json:"scheduled_for,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// toEngineItem maps an input row onto the canonical pricing shape.
// fallbackRate fills a missing per-item tax rate so per_item jobs inherit the
// job-level rate unless a row overrides it.
func toEngineItem(input LineItemInput, fallbackRate float64) pricing.LineItem {
	item := pricing.LineItem{
		Description: input.Description,
		Quantity:    money.FromFloat(input.Quantity),
		UnitCost:    money.FromFloat(input.UnitCost),
		Taxable:     true,
		TaxRate:     money.FromFloat(fallbackRate),
		Unit:        pricing.DefaultUnit,
	}
	if input.MarkupPercentage != nil {
		item.MarkupPercent = money.FromFloat(*input.MarkupPercentage)
	}
	if input.Taxable != nil {
		item.Taxable = *input.Taxable
	}
	if input.TaxRate != nil {
		item.TaxRate = money.FromFloat(*input.TaxRate)
	}
	if input.Unit != nil && *input.Unit != "" {
		item.Unit = *input.Unit
	}
	return item
}

func toModelItem(item pricing.LineItem) models.JobLineItem {
	quantity, _ := item.Quantity.Float64()
	markup, _ := item.MarkupPercent.Float64()
	rate, _ := item.TaxRate.Float64()
	return models.JobLineItem{
		Description:      item.Description,
		Quantity:         quantity,
		Unit:             item.Unit,
		CostPerUnitCents: money.Cents(item.UnitCost),
		MarkupPercentage: markup,
		Taxable:          item.Taxable,
		TaxRate:          rate,
	}
}

func toTotalsDTO(totals pricing.QuoteTotals) TotalsDTO {
	return TotalsDTO{
		BaseSubtotalCents: money.Cents(totals.BaseSubtotal),
		MarkupTotalCents:  money.Cents(totals.MarkupTotal),
		SubtotalCents:     money.Cents(totals.SubtotalWithMarkup),
		TaxCents:          money.Cents(totals.TaxAmount),
		TotalCents:        money.Cents(totals.Total),
	}
}

func toLineItemDTO(item models.JobLineItem) LineItemDTO {
	unitPrice := unitPriceWithMarkupCents(item.CostPerUnitCents, item.MarkupPercentage)
	lineTotal := money.Cents(money.Round2(
		money.FromFloat(item.Quantity).Mul(
			money.FromCents(item.CostPerUnitCents).
				Mul(markupFactor(item.MarkupPercentage)))))
	return LineItemDTO{
		ID:               item.ID,
		Description:      item.Description,
		Quantity:         item.Quantity,
		Unit:             item.Unit,
		CostPerUnitCents: item.CostPerUnitCents,
		MarkupPercentage: item.MarkupPercentage,
		UnitPriceCents:   unitPrice,
		LineTotalCents:   lineTotal,
		Taxable:          item.Taxable,
		TaxRate:          item.TaxRate,
	}
}

func unitPriceWithMarkupCents(costCents int64, markupPct float64) int64 {
	return money.Cents(money.Round2(money.FromCents(costCents).Mul(markupFactor(markupPct))))
}

func markupFactor(markupPct float64) decimal.Decimal {
	return decimal.NewFromInt(1).Add(money.FromFloat(markupPct).Div(decimal.NewFromInt(100)))
}

func toJobDTO(job *models.Job) JobDTO {
	items := make([]LineItemDTO, 0, len(job.Items))
	for _, item := range job.Items {
		items = append(items, toLineItemDTO(item))
	}
	return JobDTO{
		ID:           job.ID,
		ContractorID: job.ContractorID,
		ClientID:     job.ClientID,
		LeadID:       job.LeadID,
		Title:        job.Title,
		Status:       job.Status,
		TaxMode:      job.TaxMode,
		TaxRate:      job.TaxRate,
		Totals: TotalsDTO{
			BaseSubtotalCents: job.BaseSubtotalCents,
			MarkupTotalCents:  job.MarkupTotalCents,
			SubtotalCents:     job.SubtotalCents,
			TaxCents:          job.TaxCents,
			TotalCents:        job.TotalCents,
		},
		Items:        items,
		Notes:        job.Notes,
		ScheduledFor: job.ScheduledFor,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}
