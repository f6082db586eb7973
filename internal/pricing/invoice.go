package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

// InvoiceInput extends quote totals with discount and payment data. At most
// one of DiscountAmount and DiscountPercent may be set; neither means no
// discount.
type InvoiceInput struct {
	DiscountAmount  *decimal.Decimal
	DiscountPercent *decimal.Decimal
	AmountPaid      decimal.Decimal
}

// InvoiceTotals is the reconciled invoice: the quote aggregates plus the
// resolved discount, the final total, and the balance still due.
type InvoiceTotals struct {
	QuoteTotals
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	BalanceDue     decimal.Decimal
}

// ReconcileInvoice resolves the discount, computes the final total and the
// balance due. Overpayment is flagged, never clamped: a payment exceeding the
// final total is a data error the caller must surface.
func ReconcileInvoice(quote QuoteTotals, input InvoiceInput) (InvoiceTotals, error) {
	if input.DiscountAmount != nil && input.DiscountPercent != nil {
		return InvoiceTotals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount amount and discount percentage are mutually exclusive")
	}
	if input.AmountPaid.Sign() < 0 {
		return InvoiceTotals{}, pkgerrors.New(pkgerrors.CodeValidation, "amount paid cannot be negative").
			WithDetails(map[string]any{"amount_paid": input.AmountPaid.String()})
	}

	discount := decimal.Zero
	switch {
	case input.DiscountPercent != nil:
		pct := *input.DiscountPercent
		if pct.Sign() < 0 || pct.GreaterThan(decimal.NewFromInt(100)) {
			return InvoiceTotals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be within [0,100]").
				WithDetails(map[string]any{"discount_percentage": pct.String()})
		}
		discount = money.MultiplyPercent(quote.SubtotalWithMarkup, pct)
	case input.DiscountAmount != nil:
		discount = money.Round2(*input.DiscountAmount)
		if discount.Sign() < 0 {
			return InvoiceTotals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount amount cannot be negative").
				WithDetails(map[string]any{"discount_amount": discount.String()})
		}
	}

	if discount.GreaterThan(quote.SubtotalWithMarkup) {
		return InvoiceTotals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds subtotal").
			WithDetails(map[string]any{
				"discount_amount": discount.String(),
				"subtotal":        quote.SubtotalWithMarkup.String(),
			})
	}

	finalTotal := money.Round2(quote.SubtotalWithMarkup.Sub(discount).Add(quote.TaxAmount))
	if input.AmountPaid.GreaterThan(finalTotal) {
		return InvoiceTotals{}, pkgerrors.New(pkgerrors.CodeOverpayment, "amount paid exceeds invoice total").
			WithDetails(map[string]any{
				"amount_paid": input.AmountPaid.String(),
				"total":       finalTotal.String(),
			})
	}

	return InvoiceTotals{
		QuoteTotals:    quote,
		DiscountAmount: discount,
		Total:          finalTotal,
		BalanceDue:     money.Round2(finalTotal.Sub(input.AmountPaid)),
	}, nil
}
