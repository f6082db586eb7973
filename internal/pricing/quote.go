package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

// QuoteTotals is the aggregate output over a set of line items. Amounts are
// rounded to two decimals; BaseSubtotal + MarkupTotal == SubtotalWithMarkup
// holds exactly because the marked-up subtotal is the sum of the two rounded
// aggregates, not a separately rounded value.
type QuoteTotals struct {
	BaseSubtotal       decimal.Decimal
	MarkupTotal        decimal.Decimal
	SubtotalWithMarkup decimal.Decimal
	TaxAmount          decimal.Decimal
	Total              decimal.Decimal
}

// ComputeQuote values every line item, accumulates the base and markup sums at
// full precision, rounds once, then applies tax in the requested mode.
//
// An empty item slice yields all-zero totals.
func ComputeQuote(items []LineItem, mode enums.TaxMode, uniformRate decimal.Decimal) (QuoteTotals, error) {
	if !mode.IsValid() {
		return QuoteTotals{}, pkgerrors.New(pkgerrors.CodeValidation, "tax mode is required").
			WithDetails(map[string]any{"tax_mode": string(mode)})
	}

	baseSum := decimal.Zero
	markupSum := decimal.Zero
	taxLines := make([]TaxLine, 0, len(items))

	for i, item := range items {
		valuation, err := ValueItem(item)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				return QuoteTotals{}, pkgerrors.New(typed.Code(), typed.Message()).
					WithDetails(map[string]any{"item_index": i})
			}
			return QuoteTotals{}, err
		}
		baseSum = baseSum.Add(valuation.ExtendedBase)
		markupSum = markupSum.Add(valuation.MarkupAmount)
		taxLines = append(taxLines, TaxLine{
			Amount:  valuation.ExtendedWithMarkup,
			Rate:    item.TaxRate,
			Taxable: item.Taxable,
		})
	}

	baseSubtotal := money.Round2(baseSum)
	markupTotal := money.Round2(markupSum)
	subtotalWithMarkup := baseSubtotal.Add(markupTotal)

	taxAmount, err := ComputeTax(mode, uniformRate, subtotalWithMarkup, taxLines)
	if err != nil {
		return QuoteTotals{}, err
	}

	return QuoteTotals{
		BaseSubtotal:       baseSubtotal,
		MarkupTotal:        markupTotal,
		SubtotalWithMarkup: subtotalWithMarkup,
		TaxAmount:          taxAmount,
		Total:              subtotalWithMarkup.Add(taxAmount),
	}, nil
}
