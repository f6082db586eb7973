package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

// DefaultUnit is used when an incoming line item carries no unit of measure.
const DefaultUnit = "each"

// LineItem is the canonical priced row of a quote or invoice. All external
// shapes are mapped onto this struct at the boundary before any computation.
type LineItem struct {
	Description   string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	MarkupPercent decimal.Decimal
	Taxable       bool
	TaxRate       decimal.Decimal
	Unit          string
}

// ItemValuation holds the derived amounts for one line item. All four values
// are full precision; callers round at aggregate boundaries.
type ItemValuation struct {
	ExtendedBase        decimal.Decimal
	MarkupAmount        decimal.Decimal
	ExtendedWithMarkup  decimal.Decimal
	UnitPriceWithMarkup decimal.Decimal
}

// ValueItem computes the derived amounts for a single line item. Invalid
// input is rejected with a validation error rather than coerced to defaults.
func ValueItem(item LineItem) (ItemValuation, error) {
	if strings.TrimSpace(item.Description) == "" {
		return ItemValuation{}, pkgerrors.New(pkgerrors.CodeValidation, "line item description is required")
	}
	if item.Quantity.Sign() <= 0 {
		return ItemValuation{}, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be greater than zero").
			WithDetails(map[string]any{"quantity": item.Quantity.String()})
	}
	if item.UnitCost.Sign() < 0 {
		return ItemValuation{}, pkgerrors.New(pkgerrors.CodeValidation, "line item unit cost cannot be negative").
			WithDetails(map[string]any{"unit_cost": item.UnitCost.String()})
	}
	if item.MarkupPercent.Sign() < 0 {
		return ItemValuation{}, pkgerrors.New(pkgerrors.CodeValidation, "line item markup percentage cannot be negative").
			WithDetails(map[string]any{"markup_percentage": item.MarkupPercent.String()})
	}
	if item.TaxRate.Sign() < 0 {
		return ItemValuation{}, pkgerrors.New(pkgerrors.CodeValidation, "line item tax rate cannot be negative").
			WithDetails(map[string]any{"tax_rate": item.TaxRate.String()})
	}

	extendedBase := item.Quantity.Mul(item.UnitCost)
	markupAmount := money.Percent(extendedBase, item.MarkupPercent)

	return ItemValuation{
		ExtendedBase:        extendedBase,
		MarkupAmount:        markupAmount,
		ExtendedWithMarkup:  extendedBase.Add(markupAmount),
		UnitPriceWithMarkup: item.UnitCost.Add(money.Percent(item.UnitCost, item.MarkupPercent)),
	}, nil
}
