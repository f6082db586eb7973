package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/money"
)

// TaxLine is the per-line input to the tax calculation: the marked-up extended
// amount at full precision plus the line's own rate and taxability flag.
type TaxLine struct {
	Amount  decimal.Decimal
	Rate    decimal.Decimal
	Taxable bool
}

// ComputeTax applies tax in the requested mode. Quote and invoice flows share
// this one implementation; there is no default rate anywhere.
//
// uniform mode taxes the whole marked-up subtotal at uniformRate. per_item
// mode sums per-line tax, rounded per line, skipping non-taxable lines. When
// every line is taxable at the same rate the two modes agree within one cent;
// the residual is rounding order (once overall versus once per line).
func ComputeTax(mode enums.TaxMode, uniformRate decimal.Decimal, subtotalWithMarkup decimal.Decimal, lines []TaxLine) (decimal.Decimal, error) {
	switch mode {
	case enums.TaxModeUniform:
		if uniformRate.Sign() < 0 {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "uniform tax rate cannot be negative").
				WithDetails(map[string]any{"tax_rate": uniformRate.String()})
		}
		return money.MultiplyPercent(subtotalWithMarkup, uniformRate), nil

	case enums.TaxModePerItem:
		tax := decimal.Zero
		for i, line := range lines {
			if !line.Taxable {
				continue
			}
			if line.Rate.Sign() < 0 {
				return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "line tax rate cannot be negative").
					WithDetails(map[string]any{"item_index": i})
			}
			tax = tax.Add(money.MultiplyPercent(line.Amount, line.Rate))
		}
		return tax, nil

	default:
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "tax mode is required").
			WithDetails(map[string]any{"tax_mode": string(mode)})
	}
}
