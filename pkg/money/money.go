package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds the amount to two decimal places, half away from zero.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// MultiplyPercent applies a percentage (in points, e.g. 8.0 for 8%) to the base
// amount and rounds the result to two decimal places.
func MultiplyPercent(base, percent decimal.Decimal) decimal.Decimal {
	return Round2(Percent(base, percent))
}

// Percent applies a percentage to the base amount at full precision. Callers
// that accumulate several percentage terms should sum these and round once at
// the aggregate boundary.
func Percent(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

// FromFloat converts a float amount into a decimal. Amounts cross the API
// boundary as JSON numbers, so the conversion happens once at the edge.
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// Cents converts a rounded currency amount into integer cents for storage.
func Cents(amount decimal.Decimal) int64 {
	return Round2(amount).Mul(hundred).IntPart()
}

// FromCents converts stored integer cents back into a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}
