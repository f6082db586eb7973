package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

func TestValueItemComputesDerivedAmounts(t *testing.T) {
	t.Parallel()

	valuation, err := ValueItem(LineItem{
		Description:   "Drywall sheets",
		Quantity:      decimal.NewFromInt(1),
		UnitCost:      decimal.NewFromInt(1000),
		MarkupPercent: decimal.NewFromInt(20),
		Taxable:       true,
		Unit:          "each",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := valuation.ExtendedBase.StringFixed(2); got != "1000.00" {
		t.Errorf("extended base = %s, want 1000.00", got)
	}
	if got := valuation.MarkupAmount.StringFixed(2); got != "200.00" {
		t.Errorf("markup amount = %s, want 200.00", got)
	}
	if got := valuation.ExtendedWithMarkup.StringFixed(2); got != "1200.00" {
		t.Errorf("extended with markup = %s, want 1200.00", got)
	}
	if got := valuation.UnitPriceWithMarkup.StringFixed(2); got != "1200.00" {
		t.Errorf("unit price with markup = %s, want 1200.00", got)
	}
}

func TestValueItemMarkupInvariant(t *testing.T) {
	t.Parallel()

	for _, markup := range []int64{0, 1, 15, 100, 250} {
		valuation, err := ValueItem(LineItem{
			Description:   "Labor",
			Quantity:      decimal.NewFromFloat(7.5),
			UnitCost:      decimal.NewFromFloat(85.25),
			MarkupPercent: decimal.NewFromInt(markup),
		})
		if err != nil {
			t.Fatalf("markup %d: unexpected error: %v", markup, err)
		}
		if valuation.ExtendedWithMarkup.LessThan(valuation.ExtendedBase) {
			t.Errorf("markup %d: marked-up extension below base", markup)
		}
		equal := valuation.ExtendedWithMarkup.Equal(valuation.ExtendedBase)
		if markup == 0 && !equal {
			t.Errorf("zero markup should leave extension unchanged")
		}
		if markup > 0 && equal {
			t.Errorf("markup %d should raise the extension", markup)
		}
	}
}

func TestValueItemRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	cases := map[string]LineItem{
		"zero quantity":     {Description: "x", Quantity: decimal.Zero, UnitCost: decimal.NewFromInt(1)},
		"negative quantity": {Description: "x", Quantity: decimal.NewFromInt(-2), UnitCost: decimal.NewFromInt(1)},
		"negative cost":     {Description: "x", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(-5)},
		"negative markup":   {Description: "x", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1), MarkupPercent: decimal.NewFromInt(-1)},
		"empty description": {Description: "  ", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)},
	}

	for name, item := range cases {
		_, err := ValueItem(item)
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}
