package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2HalfAwayFromZero(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1.005":  "1.01",
		"1.004":  "1.00",
		"-1.005": "-1.01",
		"2.675":  "2.68",
		"0":      "0.00",
	}

	for input, want := range cases {
		d, err := decimal.NewFromString(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got := Round2(d).StringFixed(2); got != want {
			t.Errorf("Round2(%s) = %s, want %s", input, got, want)
		}
	}
}

func TestMultiplyPercent(t *testing.T) {
	t.Parallel()

	got := MultiplyPercent(decimal.NewFromInt(1500), decimal.NewFromInt(8))
	if got.StringFixed(2) != "120.00" {
		t.Fatalf("expected 120.00, got %s", got)
	}

	got = MultiplyPercent(decimal.NewFromFloat(2900), decimal.NewFromFloat(7.5))
	if got.StringFixed(2) != "217.50" {
		t.Fatalf("expected 217.50, got %s", got)
	}
}

func TestCentsRoundTrip(t *testing.T) {
	t.Parallel()

	amount := decimal.NewFromFloat(1176.00)
	if got := Cents(amount); got != 117600 {
		t.Fatalf("expected 117600 cents, got %d", got)
	}
	if got := FromCents(117600); !got.Equal(amount) {
		t.Fatalf("expected %s, got %s", amount, got)
	}
}

func TestPercentKeepsFullPrecision(t *testing.T) {
	t.Parallel()

	// 10.01 * 3.33% = 0.333333; rounding must not happen until the caller asks.
	full := Percent(decimal.NewFromFloat(10.01), decimal.NewFromFloat(3.33))
	if full.Equal(Round2(full)) {
		t.Fatalf("expected unrounded intermediate, got %s", full)
	}
}
