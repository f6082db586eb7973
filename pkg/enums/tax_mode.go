package enums

import "fmt"

// TaxMode selects how tax is applied to a quote or invoice. It is always an
// explicit input: uniform applies one rate to the whole marked-up subtotal,
// per_item sums tax per taxable line at that line's own rate.
type TaxMode string

const (
	TaxModeUniform TaxMode = "uniform"
	TaxModePerItem TaxMode = "per_item"
)

var validTaxModes = []TaxMode{
	TaxModeUniform,
	TaxModePerItem,
}

// IsValid reports whether the value matches the canonical tax mode enum.
func (m TaxMode) IsValid() bool {
	for _, candidate := range validTaxModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseTaxMode converts the raw string to TaxMode.
func ParseTaxMode(value string) (TaxMode, error) {
	for _, candidate := range validTaxModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax mode %q", value)
}
