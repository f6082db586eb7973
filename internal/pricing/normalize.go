package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

// RawLineItem is the union of the line-item shapes this service accepts:
// manual form entry, AI-suggested items, material search matches, and
// previously persisted job rows. Provider field-name drift (cost_per_unit vs
// costPerUnit vs rate vs price_unit) is resolved here, once, instead of
// scattering fallback chains through callers.
type RawLineItem struct {
	Description *string `json:"description,omitempty"`
	Name        *string `json:"name,omitempty"`

	Quantity *float64 `json:"quantity,omitempty"`
	Qty      *float64 `json:"qty,omitempty"`

	UnitCost         *float64 `json:"unit_cost,omitempty"`
	CostPerUnit      *float64 `json:"cost_per_unit,omitempty"`
	CostPerUnitCamel *float64 `json:"costPerUnit,omitempty"`
	Rate             *float64 `json:"rate,omitempty"`
	PriceUnit        *float64 `json:"price_unit,omitempty"`

	MarkupPercentage      *float64 `json:"markup_percentage,omitempty"`
	MarkupPercentageCamel *float64 `json:"markupPercentage,omitempty"`

	IsTaxable *bool    `json:"is_taxable,omitempty"`
	Taxable   *bool    `json:"taxable,omitempty"`
	TaxRate   *float64 `json:"tax_rate,omitempty"`

	Unit          *string `json:"unit,omitempty"`
	UnitOfMeasure *string `json:"unit_of_measure,omitempty"`
}

// NormalizeItem maps one raw item onto the canonical LineItem. A raw item
// missing every recognized variant of a required field fails with a
// normalization error, as does an item whose variants carry conflicting
// values; optional fields take their documented defaults (markup 0,
// taxable true, unit "each").
func NormalizeItem(raw RawLineItem) (LineItem, error) {
	description, ok := firstString(raw.Description, raw.Name)
	if !ok {
		return LineItem{}, normalizationError("description")
	}

	quantity, ok, err := resolveNumber("quantity", raw.Quantity, raw.Qty)
	if err != nil {
		return LineItem{}, err
	}
	if !ok {
		return LineItem{}, normalizationError("quantity")
	}

	unitCost, ok, err := resolveNumber("unit cost", raw.UnitCost, raw.CostPerUnit, raw.CostPerUnitCamel, raw.Rate, raw.PriceUnit)
	if err != nil {
		return LineItem{}, err
	}
	if !ok {
		return LineItem{}, normalizationError("unit cost")
	}

	markup := decimal.Zero
	if value, ok, err := resolveNumber("markup percentage", raw.MarkupPercentage, raw.MarkupPercentageCamel); err != nil {
		return LineItem{}, err
	} else if ok {
		markup = value
	}

	taxable := true
	if raw.IsTaxable != nil {
		taxable = *raw.IsTaxable
	} else if raw.Taxable != nil {
		taxable = *raw.Taxable
	}

	taxRate := decimal.Zero
	if raw.TaxRate != nil {
		taxRate = decimal.NewFromFloat(*raw.TaxRate)
	}

	unit := DefaultUnit
	if value, ok := firstString(raw.Unit, raw.UnitOfMeasure); ok {
		unit = value
	}

	return LineItem{
		Description:   description,
		Quantity:      quantity,
		UnitCost:      unitCost,
		MarkupPercent: markup,
		Taxable:       taxable,
		TaxRate:       taxRate,
		Unit:          unit,
	}, nil
}

// NormalizeItems maps a batch, reporting the index of the first item that
// cannot be normalized.
func NormalizeItems(raws []RawLineItem) ([]LineItem, error) {
	items := make([]LineItem, 0, len(raws))
	for i, raw := range raws {
		item, err := NormalizeItem(raw)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				details := map[string]any{"item_index": i}
				if inner, ok := typed.Details().(map[string]any); ok {
					for k, v := range inner {
						details[k] = v
					}
				}
				return nil, pkgerrors.New(typed.Code(), typed.Message()).WithDetails(details)
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func normalizationError(field string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNormalization, "line item is missing a required value").
		WithDetails(map[string]any{"field": field})
}

func firstString(candidates ...*string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*candidate); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}

// resolveNumber collapses the variant spellings of one numeric field. Distinct
// values across variants mean the payload disagrees with itself, which is
// rejected rather than resolved by preferring one spelling.
func resolveNumber(field string, candidates ...*float64) (decimal.Decimal, bool, error) {
	resolved := decimal.Zero
	found := false
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		value := decimal.NewFromFloat(*candidate)
		if !found {
			resolved = value
			found = true
			continue
		}
		if !resolved.Equal(value) {
			return decimal.Zero, false, pkgerrors.New(pkgerrors.CodeNormalization, "line item carries conflicting values for one field").
				WithDetails(map[string]any{"field": field})
		}
	}
	return resolved, found, nil
}
