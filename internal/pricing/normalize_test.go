package pricing

import (
	"testing"

	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool       { return &b }

func TestNormalizeItemSnakeCaseJobShape(t *testing.T) {
	t.Parallel()

	item, err := NormalizeItem(RawLineItem{
		Description:      strPtr("2x4 lumber"),
		Quantity:         floatPtr(40),
		CostPerUnit:      floatPtr(6.25),
		MarkupPercentage: floatPtr(15),
		IsTaxable:        boolPtr(true),
		Unit:             strPtr("board"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Description != "2x4 lumber" || item.Unit != "board" {
		t.Fatalf("unexpected normalization %+v", item)
	}
	if item.UnitCost.StringFixed(2) != "6.25" || item.MarkupPercent.StringFixed(2) != "15.00" {
		t.Fatalf("unexpected amounts %+v", item)
	}
}

func TestNormalizeItemAgreeingVariants(t *testing.T) {
	t.Parallel()

	// A payload may repeat the same cost under multiple spellings as long as
	// the values agree.
	item, err := NormalizeItem(RawLineItem{
		Name:             strPtr("Paint"),
		Qty:              floatPtr(3),
		UnitCost:         floatPtr(29.99),
		CostPerUnitCamel: floatPtr(29.99),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.UnitCost.StringFixed(2) != "29.99" {
		t.Fatalf("unexpected unit cost %s", item.UnitCost)
	}
}

func TestNormalizeItemConflictingCostVariants(t *testing.T) {
	t.Parallel()

	_, err := NormalizeItem(RawLineItem{
		Name:     strPtr("Paint"),
		Qty:      floatPtr(3),
		UnitCost: floatPtr(29.99),
		Rate:     floatPtr(31.50),
	})
	if err == nil {
		t.Fatal("expected normalization error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNormalization {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["field"] != "unit cost" {
		t.Fatalf("expected field detail, got %v", typed.Details())
	}
}

func TestNormalizeItemConflictingQuantityVariants(t *testing.T) {
	t.Parallel()

	_, err := NormalizeItem(RawLineItem{
		Name:     strPtr("Paint"),
		Quantity: floatPtr(3),
		Qty:      floatPtr(4),
		UnitCost: floatPtr(29.99),
	})
	if err == nil {
		t.Fatal("expected normalization error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNormalization {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["field"] != "quantity" {
		t.Fatalf("expected field detail, got %v", typed.Details())
	}
}

func TestNormalizeItemAISuggestionShape(t *testing.T) {
	t.Parallel()

	item, err := NormalizeItem(RawLineItem{
		Name:      strPtr("Copper pipe 3/4in"),
		Quantity:  floatPtr(12),
		PriceUnit: floatPtr(18.40),
		Unit:      strPtr("ft"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.UnitCost.StringFixed(2) != "18.40" || item.Unit != "ft" {
		t.Fatalf("unexpected normalization %+v", item)
	}
	if !item.Taxable {
		t.Fatal("taxable should default to true")
	}
	if !item.MarkupPercent.IsZero() {
		t.Fatal("markup should default to zero")
	}
}

func TestNormalizeItemDefaultsUnit(t *testing.T) {
	t.Parallel()

	item, err := NormalizeItem(RawLineItem{
		Description: strPtr("Disposal fee"),
		Quantity:    floatPtr(1),
		Rate:        floatPtr(150),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Unit != DefaultUnit {
		t.Fatalf("expected default unit, got %q", item.Unit)
	}
}

func TestNormalizeItemMissingCost(t *testing.T) {
	t.Parallel()

	_, err := NormalizeItem(RawLineItem{
		Description: strPtr("Mystery line"),
		Quantity:    floatPtr(2),
	})
	if err == nil {
		t.Fatal("expected normalization error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNormalization {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeItemsReportsIndex(t *testing.T) {
	t.Parallel()

	_, err := NormalizeItems([]RawLineItem{
		{Description: strPtr("ok"), Quantity: floatPtr(1), UnitCost: floatPtr(5)},
		{Description: strPtr("broken"), UnitCost: floatPtr(5)},
	})
	if err == nil {
		t.Fatal("expected normalization error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNormalization {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["item_index"] != 1 {
		t.Fatalf("expected item index detail, got %v", typed.Details())
	}
}
