package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

func quoteTotals(subtotal, tax float64) QuoteTotals {
	sub := decimal.NewFromFloat(subtotal)
	return QuoteTotals{
		BaseSubtotal:       sub,
		MarkupTotal:        decimal.Zero,
		SubtotalWithMarkup: sub,
		TaxAmount:          decimal.NewFromFloat(tax),
		Total:              sub.Add(decimal.NewFromFloat(tax)),
	}
}

func decimalPtr(value float64) *decimal.Decimal {
	d := decimal.NewFromFloat(value)
	return &d
}

func TestReconcileInvoicePercentDiscount(t *testing.T) {
	t.Parallel()

	totals, err := ReconcileInvoice(quoteTotals(1200, 96), InvoiceInput{
		DiscountPercent: decimalPtr(10),
		AmountPaid:      decimal.NewFromFloat(1176),
	})
	require.NoError(t, err)

	require.Equal(t, "120.00", totals.DiscountAmount.StringFixed(2))
	require.Equal(t, "1176.00", totals.Total.StringFixed(2))
	require.Equal(t, "0.00", totals.BalanceDue.StringFixed(2))
}

func TestReconcileInvoiceNoDiscount(t *testing.T) {
	t.Parallel()

	totals, err := ReconcileInvoice(quoteTotals(1500, 120), InvoiceInput{AmountPaid: decimal.NewFromInt(500)})
	require.NoError(t, err)

	require.Equal(t, "0.00", totals.DiscountAmount.StringFixed(2))
	require.Equal(t, "1620.00", totals.Total.StringFixed(2))
	require.Equal(t, "1120.00", totals.BalanceDue.StringFixed(2))
}

func TestReconcileInvoiceOverpaymentByOneCent(t *testing.T) {
	t.Parallel()

	_, err := ReconcileInvoice(quoteTotals(1200, 96), InvoiceInput{
		DiscountPercent: decimalPtr(10),
		AmountPaid:      decimal.NewFromFloat(1176.01),
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeOverpayment, typed.Code())
}

func TestReconcileInvoiceRejectsConflictingDiscounts(t *testing.T) {
	t.Parallel()

	_, err := ReconcileInvoice(quoteTotals(1000, 0), InvoiceInput{
		DiscountAmount:  decimalPtr(50),
		DiscountPercent: decimalPtr(5),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestReconcileInvoiceRejectsDiscountAboveSubtotal(t *testing.T) {
	t.Parallel()

	_, err := ReconcileInvoice(quoteTotals(1000, 80), InvoiceInput{DiscountAmount: decimalPtr(1000.01)})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestReconcileInvoiceRejectsPercentAbove100(t *testing.T) {
	t.Parallel()

	_, err := ReconcileInvoice(quoteTotals(1000, 0), InvoiceInput{DiscountPercent: decimalPtr(100.5)})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestReconcileInvoiceRejectsNegativePayment(t *testing.T) {
	t.Parallel()

	_, err := ReconcileInvoice(quoteTotals(100, 0), InvoiceInput{AmountPaid: decimal.NewFromInt(-1)})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
