package enums

import "testing"

func TestInvoiceStatusTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to InvoiceStatus }{
		{InvoiceStatusDraft, InvoiceStatusSent},
		{InvoiceStatusSent, InvoiceStatusViewed},
		{InvoiceStatusSent, InvoiceStatusOverdue},
		{InvoiceStatusViewed, InvoiceStatusSigned},
		{InvoiceStatusViewed, InvoiceStatusOverdue},
		{InvoiceStatusSigned, InvoiceStatusPaid},
		{InvoiceStatusSigned, InvoiceStatusOverdue},
		{InvoiceStatusOverdue, InvoiceStatusPaid},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Errorf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to InvoiceStatus }{
		{InvoiceStatusDraft, InvoiceStatusPaid},
		{InvoiceStatusDraft, InvoiceStatusOverdue},
		{InvoiceStatusPaid, InvoiceStatusSent},
		{InvoiceStatusViewed, InvoiceStatusSent},
		{InvoiceStatusOverdue, InvoiceStatusViewed},
	}
	for _, tt := range denied {
		if tt.from.CanTransitionTo(tt.to) {
			t.Errorf("expected %s -> %s to be denied", tt.from, tt.to)
		}
	}
}

func TestInvoiceStatusAcceptsPayment(t *testing.T) {
	t.Parallel()

	if InvoiceStatusDraft.AcceptsPayment() {
		t.Error("draft invoices must not accept payment")
	}
	if InvoiceStatusPaid.AcceptsPayment() {
		t.Error("paid invoices must not accept payment")
	}
	for _, status := range []InvoiceStatus{InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusSigned, InvoiceStatusOverdue} {
		if !status.AcceptsPayment() {
			t.Errorf("%s invoices should accept payment", status)
		}
	}
}

func TestParseTaxMode(t *testing.T) {
	t.Parallel()

	if mode, err := ParseTaxMode("per_item"); err != nil || mode != TaxModePerItem {
		t.Fatalf("unexpected parse result: %v %v", mode, err)
	}
	if _, err := ParseTaxMode("blended"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
