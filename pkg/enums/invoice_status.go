package enums

import "fmt"

// InvoiceStatus describes the lifecycle of a customer-facing invoice.
//
// The forward path is draft → sent → viewed → signed → paid. overdue is
// reachable from sent, viewed, and signed when the due date passes unpaid, and
// an overdue invoice can still be paid.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusViewed  InvoiceStatus = "viewed"
	InvoiceStatusSigned  InvoiceStatus = "signed"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

var validInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusViewed,
	InvoiceStatusSigned,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusSent},
	InvoiceStatusSent:    {InvoiceStatusViewed, InvoiceStatusSigned, InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusViewed:  {InvoiceStatusSigned, InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusSigned:  {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
	InvoiceStatusPaid:    {},
}

// IsValid reports whether the value matches the canonical invoice status enum.
func (s InvoiceStatus) IsValid() bool {
	for _, candidate := range validInvoiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the move from the current status to next is
// allowed.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, candidate := range invoiceTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AcceptsPayment reports whether payments may be recorded against an invoice
// in this status.
func (s InvoiceStatus) AcceptsPayment() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusSigned, InvoiceStatusOverdue:
		return true
	}
	return false
}

// ParseInvoiceStatus converts the raw string to InvoiceStatus.
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	for _, candidate := range validInvoiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice status %q", value)
}
