package invoicing

import (
	"time"

	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// ListingPath is the canonical route of the invoices listing view.
// Successful mutations invalidate it and navigate back to it.
const ListingPath = "/dashboard/invoices"

// DateLayout is the calendar date format stored with each invoice
const DateLayout = "2006-01-02"

// Status represents the payment status of an invoice
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// IsValid checks if the status is one of the known values
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Draft is a validated invoice as submitted by the user.
// The customer reference is not checked here; the store's foreign key enforces it.
type Draft struct {
	CustomerID string
	Amount     valueobject.Money
	Status     Status
}

// AmountInCents returns the amount in integer minor units
func (d Draft) AmountInCents() int64 {
	return d.Amount.Cents()
}

// NewInvoice holds the columns written when an invoice is created
type NewInvoice struct {
	CustomerID  string
	AmountCents int64
	Status      Status
	Date        string
}

// NewInvoiceFromDraft stamps a draft with the creation date (UTC calendar day of now)
func NewInvoiceFromDraft(d Draft, now time.Time) NewInvoice {
	return NewInvoice{
		CustomerID:  d.CustomerID,
		AmountCents: d.AmountInCents(),
		Status:      d.Status,
		Date:        now.UTC().Format(DateLayout),
	}
}

// InvoiceChanges holds the columns written when an invoice is updated.
// The creation date is immutable and never part of an update.
type InvoiceChanges struct {
	CustomerID  string
	AmountCents int64
	Status      Status
}

// InvoiceChangesFromDraft converts a draft into update columns
func InvoiceChangesFromDraft(d Draft) InvoiceChanges {
	return InvoiceChanges{
		CustomerID:  d.CustomerID,
		AmountCents: d.AmountInCents(),
		Status:      d.Status,
	}
}

// Invoice is a persisted invoice row
type Invoice struct {
	ID          string
	CustomerID  string
	AmountCents int64
	Status      Status
	Date        time.Time
}

// Amount returns the invoice amount in dollars
func (i Invoice) Amount() valueobject.Money {
	return valueobject.NewMoneyFromCents(i.AmountCents)
}

// InvoiceView is a listing row: an invoice joined with its customer
type InvoiceView struct {
	ID            string
	AmountCents   int64
	Date          time.Time
	Status        Status
	CustomerName  string
	CustomerEmail string
	ImageURL      string
}

// Customer is a read-only customer record used by the invoice forms
type Customer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}
