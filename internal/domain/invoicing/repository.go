package invoicing

import (
	"context"
)

// Repository is the persistence gateway for invoice mutations.
// Each call issues a single parameterized statement.
type Repository interface {
	// Insert creates an invoice; the store generates its ID
	Insert(ctx context.Context, invoice NewInvoice) error

	// Update overwrites customer, amount and status of the invoice with the given ID.
	// It returns the number of rows affected.
	Update(ctx context.Context, id string, changes InvoiceChanges) (int64, error)

	// Delete removes the invoice with the given ID and returns the number of rows affected
	Delete(ctx context.Context, id string) (int64, error)
}

// QueryRepository serves the read side of the dashboard
type QueryRepository interface {
	// FindFiltered returns one page of invoices whose customer, amount, date
	// or status match the query, newest first
	FindFiltered(ctx context.Context, query string, page, pageSize int) ([]InvoiceView, error)

	// CountFiltered counts the invoices matching the query
	CountFiltered(ctx context.Context, query string) (int64, error)

	// FindByID finds an invoice by its ID
	FindByID(ctx context.Context, id string) (*Invoice, error)
}

// CustomerRepository provides the customers offered by the invoice forms
type CustomerRepository interface {
	// FindAll returns all customers ordered by name
	FindAll(ctx context.Context) ([]Customer, error)
}
