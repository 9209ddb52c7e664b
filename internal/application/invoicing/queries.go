package invoicing

import (
	"context"
	"errors"

	"github.com/invoicedash/backend/internal/domain/invoicing"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PageSize is the number of invoices per listing page
const PageSize = 6

// InvoiceRow is one invoice in the listing
type InvoiceRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ImageURL    string `json:"image_url"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
}

// InvoicePage is one page of the filtered listing
type InvoicePage struct {
	Invoices   []InvoiceRow `json:"invoices"`
	Query      string       `json:"query"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Total      int64        `json:"total"`
}

// InvoiceForm is an invoice as shown in the edit form, amount in dollars
type InvoiceForm struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

// CustomerField is a customer option of the invoice forms
type CustomerField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// QueryService serves the dashboard read side
type QueryService struct {
	invoices  invoicing.QueryRepository
	customers invoicing.CustomerRepository
	logger    *zap.Logger
}

// NewQueryService creates a new query service
func NewQueryService(invoices invoicing.QueryRepository, customers invoicing.CustomerRepository, logger *zap.Logger) *QueryService {
	return &QueryService{
		invoices:  invoices,
		customers: customers,
		logger:    logger,
	}
}

// ListInvoices returns one page of invoices matching query. Pages start at 1.
func (s *QueryService) ListInvoices(ctx context.Context, query string, page int) (*InvoicePage, error) {
	ctx, span := telemetry.StartSpan(ctx, "invoicing", "ListInvoices")
	defer span.End()

	if page < 1 {
		page = 1
	}

	total, err := s.invoices.CountFiltered(ctx, query)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.WithLogger(ctx, s.logger).Error("Failed to count invoices", zap.Error(err))
		return nil, err
	}

	views, err := s.invoices.FindFiltered(ctx, query, page, PageSize)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.WithLogger(ctx, s.logger).Error("Failed to fetch invoices", zap.Error(err))
		return nil, err
	}

	rows := make([]InvoiceRow, len(views))
	for i, v := range views {
		rows[i] = InvoiceRow{
			ID:          v.ID,
			Name:        v.CustomerName,
			Email:       v.CustomerEmail,
			ImageURL:    v.ImageURL,
			Date:        v.Date.Format(invoicing.DateLayout),
			Amount:      invoicing.Invoice{AmountCents: v.AmountCents}.Amount().Format(),
			AmountCents: v.AmountCents,
			Status:      v.Status.String(),
		}
	}

	return &InvoicePage{
		Invoices:   rows,
		Query:      query,
		Page:       page,
		TotalPages: totalPages(total, PageSize),
		Total:      total,
	}, nil
}

// GetInvoice returns an invoice for the edit form. Unknown IDs yield shared.ErrNotFound.
func (s *QueryService) GetInvoice(ctx context.Context, id string) (*InvoiceForm, error) {
	ctx, span := telemetry.StartSpan(ctx, "invoicing", "GetInvoice", telemetry.SpanAttrInvoiceID, id)
	defer span.End()

	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			logger.WithLogger(ctx, s.logger).Error("Failed to fetch invoice", zap.String("invoice_id", id), zap.Error(err))
		}
		return nil, err
	}

	return &InvoiceForm{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount().String(),
		Status:     invoice.Status.String(),
		Date:       invoice.Date.Format(invoicing.DateLayout),
	}, nil
}

// ListCustomers returns the customers offered by the invoice forms, ordered by name
func (s *QueryService) ListCustomers(ctx context.Context) ([]CustomerField, error) {
	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to fetch customers", zap.Error(err))
		return nil, err
	}

	fields := make([]CustomerField, len(customers))
	for i, c := range customers {
		fields[i] = CustomerField{ID: c.ID, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL}
	}
	return fields, nil
}

func totalPages(total int64, size int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
