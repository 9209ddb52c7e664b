package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/invoicing"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const (
	insertInvoiceSQL = "INSERT INTO invoices (customer_id, amount, status, date) VALUES (?, ?, ?, ?)"
	updateInvoiceSQL = "UPDATE invoices SET customer_id = ?, amount = ?, status = ? WHERE id = ?"
	deleteInvoiceSQL = "DELETE FROM invoices WHERE id = ?"

	invoiceSearchClause = "LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ? OR " +
		"CAST(invoices.amount AS TEXT) LIKE ? OR CAST(invoices.date AS TEXT) LIKE ? OR LOWER(invoices.status) LIKE ?"

	invoiceViewColumns = "invoices.id, invoices.amount, invoices.date, invoices.status, " +
		"customers.name, customers.email, customers.image_url"
)

// GormInvoiceRepository implements invoicing.Repository and invoicing.QueryRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Insert creates an invoice row. The ID is generated by the column default.
func (r *GormInvoiceRepository) Insert(ctx context.Context, invoice invoicing.NewInvoice) error {
	return r.db.WithContext(ctx).Exec(insertInvoiceSQL,
		invoice.CustomerID,
		invoice.AmountCents,
		invoice.Status.String(),
		invoice.Date,
	).Error
}

// Update overwrites customer, amount and status. The date column is never touched.
func (r *GormInvoiceRepository) Update(ctx context.Context, id string, changes invoicing.InvoiceChanges) (int64, error) {
	result := r.db.WithContext(ctx).Exec(updateInvoiceSQL,
		changes.CustomerID,
		changes.AmountCents,
		changes.Status.String(),
		id,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes an invoice by ID
func (r *GormInvoiceRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Exec(deleteInvoiceSQL, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByID finds an invoice by ID. Malformed IDs are reported as not found.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id string) (*invoicing.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, shared.ErrNotFound
	}

	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindFiltered returns one page of matching invoices joined with their customer, newest first
func (r *GormInvoiceRepository) FindFiltered(ctx context.Context, query string, page, pageSize int) ([]invoicing.InvoiceView, error) {
	if page < 1 {
		page = 1
	}

	var rows []models.InvoiceViewRow
	err := r.filtered(ctx, query).
		Select(invoiceViewColumns).
		Order("invoices.date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]invoicing.InvoiceView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views, nil
}

// CountFiltered counts the invoices matching the query
func (r *GormInvoiceRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	var count int64
	if err := r.filtered(ctx, query).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) filtered(ctx context.Context, query string) *gorm.DB {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	return r.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Where(invoiceSearchClause, pattern, pattern, pattern, pattern, pattern)
}

var (
	_ invoicing.Repository      = (*GormInvoiceRepository)(nil)
	_ invoicing.QueryRepository = (*GormInvoiceRepository)(nil)
)
