package models

import (
	"time"

	"github.com/invoicedash/backend/internal/domain/invoicing"
)

// InvoiceModel is the persistence model for the invoices table.
// Amount is stored in cents.
type InvoiceModel struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID string    `gorm:"column:customer_id;type:uuid;not null"`
	Amount     int64     `gorm:"column:amount;not null"`
	Status     string    `gorm:"column:status;type:varchar(255);not null"`
	Date       time.Time `gorm:"column:date;type:date;not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	return &invoicing.Invoice{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		AmountCents: m.Amount,
		Status:      invoicing.Status(m.Status),
		Date:        m.Date,
	}
}

// InvoiceViewRow is one row of the invoices listing query
type InvoiceViewRow struct {
	ID       string
	Amount   int64
	Date     time.Time
	Status   string
	Name     string
	Email    string
	ImageURL string `gorm:"column:image_url"`
}

// ToDomain converts the row to a domain InvoiceView
func (r *InvoiceViewRow) ToDomain() invoicing.InvoiceView {
	return invoicing.InvoiceView{
		ID:            r.ID,
		AmountCents:   r.Amount,
		Date:          r.Date,
		Status:        invoicing.Status(r.Status),
		CustomerName:  r.Name,
		CustomerEmail: r.Email,
		ImageURL:      r.ImageURL,
	}
}

// CustomerModel is the persistence model for the customers table
type CustomerModel struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey"`
	Name     string `gorm:"column:name;type:varchar(255);not null"`
	Email    string `gorm:"column:email;type:varchar(255);not null"`
	ImageURL string `gorm:"column:image_url;type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() invoicing.Customer {
	return invoicing.Customer{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		ImageURL: m.ImageURL,
	}
}
