package invoicing

import (
	"context"

	"github.com/invoicedash/backend/internal/domain/invoicing"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of invoicing.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, invoice invoicing.NewInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, id string, changes invoicing.InvoiceChanges) (int64, error) {
	args := m.Called(ctx, id, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockQueryRepository is a mock implementation of invoicing.QueryRepository
type MockQueryRepository struct {
	mock.Mock
}

func (m *MockQueryRepository) FindFiltered(ctx context.Context, query string, page, pageSize int) ([]invoicing.InvoiceView, error) {
	args := m.Called(ctx, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.InvoiceView), args.Error(1)
}

func (m *MockQueryRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQueryRepository) FindByID(ctx context.Context, id string) (*invoicing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

// MockCustomerRepository is a mock implementation of invoicing.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindAll(ctx context.Context) ([]invoicing.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.Customer), args.Error(1)
}

// MockInvalidator records invalidated paths
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, path string) {
	m.Called(ctx, path)
}
