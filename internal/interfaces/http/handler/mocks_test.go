package handler

import (
	"context"

	appidentity "github.com/invoicedash/backend/internal/application/identity"
	appinvoicing "github.com/invoicedash/backend/internal/application/invoicing"
	"github.com/invoicedash/backend/internal/domain/identity"
	"github.com/invoicedash/backend/internal/domain/invoicing"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceActions is a mock implementation of InvoiceActions
type MockInvoiceActions struct {
	mock.Mock
}

func (m *MockInvoiceActions) CreateInvoice(ctx context.Context, prev appinvoicing.ActionState, form invoicing.FormValues) appinvoicing.ActionResult {
	args := m.Called(ctx, prev, form)
	return args.Get(0).(appinvoicing.ActionResult)
}

func (m *MockInvoiceActions) UpdateInvoice(ctx context.Context, id string, prev appinvoicing.ActionState, form invoicing.FormValues) appinvoicing.ActionResult {
	args := m.Called(ctx, id, prev, form)
	return args.Get(0).(appinvoicing.ActionResult)
}

func (m *MockInvoiceActions) DeleteInvoice(ctx context.Context, id string) appinvoicing.ActionState {
	args := m.Called(ctx, id)
	return args.Get(0).(appinvoicing.ActionState)
}

// MockInvoiceQueries is a mock implementation of InvoiceQueries
type MockInvoiceQueries struct {
	mock.Mock
}

func (m *MockInvoiceQueries) ListInvoices(ctx context.Context, query string, page int) (*appinvoicing.InvoicePage, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appinvoicing.InvoicePage), args.Error(1)
}

func (m *MockInvoiceQueries) GetInvoice(ctx context.Context, id string) (*appinvoicing.InvoiceForm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appinvoicing.InvoiceForm), args.Error(1)
}

func (m *MockInvoiceQueries) ListCustomers(ctx context.Context) ([]appinvoicing.CustomerField, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appinvoicing.CustomerField), args.Error(1)
}

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, prevMessage string, form identity.FormValues) (appidentity.AuthOutcome, error) {
	args := m.Called(ctx, prevMessage, form)
	return args.Get(0).(appidentity.AuthOutcome), args.Error(1)
}

// MockSessionEnder is a mock implementation of SessionEnder
type MockSessionEnder struct {
	mock.Mock
}

func (m *MockSessionEnder) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// stubPinger returns err from Ping
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
