package invoicing

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/invoicedash/backend/internal/domain/invoicing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const customerID = "3958dc9e-712f-4377-85e9-fec4b6a6442a"

func validForm() url.Values {
	return url.Values{
		invoicing.FieldCustomerID: {customerID},
		invoicing.FieldAmount:     {"157.95"},
		invoicing.FieldStatus:     {"pending"},
	}
}

func newTestService(t *testing.T) (*Service, *MockRepository, *MockInvalidator, *observer.ObservedLogs) {
	t.Helper()
	repo := new(MockRepository)
	invalidator := new(MockInvalidator)
	core, logs := observer.New(zapcore.DebugLevel)

	svc := NewService(repo, invalidator, zap.New(core))
	svc.now = func() time.Time {
		return time.Date(2024, 3, 1, 2, 30, 0, 0, time.FixedZone("KST", 9*60*60))
	}
	return svc, repo, invalidator, logs
}

func TestActionResult(t *testing.T) {
	redirect := Redirect("/dashboard/invoices")
	assert.True(t, redirect.IsRedirect())
	assert.Equal(t, "/dashboard/invoices", redirect.RedirectTo())
	assert.Equal(t, ActionState{}, redirect.State())

	render := Render(ActionState{Message: "x"})
	assert.False(t, render.IsRedirect())
	assert.Equal(t, "x", render.State().Message)
}

func TestService_CreateInvoice_Success(t *testing.T) {
	svc, repo, invalidator, _ := newTestService(t)

	form := validForm()
	form.Set("date", "1999-01-01")
	form.Set("id", "client-chosen-id")

	repo.On("Insert", mock.Anything, invoicing.NewInvoice{
		CustomerID:  customerID,
		AmountCents: 15795,
		Status:      invoicing.StatusPending,
		Date:        "2024-02-29",
	}).Return(nil)
	invalidator.On("Invalidate", mock.Anything, "/dashboard/invoices").Return()

	result := svc.CreateInvoice(context.Background(), ActionState{}, form)

	assert.True(t, result.IsRedirect())
	assert.Equal(t, "/dashboard/invoices", result.RedirectTo())
	repo.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestService_CreateInvoice_RoundsHalfAwayFromZero(t *testing.T) {
	svc, repo, invalidator, _ := newTestService(t)
	form := validForm()
	form.Set(invoicing.FieldAmount, "10.005")

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(inv invoicing.NewInvoice) bool {
		return inv.AmountCents == 1001
	})).Return(nil)
	invalidator.On("Invalidate", mock.Anything, mock.Anything).Return()

	result := svc.CreateInvoice(context.Background(), ActionState{}, form)

	assert.True(t, result.IsRedirect())
	repo.AssertExpectations(t)
}

func TestService_CreateInvoice_ValidationFailure(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantFields []string
	}{
		{
			name:       "empty form",
			form:       url.Values{},
			wantFields: []string{"customerId", "amount", "status"},
		},
		{
			name:       "zero amount",
			form:       url.Values{"customerId": {customerID}, "amount": {"0"}, "status": {"paid"}},
			wantFields: []string{"amount"},
		},
		{
			name:       "negative amount",
			form:       url.Values{"customerId": {customerID}, "amount": {"-5"}, "status": {"paid"}},
			wantFields: []string{"amount"},
		},
		{
			name:       "unknown status",
			form:       url.Values{"customerId": {customerID}, "amount": {"10"}, "status": {"archived"}},
			wantFields: []string{"status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, invalidator, _ := newTestService(t)

			result := svc.CreateInvoice(context.Background(), ActionState{}, tt.form)

			require.False(t, result.IsRedirect())
			state := result.State()
			assert.Equal(t, MsgCreateMissingFields, state.Message)
			assert.Len(t, state.Errors, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, state.Errors, field)
			}
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		})
	}
}

func TestService_CreateInvoice_PersistenceFailure(t *testing.T) {
	svc, repo, invalidator, logs := newTestService(t)
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("insert or update violates foreign key constraint"))

	result := svc.CreateInvoice(context.Background(), ActionState{}, validForm())

	require.False(t, result.IsRedirect())
	assert.Equal(t, ActionState{Message: MsgCreateFailed}, result.State())
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	assert.Equal(t, 1, logs.FilterMessage("Failed to create invoice").FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestService_UpdateInvoice_Success(t *testing.T) {
	svc, repo, invalidator, _ := newTestService(t)
	form := validForm()
	form.Set(invoicing.FieldStatus, "paid")

	repo.On("Update", mock.Anything, "inv-1", invoicing.InvoiceChanges{
		CustomerID:  customerID,
		AmountCents: 15795,
		Status:      invoicing.StatusPaid,
	}).Return(int64(1), nil)
	invalidator.On("Invalidate", mock.Anything, "/dashboard/invoices").Return()

	result := svc.UpdateInvoice(context.Background(), "inv-1", ActionState{}, form)

	assert.Equal(t, "/dashboard/invoices", result.RedirectTo())
	repo.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestService_UpdateInvoice_ZeroRowsStillRedirects(t *testing.T) {
	svc, repo, invalidator, logs := newTestService(t)
	repo.On("Update", mock.Anything, "missing", mock.Anything).Return(int64(0), nil)
	invalidator.On("Invalidate", mock.Anything, "/dashboard/invoices").Return()

	result := svc.UpdateInvoice(context.Background(), "missing", ActionState{}, validForm())

	assert.True(t, result.IsRedirect())
	assert.Equal(t, 1, logs.FilterMessage("Update matched no invoice").Len())
}

func TestService_UpdateInvoice_Failures(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		form := validForm()
		form.Del(invoicing.FieldCustomerID)

		result := svc.UpdateInvoice(context.Background(), "inv-1", ActionState{}, form)

		assert.Equal(t, MsgUpdateMissingFields, result.State().Message)
		assert.Equal(t, []string{invoicing.MsgSelectCustomer}, result.State().Errors[invoicing.FieldCustomerID])
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persistence", func(t *testing.T) {
		svc, repo, invalidator, _ := newTestService(t)
		repo.On("Update", mock.Anything, "inv-1", mock.Anything).Return(int64(0), errors.New("timeout"))

		result := svc.UpdateInvoice(context.Background(), "inv-1", ActionState{}, validForm())

		assert.Equal(t, ActionState{Message: MsgUpdateFailed}, result.State())
		invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestService_DeleteInvoice(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc, repo, invalidator, _ := newTestService(t)
		repo.On("Delete", mock.Anything, "inv-1").Return(int64(1), nil)
		invalidator.On("Invalidate", mock.Anything, "/dashboard/invoices").Return()

		state := svc.DeleteInvoice(context.Background(), "inv-1")

		assert.Equal(t, ActionState{Message: "Deleted Invoice."}, state)
		invalidator.AssertExpectations(t)
	})

	t.Run("missing invoice still reports deleted", func(t *testing.T) {
		svc, repo, invalidator, _ := newTestService(t)
		repo.On("Delete", mock.Anything, "missing").Return(int64(0), nil)
		invalidator.On("Invalidate", mock.Anything, "/dashboard/invoices").Return()

		state := svc.DeleteInvoice(context.Background(), "missing")

		assert.Equal(t, "Deleted Invoice.", state.Message)
	})

	t.Run("persistence failure", func(t *testing.T) {
		svc, repo, invalidator, _ := newTestService(t)
		repo.On("Delete", mock.Anything, "inv-1").Return(int64(0), errors.New("connection reset"))

		state := svc.DeleteInvoice(context.Background(), "inv-1")

		assert.Equal(t, ActionState{Message: "Database Error: Failed to Delete Invoice."}, state)
		invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}
