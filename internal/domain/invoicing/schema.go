package invoicing

import (
	"github.com/go-playground/validator/v10"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// Form field names read from an invoice submission
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// Field validation messages
const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountPositive = "Please enter an amount greater than $0."
	MsgAmountTooLarge = "Please enter an amount no greater than $21,474,836.47."
	MsgSelectStatus   = "Please select an invoice status."
)

// FormValues is the raw form source. url.Values satisfies it.
type FormValues interface {
	Get(key string) string
}

// FieldErrors maps a field name to its ordered validation messages
type FieldErrors map[string][]string

// Add appends a message for a field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// HasErrors returns true if any field failed validation
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

var validate = validator.New()

// ValidateInvoiceForm checks the customer, amount and status fields of a form.
// Every field is checked, so the result lists all invalid fields at once.
// The id and date fields are never read from the form.
func ValidateInvoiceForm(form FormValues) (Draft, FieldErrors) {
	errs := make(FieldErrors)

	customerID := form.Get(FieldCustomerID)
	if err := validate.Var(customerID, "required"); err != nil {
		errs.Add(FieldCustomerID, MsgSelectCustomer)
	}

	// Amounts that round to zero cents would be stored as $0
	amount, err := valueobject.NewMoneyFromString(form.Get(FieldAmount))
	switch {
	case err != nil || !amount.IsPositive():
		errs.Add(FieldAmount, MsgAmountPositive)
	case !amount.FitsCents():
		errs.Add(FieldAmount, MsgAmountTooLarge)
	case amount.Cents() < 1:
		errs.Add(FieldAmount, MsgAmountPositive)
	}

	status := form.Get(FieldStatus)
	if err := validate.Var(status, "required,oneof=pending paid"); err != nil {
		errs.Add(FieldStatus, MsgSelectStatus)
	}

	if errs.HasErrors() {
		return Draft{}, errs
	}

	return Draft{
		CustomerID: customerID,
		Amount:     amount,
		Status:     Status(status),
	}, nil
}
