package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	appinvoicing "github.com/invoicedash/backend/internal/application/invoicing"
	"github.com/invoicedash/backend/internal/domain/invoicing"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
)

// InvoiceActions are the invoice mutations behind the dashboard forms
type InvoiceActions interface {
	CreateInvoice(ctx context.Context, prev appinvoicing.ActionState, form invoicing.FormValues) appinvoicing.ActionResult
	UpdateInvoice(ctx context.Context, id string, prev appinvoicing.ActionState, form invoicing.FormValues) appinvoicing.ActionResult
	DeleteInvoice(ctx context.Context, id string) appinvoicing.ActionState
}

// InvoiceQueries are the dashboard reads
type InvoiceQueries interface {
	ListInvoices(ctx context.Context, query string, page int) (*appinvoicing.InvoicePage, error)
	GetInvoice(ctx context.Context, id string) (*appinvoicing.InvoiceForm, error)
	ListCustomers(ctx context.Context) ([]appinvoicing.CustomerField, error)
}

// InvoiceHandler serves the /dashboard invoice routes
type InvoiceHandler struct {
	BaseHandler
	actions InvoiceActions
	queries InvoiceQueries
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(actions InvoiceActions, queries InvoiceQueries) *InvoiceHandler {
	return &InvoiceHandler{
		actions: actions,
		queries: queries,
	}
}

// Create handles POST /dashboard/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.BadRequest(c, "Invalid form body")
		return
	}

	result := h.actions.CreateInvoice(c.Request.Context(), appinvoicing.ActionState{}, form)
	h.writeResult(c, result)
}

// Update handles POST /dashboard/invoices/:id/edit
func (h *InvoiceHandler) Update(c *gin.Context) {
	var uri dto.InvoiceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	form, err := formValues(c)
	if err != nil {
		h.BadRequest(c, "Invalid form body")
		return
	}

	result := h.actions.UpdateInvoice(c.Request.Context(), uri.ID, appinvoicing.ActionState{}, form)
	h.writeResult(c, result)
}

// Delete handles POST /dashboard/invoices/:id/delete
func (h *InvoiceHandler) Delete(c *gin.Context) {
	var uri dto.InvoiceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	state := h.actions.DeleteInvoice(c.Request.Context(), uri.ID)
	if state.Message != appinvoicing.MsgDeleted {
		h.Message(c, http.StatusInternalServerError, state.Message)
		return
	}
	h.Message(c, http.StatusOK, state.Message)
}

// List handles GET /dashboard/invoices?query=&page=
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.queries.ListInvoices(c.Request.Context(), req.Query, req.Page)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Invoices, &dto.Meta{
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   appinvoicing.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Get handles GET /dashboard/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	var uri dto.InvoiceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.queries.GetInvoice(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Customers handles GET /dashboard/customers
func (h *InvoiceHandler) Customers(c *gin.Context) {
	customers, err := h.queries.ListCustomers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// writeResult maps an action result to the response: redirects become 303,
// field errors 422 and persistence failures 500
func (h *InvoiceHandler) writeResult(c *gin.Context, result appinvoicing.ActionResult) {
	if result.IsRedirect() {
		h.SeeOther(c, result.RedirectTo())
		return
	}

	state := result.State()
	if state.HasFieldErrors() {
		c.JSON(http.StatusUnprocessableEntity, state)
		return
	}
	c.JSON(http.StatusInternalServerError, state)
}
