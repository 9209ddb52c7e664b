package invoicing

import (
	"context"
	"time"

	"github.com/invoicedash/backend/internal/domain/invoicing"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Action messages
const (
	MsgCreateMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgCreateFailed        = "Database Error: Failed to Create Invoice."
	MsgUpdateMissingFields = "Missing Fields. Failed to Update Invoice."
	MsgUpdateFailed        = "Database Error: Failed to Update Invoice."
	MsgDeleteFailed        = "Database Error: Failed to Delete Invoice."
	MsgDeleted             = "Deleted Invoice."
)

// ActionState is the form state returned to the caller for re-rendering
type ActionState struct {
	Errors  invoicing.FieldErrors `json:"errors,omitempty"`
	Message string                `json:"message,omitempty"`
}

// HasFieldErrors reports whether the state carries validation errors
func (s ActionState) HasFieldErrors() bool {
	return s.Errors.HasErrors()
}

// ActionResult is either a redirect to a path or a state to re-render
type ActionResult struct {
	redirectTo string
	state      ActionState
}

// Redirect creates a result that navigates to path
func Redirect(path string) ActionResult {
	return ActionResult{redirectTo: path}
}

// Render creates a result that re-renders the form with state
func Render(state ActionState) ActionResult {
	return ActionResult{state: state}
}

// IsRedirect reports whether the result is a redirect
func (r ActionResult) IsRedirect() bool {
	return r.redirectTo != ""
}

// RedirectTo returns the redirect target, empty for render results
func (r ActionResult) RedirectTo() string {
	return r.redirectTo
}

// State returns the state to render, zero for redirect results
func (r ActionResult) State() ActionState {
	return r.state
}

// Invalidator drops cached views of a path
type Invalidator interface {
	Invalidate(ctx context.Context, path string)
}

// Service runs the invoice mutation actions
type Service struct {
	repo        invoicing.Repository
	invalidator Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new invoice action service
func NewService(repo invoicing.Repository, invalidator Invalidator, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateInvoice validates the form and inserts a new invoice dated today (UTC).
// The previous state is not consulted.
func (s *Service) CreateInvoice(ctx context.Context, _ ActionState, form invoicing.FormValues) ActionResult {
	ctx, span := telemetry.StartSpan(ctx, "invoicing", "CreateInvoice")
	defer span.End()
	log := logger.WithLogger(ctx, s.logger)

	draft, fieldErrs := invoicing.ValidateInvoiceForm(form)
	if fieldErrs.HasErrors() {
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "invalid")
		return Render(ActionState{Errors: fieldErrs, Message: MsgCreateMissingFields})
	}

	invoice := invoicing.NewInvoiceFromDraft(draft, s.now())
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, invoice.CustomerID,
		telemetry.SpanAttrAmount, invoice.AmountCents,
		telemetry.SpanAttrStatus, invoice.Status.String(),
	)

	if err := s.repo.Insert(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		log.Error("Failed to create invoice", zap.Error(err))
		return Render(ActionState{Message: MsgCreateFailed})
	}

	log.Info("Invoice created",
		zap.String("customer_id", invoice.CustomerID),
		zap.Int64("amount_cents", invoice.AmountCents))
	return s.redirectToListing(ctx, span)
}

// UpdateInvoice validates the form and overwrites customer, amount and status of invoice id.
// An update that matches no row still redirects.
func (s *Service) UpdateInvoice(ctx context.Context, id string, _ ActionState, form invoicing.FormValues) ActionResult {
	ctx, span := telemetry.StartSpan(ctx, "invoicing", "UpdateInvoice", telemetry.SpanAttrInvoiceID, id)
	defer span.End()
	log := logger.WithLogger(ctx, s.logger).With(zap.String("invoice_id", id))

	draft, fieldErrs := invoicing.ValidateInvoiceForm(form)
	if fieldErrs.HasErrors() {
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "invalid")
		return Render(ActionState{Errors: fieldErrs, Message: MsgUpdateMissingFields})
	}

	changes := invoicing.InvoiceChangesFromDraft(draft)
	affected, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("Failed to update invoice", zap.Error(err))
		return Render(ActionState{Message: MsgUpdateFailed})
	}
	if affected == 0 {
		log.Warn("Update matched no invoice")
	}

	log.Info("Invoice updated", zap.Int64("rows_affected", affected))
	return s.redirectToListing(ctx, span)
}

// DeleteInvoice removes invoice id. Deleting a missing invoice still succeeds.
func (s *Service) DeleteInvoice(ctx context.Context, id string) ActionState {
	ctx, span := telemetry.StartSpan(ctx, "invoicing", "DeleteInvoice", telemetry.SpanAttrInvoiceID, id)
	defer span.End()
	log := logger.WithLogger(ctx, s.logger).With(zap.String("invoice_id", id))

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("Failed to delete invoice", zap.Error(err))
		return ActionState{Message: MsgDeleteFailed}
	}
	if affected == 0 {
		log.Warn("Delete matched no invoice")
	}

	s.invalidator.Invalidate(ctx, invoicing.ListingPath)
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "deleted")
	log.Info("Invoice deleted", zap.Int64("rows_affected", affected))
	return ActionState{Message: MsgDeleted}
}

func (s *Service) redirectToListing(ctx context.Context, span trace.Span) ActionResult {
	s.invalidator.Invalidate(ctx, invoicing.ListingPath)
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "redirect")
	return Redirect(invoicing.ListingPath)
}
