package manager

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/model"
)

// InvoiceModel is the model name of journal entries, invoices included.
const InvoiceModel = "account.move"

// ErrInvalidDraft is returned for drafts that cannot become an invoice.
var ErrInvalidDraft = errors.New("invalid invoice draft")

// InvoiceManager creates and reads customer invoices.
type InvoiceManager struct {
	ex Executor
}

// NewInvoiceManager returns a manager over ex.
func NewInvoiceManager(ex Executor) *InvoiceManager {
	return &InvoiceManager{ex: ex}
}

// Create inserts a draft customer invoice and returns its id.
func (m *InvoiceManager) Create(ctx context.Context, d model.InvoiceDraft) (int64, error) {
	if err := validateDraft(d); err != nil {
		return 0, err
	}
	id, err := create(ctx, m.ex, InvoiceModel, d.Vals())
	if err != nil {
		return 0, err
	}
	zap.L().Debug("created invoice", zap.Int64("id", id), zap.Int64("partner_id", d.PartnerID), zap.Int("lines", len(d.Lines)))
	return id, nil
}

func validateDraft(d model.InvoiceDraft) error {
	if d.PartnerID <= 0 {
		return fmt.Errorf("%w: partner is required", ErrInvalidDraft)
	}
	if len(d.Lines) == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrInvalidDraft)
	}
	for i, l := range d.Lines {
		if l.Name == "" && l.ProductID == 0 {
			return fmt.Errorf("%w: line %d needs a product or a label", ErrInvalidDraft, i)
		}
		if l.Quantity.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative quantity", ErrInvalidDraft, i)
		}
	}
	return nil
}

// Post confirms a draft invoice.
func (m *InvoiceManager) Post(ctx context.Context, id int64) error {
	return call(ctx, m.ex, InvoiceModel, "action_post", id)
}

// Get reads one invoice.
func (m *InvoiceManager) Get(ctx context.Context, id int64) (model.Invoice, error) {
	row, err := readOne(ctx, m.ex, InvoiceModel, id, model.InvoiceFields)
	if err != nil {
		return model.Invoice{}, err
	}
	return model.DecodeInvoice(row), nil
}

// ListForPartner returns the partner's customer invoices, newest first.
func (m *InvoiceManager) ListForPartner(ctx context.Context, partnerID int64, q Query) ([]model.Invoice, error) {
	if q.Order == "" {
		q.Order = "invoice_date desc, id desc"
	}
	domain := model.Where("partner_id", "=", partnerID).And("move_type", "=", model.MoveTypeOutInvoice)
	rows, err := searchRead(ctx, m.ex, InvoiceModel, domain, model.InvoiceFields, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DecodeInvoice(row))
	}
	return out, nil
}

// StepError reports which step of a multi-call flow failed. ID is the
// record created before the failure, zero if none.
type StepError struct {
	Step string
	ID   int64
	Err  error
}

func (e *StepError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s (record %d): %v", e.Step, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// CreateAndPost creates the invoice, posts it and reads it back. A failure
// after the create is a *StepError carrying the new invoice id.
func (m *InvoiceManager) CreateAndPost(ctx context.Context, d model.InvoiceDraft) (model.Invoice, error) {
	id, err := m.Create(ctx, d)
	if err != nil {
		return model.Invoice{}, &StepError{Step: "create", Err: err}
	}
	if err := m.Post(ctx, id); err != nil {
		zap.L().Warn("invoice left in draft", zap.Int64("id", id), zap.Error(err))
		return model.Invoice{}, &StepError{Step: "post", ID: id, Err: err}
	}
	inv, err := m.Get(ctx, id)
	if err != nil {
		return model.Invoice{}, &StepError{Step: "read", ID: id, Err: err}
	}
	return inv, nil
}
