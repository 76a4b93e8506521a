package model

import (
	"github.com/shopspring/decimal"
)

// Field describes one field of a model as reported by fields_get.
type Field struct {
	Name      string   `json:"name"`
	Label     string   `json:"string"`
	Type      string   `json:"type"`
	Required  bool     `json:"required"`
	Readonly  bool     `json:"readonly"`
	Relation  string   `json:"relation,omitempty"`
	Help      string   `json:"help,omitempty"`
	Selection []Option `json:"selection,omitempty"`
}

// Option is one (value, label) pair of a selection field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Fields maps field names to their definitions.
type Fields map[string]Field

// Many2one is a reference to another record, sent by Odoo as [id, display_name].
type Many2one struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IsZero reports whether the reference is empty.
func (m Many2one) IsZero() bool { return m.ID == 0 }

// Partner is a res.partner record.
type Partner struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	IsCompany bool     `json:"is_company"`
	VAT       string   `json:"vat,omitempty"`
	Street    string   `json:"street,omitempty"`
	City      string   `json:"city,omitempty"`
	Zip       string   `json:"zip,omitempty"`
	Country   Many2one `json:"country_id"`
	Parent    Many2one `json:"parent_id"`
	Ref       string   `json:"ref,omitempty"`
	Active    bool     `json:"active"`
}

// PartnerFields are read for every Partner.
var PartnerFields = []string{"name", "email", "phone", "is_company", "vat", "street", "city", "zip", "country_id", "parent_id", "ref", "active"}

// Product is a product.product record.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	DefaultCode string          `json:"default_code,omitempty"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Type        string          `json:"type"`
	Uom         Many2one        `json:"uom_id"`
	Active      bool            `json:"active"`
}

// ProductFields are read for every Product.
var ProductFields = []string{"name", "default_code", "list_price", "type", "uom_id", "active"}

// Invoice is a customer invoice (account.move with move_type out_invoice).
type Invoice struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Partner        Many2one        `json:"partner_id"`
	State          string          `json:"state"`
	MoveType       string          `json:"move_type"`
	InvoiceDate    string          `json:"invoice_date,omitempty"`
	DueDate        string          `json:"invoice_date_due,omitempty"`
	Reference      string          `json:"ref,omitempty"`
	Currency       Many2one        `json:"currency_id"`
	AmountUntaxed  decimal.Decimal `json:"amount_untaxed"`
	AmountTax      decimal.Decimal `json:"amount_tax"`
	AmountTotal    decimal.Decimal `json:"amount_total"`
	AmountResidual decimal.Decimal `json:"amount_residual"`
	PaymentState   string          `json:"payment_state"`
	LineIDs        []int64         `json:"invoice_line_ids"`
}

// InvoiceFields are read for every Invoice.
var InvoiceFields = []string{"name", "partner_id", "state", "move_type", "invoice_date", "invoice_date_due", "ref", "currency_id", "amount_untaxed", "amount_tax", "amount_total", "amount_residual", "payment_state", "invoice_line_ids"}

// Invoice states.
const (
	InvoiceStateDraft     = "draft"
	InvoiceStatePosted    = "posted"
	InvoiceStateCancelled = "cancel"
)

// InvoiceLine is a line of an invoice draft.
type InvoiceLine struct {
	ProductID int64           `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	PriceUnit decimal.Decimal `json:"price_unit"`
	TaxIDs    []int64         `json:"tax_ids,omitempty"`
}

// InvoiceDraft is the input for creating an invoice.
type InvoiceDraft struct {
	PartnerID   int64         `json:"partner_id"`
	InvoiceDate string        `json:"invoice_date,omitempty"`
	DueDate     string        `json:"invoice_date_due,omitempty"`
	Reference   string        `json:"ref,omitempty"`
	Lines       []InvoiceLine `json:"lines"`
}

// Subscription is a recurring sale order.
type Subscription struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Partner           Many2one        `json:"partner_id"`
	State             string          `json:"state"`
	SubscriptionState string          `json:"subscription_state,omitempty"`
	Plan              Many2one        `json:"plan_id"`
	StartDate         string          `json:"start_date,omitempty"`
	NextInvoiceDate   string          `json:"next_invoice_date,omitempty"`
	RecurringTotal    decimal.Decimal `json:"recurring_total"`
}

// SubscriptionFields are read for every Subscription.
var SubscriptionFields = []string{"name", "partner_id", "state", "subscription_state", "plan_id", "start_date", "next_invoice_date", "recurring_total"}

// SubscriptionLine is one recurring product of a new subscription.
type SubscriptionLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"product_uom_qty"`
	PriceUnit decimal.Decimal `json:"price_unit"`
}

// SubscriptionDraft is the input for creating a subscription.
type SubscriptionDraft struct {
	PartnerID int64              `json:"partner_id"`
	PlanID    int64              `json:"plan_id"`
	StartDate string             `json:"start_date,omitempty"`
	Lines     []SubscriptionLine `json:"lines"`
}
