package model

import "github.com/shopspring/decimal"

// One2many/many2many write commands.
const (
	CommandCreate = 0
	CommandSet    = 6
)

// MoveTypeOutInvoice is the account.move type of customer invoices.
const MoveTypeOutInvoice = "out_invoice"

// Amount converts d to the float64 XML-RPC carries.
func Amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Vals returns the values for creating p. Empty strings and references are
// left out so server defaults apply.
func (p Partner) Vals() map[string]any {
	vals := map[string]any{
		"name":       p.Name,
		"is_company": p.IsCompany,
	}
	putString(vals, "email", p.Email)
	putString(vals, "phone", p.Phone)
	putString(vals, "vat", p.VAT)
	putString(vals, "street", p.Street)
	putString(vals, "city", p.City)
	putString(vals, "zip", p.Zip)
	putString(vals, "ref", p.Ref)
	putRef(vals, "country_id", p.Country.ID)
	putRef(vals, "parent_id", p.Parent.ID)
	return vals
}

// Vals returns the values for creating p.
func (p Product) Vals() map[string]any {
	vals := map[string]any{
		"name":       p.Name,
		"list_price": Amount(p.ListPrice),
	}
	putString(vals, "default_code", p.DefaultCode)
	putString(vals, "type", p.Type)
	putRef(vals, "uom_id", p.Uom.ID)
	return vals
}

// Vals returns the account.move values for d, lines included as create
// commands.
func (d InvoiceDraft) Vals() map[string]any {
	lines := make([]any, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, []any{CommandCreate, 0, l.vals()})
	}
	vals := map[string]any{
		"move_type":        MoveTypeOutInvoice,
		"partner_id":       d.PartnerID,
		"invoice_line_ids": lines,
	}
	putString(vals, "invoice_date", d.InvoiceDate)
	putString(vals, "invoice_date_due", d.DueDate)
	putString(vals, "ref", d.Reference)
	return vals
}

func (l InvoiceLine) vals() map[string]any {
	vals := map[string]any{
		"name":       l.Name,
		"quantity":   Amount(l.Quantity),
		"price_unit": Amount(l.PriceUnit),
	}
	putRef(vals, "product_id", l.ProductID)
	if len(l.TaxIDs) > 0 {
		vals["tax_ids"] = []any{[]any{CommandSet, 0, l.TaxIDs}}
	}
	return vals
}

// Vals returns the sale.order values for d, lines included as create
// commands.
func (d SubscriptionDraft) Vals() map[string]any {
	lines := make([]any, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, []any{CommandCreate, 0, map[string]any{
			"product_id":      l.ProductID,
			"product_uom_qty": Amount(l.Quantity),
			"price_unit":      Amount(l.PriceUnit),
		}})
	}
	vals := map[string]any{
		"partner_id": d.PartnerID,
		"plan_id":    d.PlanID,
		"order_line": lines,
	}
	putString(vals, "start_date", d.StartDate)
	return vals
}

func putString(vals map[string]any, key, v string) {
	if v != "" {
		vals[key] = v
	}
}

func putRef(vals map[string]any, key string, id int64) {
	if id != 0 {
		vals[key] = id
	}
}
