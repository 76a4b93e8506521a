package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrUnexpectedType is returned when a reply does not have the shape a
// decoder expects.
var ErrUnexpectedType = errors.New("unexpected value type")

// String returns v as a string. Odoo's false and any non-string yield "".
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int returns v as an int64. Non-numeric values yield 0.
func Int(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// Bool returns v as a bool. Non-bool values yield false.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Decimal returns v as a decimal. Unparseable and false values yield zero.
func Decimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int64:
		return decimal.NewFromInt(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// IDs returns the record ids in a one2many/many2many value or a search reply.
func IDs(v any) []int64 {
	switch list := v.(type) {
	case []int64:
		return list
	case []any:
		out := make([]int64, 0, len(list))
		for _, item := range list {
			out = append(out, Int(item))
		}
		return out
	default:
		return nil
	}
}

// ParseMany2one decodes [id, display_name]. A bare id is accepted too.
func ParseMany2one(v any) Many2one {
	switch ref := v.(type) {
	case []any:
		if len(ref) == 0 {
			return Many2one{}
		}
		m := Many2one{ID: Int(ref[0])}
		if len(ref) > 1 {
			m.Name = String(ref[1])
		}
		return m
	case int64, int, float64:
		return Many2one{ID: Int(ref)}
	default:
		return Many2one{}
	}
}

// Records returns the rows of a read or search_read reply.
func Records(v any) ([]map[string]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a record list", ErrUnexpectedType, v)
	}
	rows := make([]map[string]any, 0, len(list))
	for i, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is %T", ErrUnexpectedType, i, item)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseFields decodes a fields_get reply.
func ParseFields(v any) (Fields, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a field map", ErrUnexpectedType, v)
	}
	fields := make(Fields, len(raw))
	for name, attrs := range raw {
		a, ok := attrs.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is %T", ErrUnexpectedType, name, attrs)
		}
		fields[name] = Field{
			Name:      name,
			Label:     String(a["string"]),
			Type:      String(a["type"]),
			Required:  Bool(a["required"]),
			Readonly:  Bool(a["readonly"]),
			Relation:  String(a["relation"]),
			Help:      String(a["help"]),
			Selection: parseSelection(a["selection"]),
		}
	}
	return fields, nil
}

func parseSelection(v any) []Option {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	opts := make([]Option, 0, len(list))
	for _, item := range list {
		pair, ok := item.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		opts = append(opts, Option{Value: fmt.Sprint(pair[0]), Label: String(pair[1])})
	}
	return opts
}

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodePartner builds a Partner from a read row.
func DecodePartner(row map[string]any) Partner {
	return Partner{
		ID:        Int(row["id"]),
		Name:      String(row["name"]),
		Email:     String(row["email"]),
		Phone:     String(row["phone"]),
		IsCompany: Bool(row["is_company"]),
		VAT:       String(row["vat"]),
		Street:    String(row["street"]),
		City:      String(row["city"]),
		Zip:       String(row["zip"]),
		Country:   ParseMany2one(row["country_id"]),
		Parent:    ParseMany2one(row["parent_id"]),
		Ref:       String(row["ref"]),
		Active:    Bool(row["active"]),
	}
}

// DecodeProduct builds a Product from a read row.
func DecodeProduct(row map[string]any) Product {
	return Product{
		ID:          Int(row["id"]),
		Name:        String(row["name"]),
		DefaultCode: String(row["default_code"]),
		ListPrice:   Decimal(row["list_price"]),
		Type:        String(row["type"]),
		Uom:         ParseMany2one(row["uom_id"]),
		Active:      Bool(row["active"]),
	}
}

// DecodeInvoice builds an Invoice from a read row.
func DecodeInvoice(row map[string]any) Invoice {
	return Invoice{
		ID:             Int(row["id"]),
		Name:           String(row["name"]),
		Partner:        ParseMany2one(row["partner_id"]),
		State:          String(row["state"]),
		MoveType:       String(row["move_type"]),
		InvoiceDate:    String(row["invoice_date"]),
		DueDate:        String(row["invoice_date_due"]),
		Reference:      String(row["ref"]),
		Currency:       ParseMany2one(row["currency_id"]),
		AmountUntaxed:  Decimal(row["amount_untaxed"]),
		AmountTax:      Decimal(row["amount_tax"]),
		AmountTotal:    Decimal(row["amount_total"]),
		AmountResidual: Decimal(row["amount_residual"]),
		PaymentState:   String(row["payment_state"]),
		LineIDs:        IDs(row["invoice_line_ids"]),
	}
}

// DecodeSubscription builds a Subscription from a read row.
func DecodeSubscription(row map[string]any) Subscription {
	return Subscription{
		ID:                Int(row["id"]),
		Name:              String(row["name"]),
		Partner:           ParseMany2one(row["partner_id"]),
		State:             String(row["state"]),
		SubscriptionState: String(row["subscription_state"]),
		Plan:              ParseMany2one(row["plan_id"]),
		StartDate:         String(row["start_date"]),
		NextInvoiceDate:   String(row["next_invoice_date"]),
		RecurringTotal:    Decimal(row["recurring_total"]),
	}
}
