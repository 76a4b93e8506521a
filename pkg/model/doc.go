// Package model defines the Go-side view of the Odoo records the SDK works
// with: partners, products, invoices, subscriptions, and the field schemas
// returned by fields_get.
//
// # Decoding
//
// The XML-RPC transport yields generic values: map[string]any for structs,
// []any for arrays, int64, float64, string and bool. Odoo encodes an empty
// value of any type as false, so a missing email arrives as false rather
// than "" and an unset many2one as false rather than [id, name]. The decode
// helpers (String, Int, Bool, Decimal, IDs, ParseMany2one) accept both forms:
//
//	rec := rows[0]
//	p := model.Partner{
//		ID:      model.Int(rec["id"]),
//		Email:   model.String(rec["email"]),   // "" when false
//		Country: model.ParseMany2one(rec["country_id"]),
//	}
//
// DecodePartner, DecodeProduct, DecodeInvoice and DecodeSubscription do this
// for the field lists in PartnerFields, ProductFields, InvoiceFields and
// SubscriptionFields.
//
// # Amounts
//
// Monetary fields are carried as decimal.Decimal. Odoo sends them as doubles,
// which are converted with decimal.NewFromFloat; outgoing amounts are sent
// as float64 again since XML-RPC has no decimal type.
//
// # Domains
//
// Domain builds the prefix-notation filters search and search_read take:
//
//	d := model.Where("email", "=ilike", "ada@example.com").
//		And("active", "=", true)
//	rows, err := caller.Execute(ctx, "res.partner", "search_read",
//		[]any{d.List()}, map[string]any{"fields": model.PartnerFields})
//
// # Field schemas
//
// ParseFields turns a fields_get reply into Fields keyed by field name.
// Selection options are flattened into Option values.
package model
