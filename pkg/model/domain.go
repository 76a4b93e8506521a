package model

// Domain is an Odoo search filter in prefix notation: a list of
// [field, operator, value] leaves and the operators "&", "|" and "!".
// Consecutive expressions are implicitly and-ed.
type Domain []any

// Where starts a domain with one leaf.
func Where(field, op string, value any) Domain {
	return Domain{[]any{field, op, value}}
}

// And appends a leaf. The receiver is not modified.
func (d Domain) And(field, op string, value any) Domain {
	out := make(Domain, 0, len(d)+1)
	out = append(out, d...)
	return append(out, []any{field, op, value})
}

// Or joins domains with "|". Empty domains are skipped, and each operand
// with several implicitly and-ed expressions is grouped with "&" first.
func Or(ds ...Domain) Domain {
	var parts []Domain
	for _, d := range ds {
		if len(d) > 0 {
			parts = append(parts, d.grouped())
		}
	}
	if len(parts) == 0 {
		return Domain{}
	}
	var out Domain
	for i := 1; i < len(parts); i++ {
		out = append(out, "|")
	}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Not negates d.
func Not(d Domain) Domain {
	if len(d) == 0 {
		return Domain{}
	}
	return append(Domain{"!"}, d.grouped()...)
}

// List returns d as a plain slice for the wire.
func (d Domain) List() []any {
	if d == nil {
		return []any{}
	}
	return []any(d)
}

// expressions counts the top-level expressions in d.
func (d Domain) expressions() int {
	n := 0
	for _, item := range d {
		switch item {
		case "&", "|":
			n--
		case "!":
		default:
			n++
		}
	}
	return n
}

func (d Domain) grouped() Domain {
	n := d.expressions()
	if n <= 1 {
		return d
	}
	out := make(Domain, 0, len(d)+n-1)
	for i := 1; i < n; i++ {
		out = append(out, "&")
	}
	return append(out, d...)
}
