package spec

import (
	"strings"

	"github.com/syssam/scaffold/schema/field"
)

// Render returns the canonical form of a field list:
//
//	name:type[:modifier[(arg)]]*
//
// joined by commas. Modifiers are written in a fixed order, so rendering
// is stable and the output is accepted unchanged by Parse.
func Render(fields []field.Descriptor) string {
	clauses := make([]string, len(fields))
	for i, f := range fields {
		clauses[i] = RenderField(f)
	}
	return strings.Join(clauses, ",")
}

// RenderField returns the canonical form of a single field.
func RenderField(d field.Descriptor) string {
	var b strings.Builder
	b.WriteString(d.Name)
	b.WriteByte(':')
	b.WriteString(d.Type.String())
	for _, k := range d.Modifiers.Keys() {
		b.WriteByte(':')
		b.WriteString(k)
		switch v := d.Modifiers[k]; v.Kind {
		case field.KindFlag:
		case field.KindString:
			b.WriteByte('(')
			b.WriteString(quote(v.Raw))
			b.WriteByte(')')
		default:
			b.WriteByte('(')
			b.WriteString(v.Raw)
			b.WriteByte(')')
		}
	}
	return b.String()
}

// quote wraps a string payload in double quotes when parsing it back would
// otherwise trim its surrounding whitespace or strip its own quotes.
func quote(raw string) string {
	if raw == "" {
		return raw
	}
	if raw != strings.TrimSpace(raw) || isQuote(raw[0]) || isQuote(raw[len(raw)-1]) {
		return `"` + raw + `"`
	}
	return raw
}

func isQuote(c byte) bool { return c == '"' || c == '\'' }
