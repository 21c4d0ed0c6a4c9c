// Package relation infers the record types that reference fields point at.
package relation

import (
	"fmt"
	"strings"

	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/schema/field"
)

// DefaultAction is the referential action used when a field sets none.
const DefaultAction = "cascade"

// Actions lists the referential actions a reference field may declare.
var Actions = []string{"cascade", "restrict", "set null", "no action", "set default"}

// Hint describes the relationship implied by a reference field.
type Hint struct {
	// Field is the name of the reference column, e.g. author_id.
	Field string
	// Owner is the record type declaring the field, e.g. Post.
	Owner string
	// Table is the referenced table, e.g. authors.
	Table string
	// RecordType is the referenced record type, e.g. Author.
	RecordType string
	// Accessor is the belongs-to accessor on the owner, e.g. author.
	Accessor string
	// InverseAccessor is the suggested has-many accessor on the
	// referenced record type, e.g. posts.
	InverseAccessor string
	// Explicit reports if the table was given with on(...).
	Explicit bool
	OnDelete string
	OnUpdate string
}

// Resolve returns the relationship hint of a reference field declared by
// the owner record type. It returns false for fields of any other type.
//
// The referenced table is taken from the on(...) modifier when present,
// otherwise it is the pluralized field name without its _id suffix. The
// record type is always derived from the table in effect.
func Resolve(owner string, d field.Descriptor) (Hint, bool) {
	if !d.Type.IsReference() {
		return Hint{}, false
	}
	h := Hint{
		Field:    d.Name,
		Owner:    owner,
		OnDelete: action(d, field.OnDelete),
		OnUpdate: action(d, field.OnUpdate),
	}
	if on := strings.TrimSpace(d.Modifiers.Str(field.On)); on != "" {
		h.Table, h.Explicit = on, true
	} else {
		h.Table = naming.Plural(strings.TrimSuffix(d.Name, "_id"))
	}
	h.RecordType = naming.Record(h.Table)
	h.Accessor = naming.Camel(h.RecordType)
	h.InverseAccessor = naming.Plural(naming.Camel(owner))
	return h, true
}

// ResolveAll returns the hints of all reference fields, in field order.
func ResolveAll(owner string, fields []field.Descriptor) []Hint {
	var hints []Hint
	for _, f := range fields {
		if h, ok := Resolve(owner, f); ok {
			hints = append(hints, h)
		}
	}
	return hints
}

// Suggestion returns the advice printed after generation for adding the
// inverse accessor by hand. It is never written to any file.
func (h Hint) Suggestion() string {
	return fmt.Sprintf("add a has-many accessor %q on %s returning the %s records whose %s matches its id",
		h.InverseAccessor, h.RecordType, h.Owner, h.Field)
}

// Column returns the referenced column.
func (h Hint) Column() string { return "id" }

// ValidAction reports if a is one of the supported referential actions.
func ValidAction(a string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	for _, v := range Actions {
		if a == v {
			return true
		}
	}
	return false
}

func action(d field.Descriptor, key string) string {
	if v := strings.TrimSpace(d.Modifiers.Str(key)); v != "" {
		return strings.ToLower(v)
	}
	return DefaultAction
}
