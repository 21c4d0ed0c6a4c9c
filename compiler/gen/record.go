package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/compiler/relation"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
)

// reserved columns are added to every record by the generator.
var reserved = []string{"id", "created_at", "updated_at"}

// Record is the naming of one record type shared by all emitters.
type Record struct {
	// Name is the record type, e.g. BlogPost.
	Name string
	// Table is the table name, e.g. blog_posts.
	Table string
	// File is the base name of the per-record files, e.g. blog_post.
	File   string
	Fields []Field
	Hints  []relation.Hint
}

// Field is a descriptor with its generated names.
type Field struct {
	field.Descriptor
	// GoName is the struct field name, e.g. AuthorID.
	GoName string
	// Camel is the GraphQL field name, e.g. authorId.
	Camel string
	// Hint is set for reference fields.
	Hint *relation.Hint
}

// locals are the identifiers generated function bodies declare.
var locals = []string{"s", "ctx", "db", "err", "id", "now", "res", "row", "rows", "w", "r", "h", "mux", "prefix", "store", "items"}

// Var returns the variable name of a record value, e.g. blogPost.
func (r *Record) Var() string {
	v := naming.Camel(r.Name)
	if slices.Contains(locals, v) {
		v += "Rec"
	}
	return v
}

// Plural returns the plural camel name, e.g. blogPosts.
func (r *Record) Plural() string { return naming.Camel(naming.Plural(r.Name)) }

// Columns returns the table columns in declaration order, including the
// columns the generator adds.
func (r *Record) Columns() []string {
	cols := []string{"id"}
	for _, f := range r.Fields {
		cols = append(cols, f.Name)
	}
	return append(cols, "created_at", "updated_at")
}

// NewRecord validates the fields of a record type and resolves their
// names. Reserved columns are dropped with a warning. Duplicates, invalid
// names and enums without values are validation errors.
func NewRecord(name string, fields []field.Descriptor) (*Record, []string, error) {
	pascal := naming.Pascal(name)
	if pascal == "" || !dialect.IsValidIdentifier(pascal) {
		return nil, nil, NewValidationError(name, "", "invalid record name")
	}
	if len(fields) == 0 {
		return nil, nil, ErrNoFields
	}
	if dups := field.Duplicates(fields); len(dups) > 0 {
		return nil, nil, NewValidationError(pascal, dups[0], "declared more than once")
	}
	r := &Record{
		Name:  pascal,
		Table: naming.Table(pascal),
		File:  naming.Snake(pascal),
	}
	var warnings []string
	for _, d := range fields {
		switch {
		case slices.Contains(reserved, d.Name):
			warnings = append(warnings, fmt.Sprintf("%s: column %s is added by the generator, ignoring the field", pascal, d.Name))
			continue
		case !dialect.IsValidIdentifier(d.Name):
			return nil, nil, NewValidationError(pascal, d.Name, "invalid column name")
		case !d.Type.Valid():
			return nil, nil, NewValidationError(pascal, d.Name, "unknown type")
		case d.Type == field.TypeEnum && len(d.EnumValues()) == 0:
			return nil, nil, NewValidationError(pascal, d.Name, "enum without values")
		}
		f := Field{
			Descriptor: d,
			GoName:     naming.Pascal(d.Name),
			Camel:      naming.Camel(d.Name),
		}
		if def, ok := d.Default(); ok && d.Type == field.TypeBoolean && !field.IsBoolToken(def) {
			warnings = append(warnings, fmt.Sprintf("%s: default %q of boolean field %s is not a boolean and is written as is", pascal, def, d.Name))
		}
		if h, ok := relation.Resolve(pascal, d); ok {
			if h.OnDelete != "" && !relation.ValidAction(h.OnDelete) {
				return nil, nil, NewValidationError(pascal, d.Name, fmt.Sprintf("unsupported onDelete action %q", h.OnDelete))
			}
			if h.OnUpdate != "" && !relation.ValidAction(h.OnUpdate) {
				return nil, nil, NewValidationError(pascal, d.Name, fmt.Sprintf("unsupported onUpdate action %q", h.OnUpdate))
			}
			f.Hint = &h
			r.Hints = append(r.Hints, h)
		}
		r.Fields = append(r.Fields, f)
	}
	if len(r.Fields) == 0 {
		return nil, warnings, ErrNoFields
	}
	return r, warnings, nil
}

// BoolDefaults returns the boolean fields declaring a default. Their
// defaults are coerced to 1 or 0.
func (r *Record) BoolDefaults() []string {
	var names []string
	for _, f := range r.Fields {
		if _, ok := f.Default(); ok && f.Type == field.TypeBoolean {
			names = append(names, f.Name)
		}
	}
	return names
}
