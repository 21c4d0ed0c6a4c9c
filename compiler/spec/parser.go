// Package spec implements the field-spec mini-language:
//
//	FieldList := Field (',' Field)*
//	Field     := Name ':' Type (':' Modifier)*
//	Modifier  := Identifier ['(' Argument ')']
//
// For example:
//
//	title:string, body:text:nullable, author_id:foreign:onDelete(cascade)
//
// Type names and modifier keywords match case-insensitively. Parsing is
// best effort: a bad clause is reported through a Diagnostic and dropped,
// the remaining clauses are still returned.
package spec

import (
	"fmt"
	"strings"

	"github.com/syssam/scaffold/schema/field"
)

// Result holds the outcome of parsing a field list.
type Result struct {
	Fields      []field.Descriptor
	Diagnostics []Diagnostic
}

// HasErrors reports if any clause was dropped.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns the diagnostics of kept clauses.
func (r *Result) Warnings() []Diagnostic { return r.filter(SeverityWarning) }

// Errors returns the diagnostics of dropped clauses.
func (r *Result) Errors() []Diagnostic { return r.filter(SeverityError) }

func (r *Result) filter(s Severity) []Diagnostic {
	var ds []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			ds = append(ds, d)
		}
	}
	return ds
}

// Parse parses a comma separated field list. Empty clauses are ignored.
// Duplicate names are kept in input order and reported as warnings.
func Parse(input string) *Result {
	r := &Result{}
	for _, c := range splitClauses(input) {
		p := &parser{lex: lexer{src: c.text}}
		d, err := p.clause()
		for _, w := range p.warnings {
			r.Diagnostics = append(r.Diagnostics, Diagnostic{Clause: c.index, Text: c.text, Severity: SeverityWarning, Message: w})
		}
		if err != nil {
			r.Diagnostics = append(r.Diagnostics, Diagnostic{Clause: c.index, Text: c.text, Severity: SeverityError, Message: err.Message, Err: err.Err})
			continue
		}
		r.Fields = append(r.Fields, d)
	}
	for _, name := range field.Duplicates(r.Fields) {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Clause:   -1,
			Text:     name,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("duplicate field %q, all occurrences are kept", name),
		})
	}
	return r
}

// ParseField parses a single clause, as entered interactively. Unlike
// Parse, it fails with an *Error instead of dropping the clause.
func ParseField(text string) (field.Descriptor, error) {
	clauses := splitClauses(text)
	switch {
	case len(clauses) == 0:
		return field.Descriptor{}, &Error{Clause: text, Message: "empty field", Err: ErrMalformedClause}
	case len(clauses) > 1:
		return field.Descriptor{}, &Error{Clause: text, Message: "expected a single field", Err: ErrMalformedClause}
	}
	p := &parser{lex: lexer{src: clauses[0].text}}
	d, err := p.clause()
	if err != nil {
		return field.Descriptor{}, err
	}
	return d, nil
}

// MustParse is like Parse but panics if any clause is dropped.
func MustParse(input string) []field.Descriptor {
	r := Parse(input)
	if errs := r.Errors(); len(errs) > 0 {
		panic(fmt.Sprintf("spec: %s", errs[0]))
	}
	return r.Fields
}

// parser is a recursive-descent parser over the tokens of one clause.
type parser struct {
	lex      lexer
	warnings []string
}

func (p *parser) fail(format string, args ...any) *Error {
	return &Error{Clause: p.lex.src, Message: fmt.Sprintf(format, args...), Err: ErrMalformedClause}
}

// clause parses Name ':' Type (':' Modifier)*.
func (p *parser) clause() (field.Descriptor, *Error) {
	name := p.lex.next()
	if name.kind != tokIdent {
		return field.Descriptor{}, p.fail("expected field name, got %s %q", name.kind, name.text)
	}
	if t := p.lex.next(); t.kind != tokColon {
		return field.Descriptor{}, p.fail("expected ':' after field name %q", name.text)
	}
	typ := p.lex.next()
	if typ.kind != tokIdent {
		return field.Descriptor{}, p.fail("expected type after %q", name.text+":")
	}
	t, ok := field.Lookup(typ.text)
	if !ok {
		return field.Descriptor{}, &Error{
			Clause:  p.lex.src,
			Message: fmt.Sprintf("unknown type %q (available: %s)", typ.text, strings.Join(field.Names(), ", ")),
			Err:     ErrUnknownType,
		}
	}
	d := field.New(name.text, t)
	if err := p.modifiers(d.Modifiers); err != nil {
		return field.Descriptor{}, err
	}
	return d, nil
}

// modifiers folds every Identifier ['(' Argument ')'] of the remainder into
// m. Colons and whitespace separate modifiers; anything else is skipped with
// a warning. An argument without its closing parenthesis fails the clause.
func (p *parser) modifiers(m field.Modifiers) *Error {
	for {
		t := p.lex.next()
		switch t.kind {
		case tokEOF:
			return nil
		case tokColon:
		case tokIdent:
			if err := p.modifier(m, t); err != nil {
				return err
			}
		case tokArg:
			if !t.closed {
				return p.fail("unterminated argument %q", t.text)
			}
			p.warnings = append(p.warnings, fmt.Sprintf("argument %q without modifier ignored", t.text))
		case tokStray:
			p.warnings = append(p.warnings, fmt.Sprintf("unexpected %q ignored", t.text))
		}
	}
}

// modifier parses one modifier whose identifier was already consumed.
func (p *parser) modifier(m field.Modifiers, key token) *Error {
	if p.lex.peek().kind != tokArg {
		m.SetFlag(key.text)
		return nil
	}
	arg := p.lex.next()
	if !arg.closed {
		return p.fail("unterminated argument of %q", key.text)
	}
	raw := strings.TrimSpace(arg.text)
	if field.CanonicalKey(key.text) == field.Values {
		m.Set(key.text, field.ListValue(raw))
		return nil
	}
	m.Set(key.text, field.StringValue(unquote(raw)))
	return nil
}

// unquote strips one pair of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
