package load

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/scaffold/schema/field"
)

// Extraction is the table and fields recovered from one unit.
type Extraction struct {
	Table  string
	Fields []field.Descriptor
}

// An Extractor recovers the table and fields a migration source declares.
// It returns false for sources that create no table.
type Extractor interface {
	Extract(Unit) (Extraction, bool)
}

// LineScanner is an Extractor working on source text. It recognizes the
// builder calls of the migrate DSL and the modifiers chained onto them.
//
// Modifiers are only looked up on the line of their builder call. A chain
// continued on the next line loses its modifiers:
//
//	t.String("email").
//		Nullable() // not recovered
type LineScanner struct {
	// SoftDeletes appends deleted_at:dateTime:nullable when the table
	// calls SoftDeletes.
	SoftDeletes bool
}

var (
	createRe     = regexp.MustCompile(`\.Create\(\s*"([^"]+)"`)
	softDeleteRe = regexp.MustCompile(`\.SoftDeletes\(\s*\)`)
	modifierRe   = regexp.MustCompile(`\.(Nullable|Default|Index|Unique|Constrained|OnDelete|OnUpdate)\(`)

	// builderRes holds the call pattern of every type builder.
	builderRes = func() map[field.Type]*regexp.Regexp {
		m := make(map[field.Type]*regexp.Regexp)
		for _, t := range field.Types() {
			m[t] = regexp.MustCompile(`\.` + t.Builder() + `\(\s*"([^"]+)"`)
		}
		return m
	}()
)

// TableName returns the table created by the source, or an empty string.
func TableName(src string) string {
	m := createRe.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

// call is a builder call found in the table body.
type call struct {
	typ    field.Type
	column string
	start  int // offset of the '.' of the call
	open   int // offset of the '(' of the call
}

// Extract implements the Extractor interface.
func (s LineScanner) Extract(u Unit) (Extraction, bool) {
	loc := createRe.FindStringSubmatchIndex(u.Source)
	if loc == nil {
		return Extraction{}, false
	}
	x := Extraction{Table: u.Source[loc[2]:loc[3]]}
	body := blockBody(u.Source, loc[1])
	calls := builderCalls(body)
	for i, c := range calls {
		end := lineEnd(body, c.start)
		// Stop at the next call on the same line.
		if i+1 < len(calls) && calls[i+1].start < end {
			end = calls[i+1].start
		}
		d := field.New(c.column, c.typ)
		if c.typ == field.TypeEnum {
			enumValues(d.Modifiers, body, c.open)
		}
		scanModifiers(d.Modifiers, body[c.start:end])
		x.Fields = append(x.Fields, d)
	}
	if s.SoftDeletes && hasCall(body, softDeleteRe) {
		d := field.New("deleted_at", field.TypeDateTime)
		d.Modifiers.SetFlag(field.Nullable)
		x.Fields = append(x.Fields, d)
	}
	return x, true
}

// builderCalls returns the builder calls of body in source order. Calls on
// commented lines are ignored.
func builderCalls(body string) []call {
	var calls []call
	for t, re := range builderRes {
		for _, m := range re.FindAllStringSubmatchIndex(body, -1) {
			if commented(body, m[0]) {
				continue
			}
			calls = append(calls, call{
				typ:    t,
				column: body[m[2]:m[3]],
				start:  m[0],
				open:   m[0] + len(t.Builder()) + 1,
			})
		}
	}
	slices.SortFunc(calls, func(a, b call) int { return a.start - b.start })
	return calls
}

// scanModifiers folds the modifier calls found in segment into m.
func scanModifiers(m field.Modifiers, segment string) {
	for _, loc := range modifierRe.FindAllStringSubmatchIndex(segment, -1) {
		name := segment[loc[2]:loc[3]]
		arg, ok := balancedArg(segment, loc[1]-1)
		if !ok {
			continue
		}
		arg = strings.TrimSpace(arg)
		switch name {
		case "Nullable":
			m.SetFlag(field.Nullable)
		case "Index":
			m.SetFlag(field.Index)
		case "Unique":
			m.SetFlag(field.Unique)
		case "Default":
			m.Set(field.Default, field.StringValue(unquote(arg)))
		case "Constrained":
			m.SetFlag(field.Constrained)
			if args := splitArgs(arg); len(args) > 0 && args[0] != "" {
				m.Set(field.On, field.StringValue(unquote(args[0])))
			}
		case "OnDelete":
			m.Set(field.OnDelete, field.StringValue(unquote(arg)))
		case "OnUpdate":
			m.Set(field.OnUpdate, field.StringValue(unquote(arg)))
		}
	}
}

// enumValues records the string arguments following the column name of an
// Enum call.
func enumValues(m field.Modifiers, body string, open int) {
	arg, ok := balancedArg(body, open)
	if !ok {
		return
	}
	args := splitArgs(arg)
	if len(args) < 2 {
		return
	}
	values := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		values = append(values, unquote(a))
	}
	m.Set(field.Values, field.ListValue(strings.Join(values, ",")))
}

// blockBody returns the brace-delimited block starting at the first '{'
// at or after pos. An unterminated block extends to the end of src.
func blockBody(src string, pos int) string {
	start := strings.IndexByte(src[pos:], '{')
	if start < 0 {
		return src[pos:]
	}
	start += pos
	depth := 0
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '`', '\'':
			i = skipLiteral(src, i)
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
					i += nl
				} else {
					i = len(src)
				}
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start : i+1]
			}
		}
	}
	return src[start:]
}

// balancedArg returns the text between the parenthesis at open and its
// matching closing parenthesis.
func balancedArg(s string, open int) (string, bool) {
	if open >= len(s) || s[open] != '(' {
		return "", false
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '"', '`', '\'':
			i = skipLiteral(s, i)
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open+1 : i], true
			}
		}
	}
	return "", false
}

// splitArgs splits an argument list on top-level commas.
func splitArgs(s string) []string {
	var (
		args  []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '`', '\'':
			i = skipLiteral(s, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args
}

// skipLiteral returns the offset of the closing quote of the literal
// starting at i, or the last offset of s if it is unterminated.
func skipLiteral(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if q != '`' {
				j++
			}
		case q:
			return j
		}
	}
	return len(s) - 1
}

// unquote returns the value of a Go literal argument. Non string
// arguments such as 18 or true are returned as written.
func unquote(a string) string {
	a = strings.TrimSpace(a)
	if a == "" {
		return a
	}
	switch a[0] {
	case '"', '`', '\'':
		if s, err := strconv.Unquote(a); err == nil {
			return s
		}
	}
	return a
}

func lineStart(s string, pos int) int {
	return strings.LastIndexByte(s[:pos], '\n') + 1
}

func lineEnd(s string, pos int) int {
	if nl := strings.IndexByte(s[pos:], '\n'); nl >= 0 {
		return pos + nl
	}
	return len(s)
}

// commented reports if pos follows a line comment marker on its line.
func commented(s string, pos int) bool {
	line := s[lineStart(s, pos):pos]
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"', '`', '\'':
			i = skipLiteral(line, i)
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return true
			}
		}
	}
	return false
}

func hasCall(body string, re *regexp.Regexp) bool {
	for _, loc := range re.FindAllStringIndex(body, -1) {
		if !commented(body, loc[0]) {
			return true
		}
	}
	return false
}
