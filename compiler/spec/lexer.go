package spec

import "strings"

// clause is one comma separated piece of a field list.
type clause struct {
	index int    // position among non-empty clauses
	text  string // trimmed clause text
}

// splitClauses splits a field list on commas that are not enclosed in
// parentheses. Empty clauses are dropped. When a parenthesis is still open
// at the end of the input, the clause ends at the first comma after it and
// splitting resumes from there, so an unclosed argument only damages its
// own clause.
func splitClauses(input string) []clause {
	var (
		clauses []clause
		depth   int
		start   int
		open    int
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			clauses = append(clauses, clause{index: len(clauses), text: s})
		}
	}
	for i := 0; i <= len(input); i++ {
		if i == len(input) {
			if depth == 0 {
				break
			}
			c := strings.IndexByte(input[open:], ',')
			if c < 0 {
				break
			}
			add(input[start : open+c])
			start, depth = open+c+1, 0
			i = start - 1
			continue
		}
		switch input[i] {
		case '(':
			if depth == 0 {
				open = i
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				add(input[start:i])
				start = i + 1
			}
		}
	}
	add(input[start:])
	return clauses
}

// tokenKind identifies the lexical class of a token.
type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokColon
	tokArg   // a parenthesized argument, parentheses excluded
	tokStray // any run of characters that fits nothing else
)

func (k tokenKind) String() string {
	switch k {
	case tokIdent:
		return "identifier"
	case tokColon:
		return "':'"
	case tokArg:
		return "argument"
	case tokStray:
		return "text"
	}
	return "end of clause"
}

type token struct {
	kind tokenKind
	text string
	pos  int
	// closed is false for an argument whose closing parenthesis is missing.
	closed bool
}

// lexer tokenizes a single clause. Whitespace is insignificant and skipped.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() token {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}
	}
	start := l.pos
	switch c := l.src[l.pos]; {
	case c == ':':
		l.pos++
		return token{kind: tokColon, text: ":", pos: start}
	case c == '(':
		return l.arg()
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}
	default:
		for l.pos < len(l.src) {
			c := l.src[l.pos]
			if c == ':' || c == '(' || isSpace(c) || isIdentStart(c) {
				break
			}
			l.pos++
		}
		return token{kind: tokStray, text: l.src[start:l.pos], pos: start}
	}
}

// arg scans a parenthesized argument. Nested parentheses are kept as
// opaque text.
func (l *lexer) arg() token {
	start := l.pos
	depth := 0
	for ; l.pos < len(l.src); l.pos++ {
		switch l.src[l.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				l.pos++
				return token{kind: tokArg, text: l.src[start+1 : l.pos-1], pos: start, closed: true}
			}
		}
	}
	return token{kind: tokArg, text: l.src[start+1:], pos: start}
}

// peek returns the next token without consuming it.
func (l *lexer) peek() token {
	pos := l.pos
	t := l.next()
	l.pos = pos
	return t
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || '0' <= c && c <= '9' }
