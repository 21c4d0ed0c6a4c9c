// Package naming holds the inflection helpers shared by the parser, the
// relationship resolver and the generators. All functions are pure.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules  = ruleset()
	titler = cases.Title(language.English)

	// acronyms are kept upper-cased in Go identifiers.
	acronyms = map[string]bool{
		"API": true, "HTML": true, "HTTP": true, "ID": true, "IP": true,
		"JSON": true, "MAC": true, "SQL": true, "URL": true, "UUID": true,
	}
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for w := range acronyms {
		rules.AddAcronym(w)
	}
	return rules
}

// Plural returns the plural form of a word, e.g. author => authors.
func Plural(s string) string { return rules.Pluralize(s) }

// Singular returns the singular form of a word, e.g. categories => category.
func Singular(s string) string { return rules.Singularize(s) }

// Pascal converts a snake or camel cased word to PascalCase.
//
//	blog_posts => BlogPosts
//	author_id  => AuthorID
func Pascal(s string) string {
	words := strings.FieldsFunc(snake(s), func(r rune) bool { return r == '_' })
	for i, w := range words {
		if upper := strings.ToUpper(w); acronyms[upper] {
			words[i] = upper
			continue
		}
		words[i] = rules.Capitalize(w)
	}
	return strings.Join(words, "")
}

// Camel converts a word to camelCase, e.g. BlogPost => blogPost.
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return p
	}
	// Lower a leading acronym entirely: ID => id, UUIDField => uuidField.
	runes := []rune(p)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	switch {
	case i == len(runes):
		return strings.ToLower(p)
	case i > 1:
		i--
	}
	return strings.ToLower(string(runes[:i])) + string(runes[i:])
}

// Snake converts a word to snake_case, e.g. BlogPost => blog_post.
func Snake(s string) string { return snake(s) }

// Record returns the record type name derived from a table name.
//
//	blog_posts => BlogPost
//	categories => Category
func Record(table string) string { return Pascal(Singular(table)) }

// Table returns the table name derived from a record type name.
//
//	BlogPost => blog_posts
func Table(record string) string { return Plural(snake(record)) }

// Humanize returns a title-cased, space separated form of a name,
// e.g. blog_post => Blog Post.
func Humanize(s string) string {
	return titler.String(strings.ReplaceAll(snake(s), "_", " "))
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		if r == '-' || r == ' ' {
			r = '_'
		}
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
