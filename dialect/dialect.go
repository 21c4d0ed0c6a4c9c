package dialect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Database dialects.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// validIdentifierRe validates SQL identifiers (alphanumeric and underscores).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Names returns the supported dialects.
func Names() []string { return []string{MySQL, Postgres, SQLite} }

// Valid reports if name is a supported dialect.
func Valid(name string) bool {
	switch name {
	case MySQL, Postgres, SQLite:
		return true
	}
	return false
}

// Normalize maps common aliases to a dialect name, e.g. pgsql => postgres.
func Normalize(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case MySQL, "mariadb", "":
		return MySQL, nil
	case Postgres, "postgresql", "pgsql", "pg":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("dialect: unsupported dialect %q", name)
	}
}

// Placeholder returns the n-th (1-based) bind placeholder of the dialect.
func Placeholder(name string, n int) string {
	if name == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Placeholders returns n comma separated placeholders starting at 1.
func Placeholders(name string, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = Placeholder(name, i+1)
	}
	return strings.Join(ps, ", ")
}

// Quote quotes an identifier in the dialect's style.
func Quote(name, ident string) string {
	if name == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// IsValidIdentifier checks if the string is a valid SQL identifier.
func IsValidIdentifier(s string) bool {
	return s != "" && len(s) <= 64 && validIdentifierRe.MatchString(s)
}

// EscapeString escapes a string value for safe use in a SQL literal.
// It escapes both single quotes (by doubling) and backslashes (for MySQL compatibility).
func EscapeString(s string) string {
	// Fast path: if no escaping needed, return as-is
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}

// SupportsBoolLiteral reports if the dialect stores booleans as the 1/0
// literals scaffold writes for boolean defaults.
func SupportsBoolLiteral(name string) bool { return name == MySQL }
