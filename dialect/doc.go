// Package dialect names the database dialects scaffold generates code and
// schema DDL for.
//
// # Supported Dialects
//
//   - MySQL: MySQL/MariaDB database (default)
//   - Postgres: PostgreSQL database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string:
//
//	dialect.MySQL    = "mysql"
//	dialect.Postgres = "postgres"
//	dialect.SQLite   = "sqlite"
//
// # Placeholders
//
// Generated record stores bind arguments with the placeholder style of the
// configured dialect:
//
//	dialect.Placeholder(dialect.MySQL, 1)    // ?
//	dialect.Placeholder(dialect.Postgres, 1) // $1
//
// # Escaping
//
// Identifiers are quoted per dialect and string literals are escaped before
// they are written into DDL or generated queries:
//
//	dialect.Quote(dialect.MySQL, "posts")    // `posts`
//	dialect.Quote(dialect.Postgres, "posts") // "posts"
package dialect
