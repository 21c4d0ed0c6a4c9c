// Package migrate is the schema DSL generated migrations are written in:
//
//	migrate.Register("2026_10_18_120000_create_posts_table",
//		func(s *migrate.Schema) {
//			s.Create("posts", func(t *migrate.Table) {
//				t.ID()
//				t.String("title")
//				t.Text("body").Nullable()
//				t.ForeignID("author_id").Constrained("authors").OnDelete("cascade")
//				t.Timestamps()
//			})
//		},
//		func(s *migrate.Schema) {
//			s.DropIfExists("posts")
//		},
//	)
//
// Migrations only describe tables. Plan turns the described tables into
// dialect specific DDL without a database connection.
package migrate

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Migration is a registered schema change.
type Migration struct {
	// ID is the file base name, e.g. 2026_10_18_120000_create_posts_table.
	// IDs sort in authoring order.
	ID   string
	Up   func(*Schema)
	Down func(*Schema)
}

var (
	mu       sync.Mutex
	registry = map[string]*Migration{}
)

// Register adds a migration to the process registry. It is called from the
// init function of generated migration files and panics on a duplicate ID.
func Register(id string, up, down func(*Schema)) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("migrate: duplicate migration %q", id))
	}
	registry[id] = &Migration{ID: id, Up: up, Down: down}
}

// Migrations returns the registered migrations ordered by ID.
func Migrations() []*Migration {
	mu.Lock()
	defer mu.Unlock()
	ms := make([]*Migration, 0, len(registry))
	for _, m := range registry {
		ms = append(ms, m)
	}
	slices.SortFunc(ms, func(a, b *Migration) int { return cmp.Compare(a.ID, b.ID) })
	return ms
}

// Schema collects the tables touched by a migration.
type Schema struct {
	tables  []*Table
	dropped []string
}

// NewSchema returns an empty schema.
func NewSchema() *Schema { return &Schema{} }

// Create describes a new table.
func (s *Schema) Create(name string, fn func(*Table)) *Table {
	t := NewTable(name)
	if fn != nil {
		fn(t)
	}
	s.tables = append(s.tables, t)
	return t
}

// DropIfExists records that a table is dropped.
func (s *Schema) DropIfExists(name string) {
	s.dropped = append(s.dropped, name)
}

// Tables returns the tables created so far, in creation order.
func (s *Schema) Tables() []*Table { return s.tables }

// Table returns the created table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Dropped returns the names of the dropped tables.
func (s *Schema) Dropped() []string { return s.dropped }

// Up applies the up functions of ms, in order, to a new schema.
func Up(ms ...*Migration) *Schema {
	s := NewSchema()
	for _, m := range ms {
		if m.Up != nil {
			m.Up(s)
		}
	}
	return s
}
