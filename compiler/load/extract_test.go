package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/compiler/spec"
	"github.com/syssam/scaffold/schema/field"
)

const postsSource = `package migrations

import "github.com/syssam/scaffold/schema/migrate"

func init() {
	migrate.Register("2026_10_18_120000_create_posts_table",
		func(s *migrate.Schema) {
			s.Create("posts", func(t *migrate.Table) {
				t.ID()
				t.String("title")
				t.Text("body").Nullable()
				t.ForeignID("author_id").OnDelete("cascade")
				t.Timestamps()
			})
		},
		func(s *migrate.Schema) {
			s.DropIfExists("posts")
		},
	)
}
`

func TestExtractPosts(t *testing.T) {
	x, ok := LineScanner{}.Extract(Unit{Source: postsSource})
	require.True(t, ok)
	assert.Equal(t, "posts", x.Table)

	expected := spec.MustParse("title:string, body:text:nullable, author_id:foreign:onDelete(cascade)")
	require.Len(t, x.Fields, 3)
	for i := range expected {
		assert.True(t, expected[i].Equal(x.Fields[i]), "%s != %s", spec.RenderField(expected[i]), spec.RenderField(x.Fields[i]))
	}
}

func TestExtractContinuationLine(t *testing.T) {
	src := `s.Create("users", func(t *migrate.Table) {
	t.String("email").
		Nullable().
		Unique()
	t.String("name").Nullable()
})`
	x, ok := LineScanner{}.Extract(Unit{Source: src})
	require.True(t, ok)
	require.Len(t, x.Fields, 2)
	// Modifiers on continuation lines are not recovered.
	assert.Equal(t, "email", x.Fields[0].Name)
	assert.Empty(t, x.Fields[0].Modifiers)
	assert.True(t, x.Fields[1].Nullable())
}

func TestExtractModifiers(t *testing.T) {
	src := `s.Create("articles", func(t *migrate.Table) {
	t.ID()
	t.String("slug", 100).Unique()
	t.Integer("views").Default(0).Index()
	t.Boolean("is_active").Default("true")
	t.Enum("status", "draft", "published").Default("draft")
	t.ForeignID("editor_id").Constrained("users").OnDelete("set null").OnUpdate("restrict")
	t.Decimal("price", 10, 2).Nullable(); t.UUID("ref")
	// t.String("legacy").Nullable()
	t.DateTime("published_at").Nullable() // t.Text("ignored")
	t.SoftDeletes()
})

s.Create("other", func(t *migrate.Table) {
	t.String("not_in_articles")
})`
	x, ok := LineScanner{SoftDeletes: true}.Extract(Unit{Source: src})
	require.True(t, ok)
	assert.Equal(t, "articles", x.Table)

	got := spec.Render(x.Fields)
	assert.Equal(t, "slug:string:unique,"+
		"views:integer:default(0):index,"+
		"is_active:boolean:default(true),"+
		"status:enum:default(draft):values(draft,published),"+
		"editor_id:foreign:constrained:on(users):onDelete(set null):onUpdate(restrict),"+
		"price:decimal:nullable,"+
		"ref:uuid,"+
		"published_at:dateTime:nullable,"+
		"deleted_at:dateTime:nullable", got)

	// The canonical string parses back to the same descriptors.
	reparsed := spec.Parse(got)
	require.False(t, reparsed.HasErrors())
	require.Len(t, reparsed.Fields, len(x.Fields))
	for i := range x.Fields {
		assert.True(t, x.Fields[i].Equal(reparsed.Fields[i]), spec.RenderField(x.Fields[i]))
	}
}

func TestExtractSoftDeletesDisabled(t *testing.T) {
	src := `s.Create("notes", func(t *migrate.Table) {
	t.Text("body")
	t.SoftDeletes()
})`
	x, ok := LineScanner{}.Extract(Unit{Source: src})
	require.True(t, ok)
	require.Len(t, x.Fields, 1)
	assert.Equal(t, field.TypeText, x.Fields[0].Type)
}

func TestExtractNoTable(t *testing.T) {
	_, ok := LineScanner{}.Extract(Unit{Source: `s.Table("posts", func(t *migrate.Table) { t.String("x") })`})
	assert.False(t, ok)
	assert.Empty(t, TableName("package migrations"))
}

func TestExtractStringsWithBraces(t *testing.T) {
	src := `s.Create("quotes", func(t *migrate.Table) {
	t.String("open").Default("{")
	t.String("close").Default("}")
	t.Text("after")
})`
	x, ok := LineScanner{}.Extract(Unit{Source: src})
	require.True(t, ok)
	require.Len(t, x.Fields, 3)
	assert.Equal(t, "{", x.Fields[0].Modifiers.Str(field.Default))
	assert.Equal(t, "}", x.Fields[1].Modifiers.Str(field.Default))
	assert.Equal(t, "after", x.Fields[2].Name)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"2026_01_02_000000_create_comments_table.go": `s.Create("comments", func(t *migrate.Table) {})`,
		"2026_01_01_000000_create_posts_table.go":    postsSource,
		"2026_01_03_000000_add_index.go":             `package migrations`,
		"helpers_test.go":                            `package migrations`,
		"README.md":                                  `docs`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.go"), 0o755))

	units, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, "2026_01_01_000000_create_posts_table.go", units[0].OrderKey)
	assert.Equal(t, "posts", units[0].Table)
	assert.Equal(t, "comments", units[1].Table)
	assert.Empty(t, units[2].Table)
	assert.Equal(t, filepath.Join(dir, units[1].OrderKey), units[1].Path)

	assert.Equal(t, []string{
		"2026_01_01_000000_create_posts_table.go",
		"2026_01_02_000000_create_comments_table.go",
		"2026_01_03_000000_add_index.go",
	}, Basenames(dir))
}

func TestDiscoverMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := Discover(missing)
	require.ErrorIs(t, err, ErrSourceDirMissing)
	assert.Empty(t, Basenames(missing))
}
