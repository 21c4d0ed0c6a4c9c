package gen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopmonkeyus/go-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/compiler/load"
	"github.com/syssam/scaffold/compiler/spec"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
)

const postFields = "title:string:index,body:text:nullable,status:enum:values(draft,published):default(draft),author_id:foreign:onDelete(cascade)"

func clock(ts string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse(migrationLayout, ts)
		if err != nil {
			panic(err)
		}
		return t
	}
}

// newProject returns the root of an empty Go module.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n\ngo 1.24\n"), 0o644))
	return root
}

func newGenerator(t *testing.T, root string, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{
		WithRoot(root),
		WithLogger(logger.NewTestLogger()),
		WithClock(clock("2026_10_18_120000")),
		WithWorkers(2),
	}, opts...)
	g, err := NewGenerator(opts...)
	require.NoError(t, err)
	return g
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func kinds(files []File) []Kind {
	ks := make([]Kind, len(files))
	for i, f := range files {
		ks[i] = f.Kind
	}
	return ks
}

func TestGenerate(t *testing.T) {
	root := newProject(t)
	g := newGenerator(t, root)

	art, err := g.Generate(context.Background(), "Post", spec.MustParse(postFields))
	require.NoError(t, err)
	assert.Equal(t, "Post", art.Record)
	assert.Equal(t, "posts", art.Table)
	assert.Equal(t, []Kind{KindMigration, KindModel, KindHandler, KindRoutes}, kinds(art.Written))
	assert.Empty(t, art.Skipped)
	assert.Equal(t, filepath.Join(root, "database/migrations/2026_10_18_120000_create_posts_table.go"), art.Written[0].Path)
	require.Len(t, art.Suggestions, 1)
	assert.Contains(t, art.Suggestions[0], `"posts"`)
	assert.Equal(t, 3, art.Metrics.FilesWritten)

	t.Run("migration", func(t *testing.T) {
		src := read(t, art.Written[0].Path)
		assert.Contains(t, src, "package migrations")
		assert.Contains(t, src, `migrate.Register("2026_10_18_120000_create_posts_table"`)
		assert.Contains(t, src, `t.String("title").Index()`)
		assert.Contains(t, src, `t.Enum("status", "draft", "published").Default("draft")`)
		assert.Contains(t, src, `t.ForeignID("author_id").Constrained().OnDelete("cascade")`)
		assert.Contains(t, src, `s.DropIfExists("posts")`)
	})

	t.Run("model", func(t *testing.T) {
		src := read(t, g.ModelPath("Post"))
		assert.Contains(t, src, "package models")
		assert.Contains(t, src, "type Post struct")
		assert.Contains(t, src, "Body      *string")
		assert.Contains(t, src, `PostStatusDraft     = "draft"`)
		assert.Contains(t, src, "func NewPostStore(db *sql.DB) *PostStore")
		assert.Contains(t, src, "func (s *PostStore) Author(ctx context.Context, post *Post) (*Author, error)")
		assert.Contains(t, src, "SELECT `id`, `title`, `body`, `status`, `author_id`, `created_at`, `updated_at` FROM `posts` WHERE `id` = ?")
		assert.Contains(t, src, "res.LastInsertId()")
	})

	t.Run("handler", func(t *testing.T) {
		src := read(t, art.Written[2].Path)
		assert.Contains(t, src, "package handlers")
		assert.Contains(t, src, `"example.com/app/internal/models"`)
		assert.Contains(t, src, `"required|in:draft,published"`)
		assert.Contains(t, src, `"nullable"`)
		assert.Contains(t, src, "func NewPostHandler(store *models.PostStore) *PostHandler")
		assert.Contains(t, src, `mux.HandleFunc("DELETE "+prefix+"/{id}", h.Destroy)`)
	})

	t.Run("routes", func(t *testing.T) {
		src := read(t, art.Written[3].Path)
		assert.Contains(t, src, "package routes")
		assert.Contains(t, src, `"example.com/app/internal/handlers"`)
		assert.Contains(t, src, `handlers.NewPostHandler(models.NewPostStore(db)).Routes(mux, "/posts")`)
		assert.Less(t, strings.Index(src, "NewPostHandler"), strings.Index(src, RoutesMarker))
	})
}

func TestGenerateRoundTrip(t *testing.T) {
	root := newProject(t)
	g := newGenerator(t, root)
	fields := spec.MustParse(postFields)
	art, err := g.Generate(context.Background(), "Post", fields)
	require.NoError(t, err)

	units, err := load.Discover(filepath.Join(root, "database/migrations"))
	require.NoError(t, err)
	require.Len(t, units, 1)
	x, ok := load.LineScanner{}.Extract(units[0])
	require.True(t, ok)
	assert.Equal(t, art.Table, x.Table)
	require.Len(t, x.Fields, len(fields))
	for i, f := range fields {
		got := x.Fields[i]
		assert.Equal(t, f.Name, got.Name)
		assert.Equal(t, f.Type, got.Type)
		for _, key := range f.Modifiers.Keys() {
			assert.Equal(t, f.Modifiers[key], got.Modifiers[key], "%s %s", f.Name, key)
		}
	}
	assert.True(t, x.Fields[3].Modifiers.Has(field.Constrained))
}

func TestGenerateSkipsExisting(t *testing.T) {
	root := newProject(t)
	fields := spec.MustParse("name:string")
	_, err := newGenerator(t, root).Generate(context.Background(), "Tag", fields)
	require.NoError(t, err)

	g := newGenerator(t, root, WithClock(clock("2026_10_19_080000")))
	assert.True(t, g.Exists("Tag"))
	art, err := g.Generate(context.Background(), "Tag", fields)
	require.NoError(t, err)
	assert.Empty(t, art.Written)
	assert.ElementsMatch(t, []Kind{KindMigration, KindModel, KindHandler, KindRoutes}, kinds(art.Skipped))

	names := load.Basenames(filepath.Join(root, "database/migrations"))
	assert.Equal(t, []string{"2026_10_18_120000_create_tags_table.go"}, names)
	routes := read(t, filepath.Join(root, "internal/routes/routes.go"))
	assert.Equal(t, 1, strings.Count(routes, "NewTagHandler"))
}

func TestGenerateForce(t *testing.T) {
	root := newProject(t)
	_, err := newGenerator(t, root).Generate(context.Background(), "Tag", spec.MustParse("name:string"))
	require.NoError(t, err)

	g := newGenerator(t, root, WithForce(true), WithClock(clock("2026_10_19_080000")))
	art, err := g.Generate(context.Background(), "Tag", spec.MustParse("name:string,slug:string:unique"))
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindMigration, KindModel, KindHandler}, kinds(art.Written))

	names := load.Basenames(filepath.Join(root, "database/migrations"))
	require.Equal(t, []string{"2026_10_18_120000_create_tags_table.go"}, names)
	src := read(t, filepath.Join(root, "database/migrations", names[0]))
	assert.Contains(t, src, `t.String("slug").Unique()`)
	assert.Contains(t, src, `"2026_10_18_120000_create_tags_table"`)
	assert.Contains(t, read(t, g.ModelPath("Tag")), "Slug")
}

func TestGenerateFeatures(t *testing.T) {
	root := newProject(t)
	g := newGenerator(t, root, WithStack(StackGraphQL), WithTypeScript(true))
	art, err := g.Generate(context.Background(), "Post", spec.MustParse(postFields))
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindMigration, KindModel, KindHandler, KindGraphQL, KindTypeScript, KindRoutes}, kinds(art.Written))

	sdl := read(t, filepath.Join(root, "graph/schema/post.graphql"))
	assert.Contains(t, sdl, "type Post {")
	assert.Contains(t, sdl, "  body: String\n")
	assert.Contains(t, sdl, "  status: PostStatus!\n")
	assert.Contains(t, sdl, "enum PostStatus {\n  DRAFT\n  PUBLISHED\n}")
	assert.Contains(t, sdl, "  posts: [Post!]!\n")
	assert.Contains(t, sdl, "createPost(input: CreatePostInput!): Post!")

	ts := read(t, filepath.Join(root, "web/src/types/post.ts"))
	assert.Contains(t, ts, "export interface Post {")
	assert.Contains(t, ts, "  body?: string | null;\n")
	assert.Contains(t, ts, "  status: 'draft' | 'published';\n")
	assert.Contains(t, ts, "  author_id: number;\n")
	assert.Contains(t, ts, "export type CreatePostInput")

	t.Run("cleanup when disabled", func(t *testing.T) {
		g := newGenerator(t, root, WithStack(StackGraphQL), WithForce(true))
		_, err := g.Generate(context.Background(), "Post", spec.MustParse(postFields))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, "web/src/types/post.ts"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestGenerateValidation(t *testing.T) {
	root := newProject(t)
	g := newGenerator(t, root)
	tests := []struct {
		name   string
		record string
		fields []field.Descriptor
		check  func(t *testing.T, err error)
	}{
		{
			name:   "enum without values",
			record: "Post",
			fields: []field.Descriptor{field.New("status", field.TypeEnum)},
			check:  func(t *testing.T, err error) { assert.True(t, IsValidationError(err)) },
		},
		{
			name:   "duplicate",
			record: "Post",
			fields: spec.MustParse("title:string,title:text"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidationFailed)
				assert.Contains(t, err.Error(), "title")
			},
		},
		{
			name:   "no fields",
			record: "Post",
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoFields) },
		},
		{
			name:   "only reserved fields",
			record: "Post",
			fields: spec.MustParse("id:integer,created_at:dateTime"),
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoFields) },
		},
		{
			name:   "invalid action",
			record: "Post",
			fields: spec.MustParse("author_id:foreign:onDelete(explode)"),
			check:  func(t *testing.T, err error) { assert.True(t, IsValidationError(err)) },
		},
		{
			name:   "invalid record name",
			record: "",
			fields: spec.MustParse("title:string"),
			check:  func(t *testing.T, err error) { assert.True(t, IsValidationError(err)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tt.record, tt.fields)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing but go.mod is written")
}

func TestGenerateReservedFieldsDropped(t *testing.T) {
	g := newGenerator(t, newProject(t))
	art, err := g.Generate(context.Background(), "Post", spec.MustParse("id:integer,title:string"))
	require.NoError(t, err)
	assert.Equal(t, "title:string", art.Spec)
	require.Len(t, art.Warnings, 1)
	assert.Contains(t, art.Warnings[0], "id")
}

func TestGenerateBoolDefaultWarning(t *testing.T) {
	fields := spec.MustParse("is_active:boolean:default(true)")
	tests := []struct {
		dialect  string
		warnings int
	}{
		{dialect.MySQL, 0},
		{dialect.Postgres, 1},
		{dialect.SQLite, 1},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			g := newGenerator(t, newProject(t), WithDialect(tt.dialect))
			art, err := g.Generate(context.Background(), "Flag", fields)
			require.NoError(t, err)
			assert.Len(t, art.Warnings, tt.warnings)
		})
	}
}

func TestGenerateBoolDefaultNotBoolean(t *testing.T) {
	tests := []struct {
		input    string
		warnings int
	}{
		{"is_active:boolean:default(yes)", 0},
		{"is_active:boolean:default(OFF)", 0},
		{"is_active:boolean:default(maybe)", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g := newGenerator(t, newProject(t), WithDialect(dialect.MySQL))
			art, err := g.Generate(context.Background(), "Flag", spec.MustParse(tt.input))
			require.NoError(t, err)
			require.Len(t, art.Warnings, tt.warnings)
			if tt.warnings > 0 {
				assert.Contains(t, art.Warnings[0], `"maybe"`)
			}
		})
	}
}

func TestGeneratePostgresStore(t *testing.T) {
	g := newGenerator(t, newProject(t), WithDialect("pgsql"))
	_, err := g.Generate(context.Background(), "Post", spec.MustParse("title:string"))
	require.NoError(t, err)
	src := read(t, g.ModelPath("Post"))
	assert.Contains(t, src, `INSERT INTO \"posts\" (\"title\", \"created_at\", \"updated_at\") VALUES ($1, $2, $3) RETURNING \"id\"`)
	assert.Contains(t, src, `UPDATE \"posts\" SET \"title\" = $1, \"updated_at\" = $2 WHERE \"id\" = $3`)
	assert.NotContains(t, src, "LastInsertId")
}

func TestGenerateNamespaces(t *testing.T) {
	root := t.TempDir()
	_, err := newGenerator(t, root).Generate(context.Background(), "Post", spec.MustParse("title:string"))
	assert.True(t, IsConfigError(err), "no go.mod and no namespaces")

	g := newGenerator(t, root, WithNamespaces(Namespaces{
		Model:   "example.com/shop/db/models",
		Handler: "example.com/shop/api",
	}))
	_, err = g.Generate(context.Background(), "Post", spec.MustParse("title:string"))
	require.NoError(t, err)
	routes := read(t, filepath.Join(root, "internal/routes/routes.go"))
	assert.Contains(t, routes, `"example.com/shop/db/models"`)
	assert.Contains(t, routes, `handlers "example.com/shop/api"`)
}

func TestGenerateRoutesWithoutMarker(t *testing.T) {
	root := newProject(t)
	path := filepath.Join(root, "internal/routes/routes.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("package routes\n"), 0o644))

	art, err := newGenerator(t, root).Generate(context.Background(), "Post", spec.MustParse("title:string"))
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, KindRoutes, genErr.Kind)
	require.NotNil(t, art)
	assert.Len(t, art.Written, 3)
}

func TestPreview(t *testing.T) {
	root := newProject(t)
	g := newGenerator(t, root, WithTypeScript(true))
	p, err := g.Preview(context.Background(), "blog_post", spec.MustParse("title:string,age:integer:nullable:min(18)"))
	require.NoError(t, err)
	assert.Equal(t, "BlogPost", p.Record.Name)
	assert.Equal(t, "blog_posts", p.Record.Table)
	assert.Equal(t, "title:string,age:integer:nullable:min(18)", p.Spec)
	assert.Equal(t, map[string]string{"title": "required", "age": "nullable|integer|min:18"}, p.Rules)
	assert.Equal(t, []Kind{KindMigration, KindModel, KindHandler, KindTypeScript, KindRoutes}, kinds(p.Files))
	require.NotEmpty(t, p.DDL)
	assert.Contains(t, strings.Join(p.DDL, "\n"), "CREATE TABLE")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.True(t, IsConfigError(err))

	_, err = NewGenerator(WithRoot(filepath.Join(t.TempDir(), "missing")))
	assert.True(t, IsConfigError(err))

	cfg := MustNewConfig(WithRoot(t.TempDir()))
	cfg.Dialect = "oracle"
	_, err = New(cfg)
	assert.True(t, IsConfigError(err))
}
