package gen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/dialect"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithStack(t *testing.T) {
	tests := []struct {
		name     string
		stack    string
		expected string
		graphql  bool
		wantErr  bool
	}{
		{"rest", "rest", StackREST, false, false},
		{"empty defaults to rest", "", StackREST, false, false},
		{"graphql", "graphql", StackGraphQL, true, false},
		{"invalid", "soap", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithStack(tt.stack)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Stack)
			assert.Equal(t, tt.graphql, c.FeatureEnabled(FeatureGraphQL.Name))
		})
	}
}

func TestWithTypeScript(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Apply(WithTypeScript(true), WithTypeScript(true)))
	assert.Len(t, c.Features, 1)
	assert.True(t, c.FeatureEnabled(FeatureTypeScript.Name))

	require.NoError(t, WithTypeScript(false)(c))
	assert.False(t, c.FeatureEnabled(FeatureTypeScript.Name))
}

func TestWithDialect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"mysql", "mysql", dialect.MySQL, false},
		{"alias", "postgresql", dialect.Postgres, false},
		{"sqlite3", "sqlite3", dialect.SQLite, false},
		{"invalid", "oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithDialect(tt.input)(c)
			if tt.wantErr {
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Dialect)
		})
	}
}

func TestWithDirectories(t *testing.T) {
	c := MustNewConfig(WithDirectories(Directories{Model: "app/models"}))
	assert.Equal(t, "app/models", c.Dirs.Model)
	assert.Equal(t, DefaultDirectories().Handler, c.Dirs.Handler)
	assert.Equal(t, DefaultDirectories().Routes, c.Dirs.Routes)
}

func TestOptionsRejectInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty root", WithRoot("")},
		{"zero workers", WithWorkers(0)},
		{"nil logger", WithLogger(nil)},
		{"nil clock", WithClock(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsConfigError(tt.opt(&Config{})))
		})
	}
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithRoot(""), WithHeader("kept"), WithWorkers(-1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Root")
	assert.Contains(t, err.Error(), "Workers")
	assert.Equal(t, "kept", c.Header)
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ".", c.Root)
	assert.Equal(t, StackREST, c.Stack)
	assert.Equal(t, dialect.MySQL, c.Dialect)
	assert.Equal(t, DefaultHeader, c.Header)
	assert.Positive(t, c.Workers)
	assert.NotNil(t, c.Logger)

	_, err = NewConfig(WithStack("soap"))
	assert.True(t, IsConfigError(err))
	assert.Panics(t, func() { MustNewConfig(WithStack("soap")) })
}

func TestConfigPackages(t *testing.T) {
	root := t.TempDir()
	c := MustNewConfig(WithRoot(root))
	_, err := c.ModelPackage()
	assert.True(t, IsConfigError(err))

	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n"), 0o644))
	pkg, err := c.ModelPackage()
	require.NoError(t, err)
	assert.Equal(t, "example.com/app/internal/models", pkg)
	assert.Equal(t, "example.com/app", c.Module)

	c = MustNewConfig(WithModule("example.com/x"), WithNamespaces(Namespaces{Handler: "example.com/x/api"}))
	pkg, err = c.HandlerPackage()
	require.NoError(t, err)
	assert.Equal(t, "example.com/x/api", pkg)
	pkg, err = c.ModelPackage()
	require.NoError(t, err)
	assert.Equal(t, "example.com/x/internal/models", pkg)
}

func TestMigrationName(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "2026_10_18_090507_create_blog_posts_table", MigrationName("blog_posts", ts))
}

func TestFeatures(t *testing.T) {
	f, ok := FeatureByName("typescript")
	require.True(t, ok)
	assert.Equal(t, FeatureTypeScript.Name, f.Name)
	assert.Equal(t, "stable", f.Stage.String())
	_, ok = FeatureByName("privacy")
	assert.False(t, ok)
	assert.Empty(t, DefaultFeatures())
}
