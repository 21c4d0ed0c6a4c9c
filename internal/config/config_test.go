package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/dialect"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, gen.StackREST, c.DefaultStack)
	assert.False(t, c.SupportsTypeScript)
	assert.Equal(t, dialect.MySQL, c.Database.Dialect)
	assert.Equal(t, gen.DefaultDirectories(), c.Directories)
	assert.Empty(t, c.File)
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `default_stack: graphql
supports_typescript: true
database:
  dialect: pgsql
directories:
  model: app/models
namespaces:
  handler: example.com/app/api
`)

	c, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, gen.StackGraphQL, c.DefaultStack)
	assert.True(t, c.SupportsTypeScript)
	assert.Equal(t, dialect.Postgres, c.Database.Dialect)
	assert.Equal(t, "app/models", c.Directories.Model)
	assert.Equal(t, "internal/handlers", c.Directories.Handler)
	assert.Equal(t, "example.com/app/api", c.Namespaces.Handler)
	assert.Equal(t, filepath.Join(root, FileName), c.File)
}

func TestLoadExplicitFile(t *testing.T) {
	root := t.TempDir()
	t.Run("missing", func(t *testing.T) {
		_, err := Load(root, filepath.Join(root, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("present", func(t *testing.T) {
		path := filepath.Join(root, "custom.yaml")
		writeFile(t, path, "directories:\n  migration: db/migrate\n")
		c, err := Load(root, path)
		require.NoError(t, err)
		assert.Equal(t, "db/migrate", c.Directories.Migration)
		assert.Equal(t, filepath.Join(root, "db/migrate"), c.MigrationDir(root))
	})
}

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		stack  string
		ts     bool
		models string
	}{
		{
			name:   "prefixed",
			env:    map[string]string{"SCAFFOLD_DEFAULT_STACK": "graphql", "SCAFFOLD_DIRECTORIES_MODEL": "pkg/models"},
			stack:  gen.StackGraphQL,
			models: "pkg/models",
		},
		{
			name:   "legacy",
			env:    map[string]string{"FRONTEND_STACK": "graphql", "SUPPORT_TYPESCRIPT": "true"},
			stack:  gen.StackGraphQL,
			ts:     true,
			models: "internal/models",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			c, err := Load(t.TempDir(), "")
			require.NoError(t, err)
			assert.Equal(t, tt.stack, c.DefaultStack)
			assert.Equal(t, tt.ts, c.SupportsTypeScript)
			assert.Equal(t, tt.models, c.Directories.Model)
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "database:\n  dialect: sqlite\n")
	t.Setenv("SCAFFOLD_DATABASE_DIALECT", "postgres")

	c, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, c.Database.Dialect)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"bad stack", func(c *Config) { c.DefaultStack = "soap" }, "default_stack"},
		{"bad dialect", func(c *Config) { c.Database.Dialect = "oracle" }, "database.dialect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteAndLoad(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	c := Default()
	c.SupportsTypeScript = true
	c.Namespaces.Model = "example.com/app/models"

	require.NoError(t, Write(path, c, false))
	err := Write(path, c, false)
	assert.ErrorIs(t, err, ErrExists)
	require.NoError(t, Write(path, c, true))

	loaded, err := Load(root, "")
	require.NoError(t, err)
	loaded.File = ""
	assert.Equal(t, c, *loaded)
}

func TestOptions(t *testing.T) {
	c := Default()
	c.DefaultStack = gen.StackGraphQL
	c.SupportsTypeScript = true
	c.Database.Dialect = dialect.SQLite
	c.Directories.Handler = "api"

	cfg, err := gen.NewConfig(c.Options()...)
	require.NoError(t, err)
	assert.Equal(t, gen.StackGraphQL, cfg.Stack)
	assert.True(t, cfg.FeatureEnabled(gen.FeatureGraphQL.Name))
	assert.True(t, cfg.FeatureEnabled(gen.FeatureTypeScript.Name))
	assert.Equal(t, dialect.SQLite, cfg.Dialect)
	assert.Equal(t, "api", cfg.Dirs.Handler)
	assert.Equal(t, "internal/models", cfg.Dirs.Model)
}
