// Package config loads the project configuration of the scaffold command
// from scaffold.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/dialect"
)

// FileName is the name of the configuration file in the project root.
const FileName = "scaffold.yaml"

// EnvPrefix prefixes the environment variables overriding the file.
const EnvPrefix = "SCAFFOLD"

// ErrExists is returned by Write when the file exists.
var ErrExists = errors.New("scaffold: configuration file already exists")

// legacyEnv maps keys to the environment variables older projects set.
var legacyEnv = map[string]string{
	"default_stack":       "FRONTEND_STACK",
	"supports_typescript": "SUPPORT_TYPESCRIPT",
}

// Database holds the database settings.
type Database struct {
	Dialect string `mapstructure:"dialect" yaml:"dialect"`
}

// Config is the project configuration.
type Config struct {
	DefaultStack       string          `mapstructure:"default_stack" yaml:"default_stack"`
	SupportsTypeScript bool            `mapstructure:"supports_typescript" yaml:"supports_typescript"`
	Database           Database        `mapstructure:"database" yaml:"database"`
	Directories        gen.Directories `mapstructure:"directories" yaml:"directories"`
	Namespaces         gen.Namespaces  `mapstructure:"namespaces" yaml:"namespaces"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// Default returns the configuration used when nothing is configured.
func Default() Config {
	return Config{
		DefaultStack: gen.StackREST,
		Database:     Database{Dialect: dialect.MySQL},
		Directories:  gen.DefaultDirectories(),
	}
}

// Load reads the configuration of the project in root. An explicit file
// must exist; otherwise root/scaffold.yaml is read when present.
// Environment variables take precedence over the file.
func Load(root, file string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), legacy); err != nil {
			return nil, err
		}
	}

	if file == "" {
		if candidate := filepath.Join(root, FileName); exists(candidate) {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	c.File = file
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("default_stack", c.DefaultStack)
	v.SetDefault("supports_typescript", c.SupportsTypeScript)
	v.SetDefault("database.dialect", c.Database.Dialect)
	v.SetDefault("directories.model", c.Directories.Model)
	v.SetDefault("directories.handler", c.Directories.Handler)
	v.SetDefault("directories.migration", c.Directories.Migration)
	v.SetDefault("directories.routes", c.Directories.Routes)
	v.SetDefault("directories.graphql", c.Directories.GraphQL)
	v.SetDefault("directories.typescript", c.Directories.TypeScript)
	v.SetDefault("namespaces.model", c.Namespaces.Model)
	v.SetDefault("namespaces.handler", c.Namespaces.Handler)
}

// Validate checks the stack and dialect names.
func (c *Config) Validate() error {
	switch c.DefaultStack {
	case gen.StackREST, gen.StackGraphQL:
	default:
		return fmt.Errorf("default_stack: unsupported stack %q, use rest or graphql", c.DefaultStack)
	}
	d, err := dialect.Normalize(c.Database.Dialect)
	if err != nil {
		return fmt.Errorf("database.dialect: %w", err)
	}
	c.Database.Dialect = d
	return nil
}

// MigrationDir returns the migration directory resolved against root.
func (c *Config) MigrationDir(root string) string {
	return filepath.Join(root, c.Directories.Migration)
}

// Options returns the generator options of the configuration.
func (c *Config) Options() []gen.Option {
	return []gen.Option{
		gen.WithStack(c.DefaultStack),
		gen.WithTypeScript(c.SupportsTypeScript),
		gen.WithDialect(c.Database.Dialect),
		gen.WithDirectories(c.Directories),
		gen.WithNamespaces(c.Namespaces),
	}
}

// Write writes c as YAML to path. An existing file is only replaced when
// force is set.
func Write(path string, c Config, force bool) error {
	if !force && exists(path) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
