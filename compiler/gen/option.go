package gen

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/shopmonkeyus/go-common/logger"
	"golang.org/x/mod/modfile"

	"github.com/syssam/scaffold/dialect"
)

// Stacks supported by the generator.
const (
	StackREST    = "rest"
	StackGraphQL = "graphql"
)

// DefaultHeader is written at the top of every generated Go file.
const DefaultHeader = "Code scaffolded by scaffold. This file is yours to edit."

// Directories holds the output locations of the artifacts, relative to
// the project root. Routes is the path of the route registration file.
type Directories struct {
	Model      string `mapstructure:"model" yaml:"model"`
	Handler    string `mapstructure:"handler" yaml:"handler"`
	Migration  string `mapstructure:"migration" yaml:"migration"`
	Routes     string `mapstructure:"routes" yaml:"routes"`
	GraphQL    string `mapstructure:"graphql" yaml:"graphql"`
	TypeScript string `mapstructure:"typescript" yaml:"typescript"`
}

// DefaultDirectories returns the default output locations.
func DefaultDirectories() Directories {
	return Directories{
		Model:      "internal/models",
		Handler:    "internal/handlers",
		Migration:  "database/migrations",
		Routes:     "internal/routes/routes.go",
		GraphQL:    "graph/schema",
		TypeScript: "web/src/types",
	}
}

// merge returns d with the empty locations taken from o.
func (d Directories) merge(o Directories) Directories {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Directories{
		Model:      pick(d.Model, o.Model),
		Handler:    pick(d.Handler, o.Handler),
		Migration:  pick(d.Migration, o.Migration),
		Routes:     pick(d.Routes, o.Routes),
		GraphQL:    pick(d.GraphQL, o.GraphQL),
		TypeScript: pick(d.TypeScript, o.TypeScript),
	}
}

// Namespaces holds the Go import paths of the generated packages.
type Namespaces struct {
	Model   string `mapstructure:"model" yaml:"model"`
	Handler string `mapstructure:"handler" yaml:"handler"`
}

// Config holds the configuration of a generator.
type Config struct {
	// Root is the project directory all locations are relative to.
	Root string
	// Module is the Go module path of the project. When empty it is read
	// from the go.mod file in Root.
	Module string
	// Dirs holds the artifact locations.
	Dirs Directories
	// Namespaces holds the import paths of the model and handler packages.
	// Empty paths are derived from Module and Dirs.
	Namespaces Namespaces
	// Stack is either StackREST or StackGraphQL.
	Stack string
	// Dialect is the SQL dialect of the generated store and DDL preview.
	Dialect string
	// Features holds the enabled feature flags.
	Features []Feature
	// Force overwrites existing artifacts.
	Force bool
	// Header is written at the top of generated Go files.
	Header string
	// Workers bounds the number of artifacts rendered concurrently.
	Workers int
	Logger  logger.Logger
	// Now returns the time used in migration names.
	Now func() time.Time
}

// Option configures code generation.
type Option func(*Config) error

// WithRoot sets the project directory.
func WithRoot(root string) Option {
	return func(c *Config) error {
		if root == "" {
			return NewConfigError("Root", nil, "root cannot be empty")
		}
		c.Root = root
		return nil
	}
}

// WithModule sets the Go module path of the project.
func WithModule(module string) Option {
	return func(c *Config) error {
		c.Module = module
		return nil
	}
}

// WithDirectories overrides the non-empty locations of dirs.
func WithDirectories(dirs Directories) Option {
	return func(c *Config) error {
		c.Dirs = dirs.merge(c.Dirs)
		return nil
	}
}

// WithNamespaces sets the import paths of the generated packages.
func WithNamespaces(ns Namespaces) Option {
	return func(c *Config) error {
		if ns.Model != "" {
			c.Namespaces.Model = ns.Model
		}
		if ns.Handler != "" {
			c.Namespaces.Handler = ns.Handler
		}
		return nil
	}
}

// WithStack selects the API stack. The graphql stack enables FeatureGraphQL.
func WithStack(stack string) Option {
	return func(c *Config) error {
		switch stack {
		case "", StackREST:
			c.Stack = StackREST
		case StackGraphQL:
			c.Stack = StackGraphQL
			return WithFeatures(FeatureGraphQL)(c)
		default:
			return NewConfigError("Stack", stack, "unsupported stack; use rest or graphql")
		}
		return nil
	}
}

// WithTypeScript toggles generation of TypeScript types.
func WithTypeScript(enabled bool) Option {
	return func(c *Config) error {
		if enabled {
			return WithFeatures(FeatureTypeScript)(c)
		}
		c.Features = slices.DeleteFunc(c.Features, func(f Feature) bool {
			return f.Name == FeatureTypeScript.Name
		})
		return nil
	}
}

// WithDialect sets the SQL dialect.
func WithDialect(name string) Option {
	return func(c *Config) error {
		d, err := dialect.Normalize(name)
		if err != nil {
			return NewConfigError("Dialect", name, err.Error())
		}
		c.Dialect = d
		return nil
	}
}

// WithFeatures enables the given feature flags.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.FeatureEnabled(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithForce overwrites existing artifacts.
func WithForce(force bool) Option {
	return func(c *Config) error {
		c.Force = force
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated Go file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers bounds the concurrency of rendering.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Config) error {
		if log == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = log
		return nil
	}
}

// WithClock sets the clock used to name migrations.
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		if now == nil {
			return NewConfigError("Now", nil, "clock cannot be nil")
		}
		c.Now = now
		return nil
	}
}

// Apply applies the given options to the config.
// Returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies all options and returns all errors combined.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options applied on top of
// the defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Root:     ".",
		Dirs:     DefaultDirectories(),
		Stack:    StackREST,
		Dialect:  dialect.MySQL,
		Header:   DefaultHeader,
		Features: DefaultFeatures(),
		Workers:  runtime.GOMAXPROCS(0),
		Logger:   logger.NewConsoleLogger(logger.LevelInfo),
		Now:      time.Now,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config and panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// path joins a location to the project root.
func (c *Config) path(elem ...string) string {
	return filepath.Join(append([]string{c.Root}, elem...)...)
}

// ModelPackage returns the import path of the model package.
func (c *Config) ModelPackage() (string, error) {
	return c.namespace(c.Namespaces.Model, c.Dirs.Model)
}

// HandlerPackage returns the import path of the handler package.
func (c *Config) HandlerPackage() (string, error) {
	return c.namespace(c.Namespaces.Handler, c.Dirs.Handler)
}

func (c *Config) namespace(ns, dir string) (string, error) {
	if ns != "" {
		return ns, nil
	}
	module, err := c.module()
	if err != nil {
		return "", err
	}
	return path.Join(module, filepath.ToSlash(dir)), nil
}

// module returns the configured module path or the one declared in go.mod.
func (c *Config) module() (string, error) {
	if c.Module != "" {
		return c.Module, nil
	}
	data, err := os.ReadFile(c.path("go.mod"))
	if err != nil {
		return "", NewConfigError("Module", nil, "no module path configured and no go.mod found in "+c.Root)
	}
	module := modfile.ModulePath(data)
	if module == "" {
		return "", NewConfigError("Module", nil, "go.mod declares no module path")
	}
	c.Module = module
	return module, nil
}
