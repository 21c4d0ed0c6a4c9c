package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopmonkeyus/go-common/logger"

	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/compiler/spec"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
	"github.com/syssam/scaffold/schema/migrate"
)

// Kind identifies an artifact.
type Kind string

// Artifact kinds.
const (
	KindMigration  Kind = "migration"
	KindModel      Kind = "model"
	KindHandler    Kind = "handler"
	KindRoutes     Kind = "routes"
	KindGraphQL    Kind = "graphql"
	KindTypeScript Kind = "typescript"
)

// File is one artifact on disk.
type File struct {
	Kind Kind
	Path string
}

// Artifacts describes the outcome of generating one record type.
type Artifacts struct {
	Record string
	Table  string
	// Spec is the canonical field-spec of the generated fields.
	Spec    string
	Written []File
	// Skipped holds the artifacts that already existed.
	Skipped []File
	// Suggestions are printed for the user and never written.
	Suggestions []string
	Warnings    []string
	Metrics     WriterMetrics
}

// Preview describes what Generate would do without touching the disk.
type Preview struct {
	Record *Record
	Spec   string
	Files  []File
	// DDL holds the statements creating the table.
	DDL []string
	// Rules maps field names to their validation rules.
	Rules    map[string]string
	Warnings []string
}

// helper carries the state shared by the emitters of one record.
type helper struct {
	cfg        *Config
	record     *Record
	migration  string
	modelPkg   string
	handlerPkg string
}

// Generator generates the artifacts of record types.
type Generator struct {
	cfg *Config
}

// New returns a generator for the given configuration.
func New(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := ensureRoot(cfg.Root); err != nil {
		return nil, err
	}
	if !dialect.Valid(cfg.Dialect) {
		return nil, NewConfigError("Dialect", cfg.Dialect, "unsupported dialect")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewConsoleLogger(logger.LevelInfo)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Generator{cfg: cfg}, nil
}

// NewGenerator returns a generator configured by opts.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config { return g.cfg }

// ModelPath returns the path of the model file of a record type.
func (g *Generator) ModelPath(record string) string {
	return g.cfg.path(g.cfg.Dirs.Model, naming.Snake(naming.Pascal(record))+".go")
}

// Exists reports if the model file of a record type exists.
func (g *Generator) Exists(record string) bool {
	return exists(g.ModelPath(record))
}

// tasks returns the artifacts of a record in write order.
func (g *Generator) tasks(h *helper) []*fileTask {
	c, r := g.cfg, h.record
	tasks := []*fileTask{
		{kind: KindMigration, path: c.path(c.Dirs.Migration, h.migration+".go"), gen: genMigration, always: true},
		{kind: KindModel, path: g.ModelPath(r.Name), gen: genModel},
		{kind: KindHandler, path: c.path(c.Dirs.Handler, r.File+"_handler.go"), gen: genHandler},
	}
	if c.FeatureEnabled(FeatureGraphQL.Name) {
		tasks = append(tasks, &fileTask{kind: KindGraphQL, path: c.path(c.Dirs.GraphQL, graphqlFile(r.Name)), text: genGraphQL})
	}
	if c.FeatureEnabled(FeatureTypeScript.Name) {
		tasks = append(tasks, &fileTask{kind: KindTypeScript, path: c.path(c.Dirs.TypeScript, typescriptFile(r.Name)), text: genTypeScript})
	}
	return tasks
}

// prepare validates the fields and resolves the names shared by the
// emitters.
func (g *Generator) prepare(record string, fields []field.Descriptor) (*helper, []string, error) {
	r, warnings, err := NewRecord(record, fields)
	if err != nil {
		return nil, warnings, err
	}
	if !dialect.SupportsBoolLiteral(g.cfg.Dialect) {
		for _, name := range r.BoolDefaults() {
			warnings = append(warnings, fmt.Sprintf("%s: default of boolean field %s is written as 1 or 0, which %s may not accept", r.Name, name, g.cfg.Dialect))
		}
	}
	h := &helper{
		cfg:       g.cfg,
		record:    r,
		migration: MigrationName(r.Table, g.cfg.Now()),
	}
	if h.modelPkg, err = g.cfg.ModelPackage(); err != nil {
		return nil, warnings, err
	}
	if h.handlerPkg, err = g.cfg.HandlerPackage(); err != nil {
		return nil, warnings, err
	}
	return h, warnings, nil
}

// Generate writes the artifacts of a record type. Artifacts that already
// exist are skipped unless the config forces overwriting. A migration is
// only skipped when another source already creates the table.
func (g *Generator) Generate(ctx context.Context, record string, fields []field.Descriptor) (*Artifacts, error) {
	log := g.cfg.Logger.WithPrefix("[gen]")
	h, warnings, err := g.prepare(record, fields)
	for _, w := range warnings {
		log.Warn("%s", w)
	}
	if err != nil {
		return nil, err
	}
	r := h.record
	art := &Artifacts{
		Record:   r.Name,
		Table:    r.Table,
		Spec:     spec.Render(descriptors(r)),
		Warnings: warnings,
	}

	tasks := g.tasks(h)
	if path, ok := existingMigration(g.cfg.path(g.cfg.Dirs.Migration), r.Table); ok {
		if g.cfg.Force {
			// Rewrite the existing source instead of adding a second one.
			tasks[0].path = path
			h.migration = strings.TrimSuffix(filepath.Base(path), ".go")
		} else {
			log.Info("table %s is already created by %s", r.Table, filepath.Base(path))
			art.Skipped = append(art.Skipped, File{Kind: KindMigration, Path: path})
			tasks = tasks[1:]
		}
	}

	w := &writer{h: h, workers: g.cfg.Workers, force: g.cfg.Force}
	if err := w.render(ctx, tasks); err != nil {
		return nil, err
	}
	if err := w.write(tasks, art); err != nil {
		return art, err
	}

	if g.cfg.Dirs.Routes != "" {
		added, err := register(h)
		if err != nil {
			return art, err
		}
		routes := File{Kind: KindRoutes, Path: g.cfg.path(g.cfg.Dirs.Routes)}
		if added {
			art.Written = append(art.Written, routes)
		} else {
			art.Skipped = append(art.Skipped, routes)
		}
	}
	if g.cfg.Force {
		if err := g.cfg.Cleanup(r.Name); err != nil {
			log.Warn("removing stale artifacts of %s: %s", r.Name, err)
		}
	}

	for _, hint := range r.Hints {
		art.Suggestions = append(art.Suggestions, hint.Suggestion())
	}
	art.Metrics = w.metrics
	for _, f := range art.Written {
		log.Info("created %s %s", f.Kind, f.Path)
	}
	for _, f := range art.Skipped {
		log.Debug("skipped %s %s, already exists", f.Kind, f.Path)
	}
	return art, nil
}

// Preview returns the files, DDL and validation rules Generate would
// produce. It does not touch the disk.
func (g *Generator) Preview(ctx context.Context, record string, fields []field.Descriptor) (*Preview, error) {
	h, warnings, err := g.prepare(record, fields)
	if err != nil {
		return nil, err
	}
	r := h.record
	p := &Preview{
		Record:   r,
		Spec:     spec.Render(descriptors(r)),
		Rules:    make(map[string]string, len(r.Fields)),
		Warnings: warnings,
	}
	for _, t := range g.tasks(h) {
		p.Files = append(p.Files, File{Kind: t.kind, Path: t.path})
	}
	if g.cfg.Dirs.Routes != "" {
		p.Files = append(p.Files, File{Kind: KindRoutes, Path: g.cfg.path(g.cfg.Dirs.Routes)})
	}
	for _, fd := range r.Fields {
		p.Rules[fd.Name] = field.RuleString(fd.Descriptor)
	}
	p.DDL, err = migrate.Plan(ctx, g.cfg.Dialect, migrate.Build(r.Table, descriptors(r)))
	if err != nil {
		return nil, NewGenerationError(KindMigration, "", "plan DDL", err)
	}
	return p, nil
}

func descriptors(r *Record) []field.Descriptor {
	ds := make([]field.Descriptor, len(r.Fields))
	for i, f := range r.Fields {
		ds[i] = f.Descriptor
	}
	return ds
}

// ensureRoot checks that the project root is a directory.
func ensureRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return NewConfigError("Root", root, err.Error())
	}
	if !info.IsDir() {
		return NewConfigError("Root", root, "not a directory")
	}
	return nil
}
