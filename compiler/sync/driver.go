// Package sync scaffolds the record types declared by migration sources
// that have no generated model yet.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopmonkeyus/go-common/logger"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/load"
	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/compiler/spec"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
	"github.com/syssam/scaffold/schema/migrate"
)

// ErrNotRepresentable is recorded for a migration whose fields change when
// rendered as a field-spec and parsed back, e.g. a default containing an
// unbalanced parenthesis.
var ErrNotRepresentable = errors.New("scaffold: extracted fields cannot be expressed as a field-spec")

// RecordStore answers if a record type was already scaffolded.
type RecordStore interface {
	Exists(record string) bool
}

// Pipeline generates the artifacts of one record type.
type Pipeline interface {
	Generate(ctx context.Context, record string, fields []field.Descriptor) (*gen.Artifacts, error)
}

// Report describes what a dry run would generate for one unit.
type Report struct {
	Record string
	Table  string
	Path   string
	Spec   string
	DDL    []string
}

// Failure is a unit whose generation failed.
type Failure struct {
	Record string
	Path   string
	Err    error
}

// Result summarizes one synchronization pass.
type Result struct {
	RunID      string
	Units      int
	Scaffolded []string
	Skipped    []string
	Reported   []Report
	Excluded   []string
	Failed     []Failure
}

// Changed reports if the pass generated or would generate anything.
func (r *Result) Changed() bool {
	return len(r.Scaffolded) > 0 || len(r.Reported) > 0
}

// Driver runs synchronization passes.
type Driver struct {
	Extractor load.Extractor
	Store     RecordStore
	Pipeline  Pipeline
	Logger    logger.Logger
	// DryRun reports instead of generating.
	DryRun bool
	// Dialect of the DDL shown in dry-run reports. Defaults to MySQL.
	Dialect string
}

// Run performs one pass over the migration sources of dir, in file name
// order. A missing directory aborts the pass. Generation failures are
// recorded and the pass continues with the next unit.
func (d *Driver) Run(ctx context.Context, dir string) (*Result, error) {
	units, err := load.Discover(dir)
	if err != nil {
		return nil, err
	}
	res := &Result{RunID: uuid.NewString(), Units: len(units)}
	log := d.Logger.WithPrefix("[sync]")
	log.Debug("run %s: %d migration sources in %s", res.RunID, len(units), dir)
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		x, ok := d.Extractor.Extract(u)
		if !ok || x.Table == "" {
			log.Trace("no table created in %s", u.OrderKey)
			res.Excluded = append(res.Excluded, u.Path)
			continue
		}
		record := naming.Record(x.Table)
		if d.Store.Exists(record) {
			log.Info("%s already exists, skipping %s", record, u.OrderKey)
			res.Skipped = append(res.Skipped, record)
			continue
		}
		canonical := spec.Render(x.Fields)
		parsed := spec.Parse(canonical)
		if !sameFields(x.Fields, parsed.Fields) {
			err := fmt.Errorf("%w: %s renders as %q", ErrNotRepresentable, record, canonical)
			log.Error("%s", err)
			res.Failed = append(res.Failed, Failure{Record: record, Path: u.Path, Err: err})
			continue
		}
		if d.DryRun {
			r := Report{Record: record, Table: x.Table, Path: u.Path, Spec: canonical}
			r.DDL, err = migrate.Plan(ctx, d.dialect(), migrate.Build(x.Table, x.Fields))
			if err != nil {
				log.Warn("planning DDL for %s: %s", record, err)
			}
			log.Info("would scaffold %s with fields %q", record, canonical)
			res.Reported = append(res.Reported, r)
			continue
		}
		for _, diag := range parsed.Diagnostics {
			log.Warn("%s: %s", record, diag)
		}
		log.Info("scaffolding %s from %s", record, u.OrderKey)
		if _, err := d.Pipeline.Generate(ctx, record, parsed.Fields); err != nil {
			log.Error("scaffolding %s: %s", record, err)
			res.Failed = append(res.Failed, Failure{Record: record, Path: u.Path, Err: err})
			continue
		}
		res.Scaffolded = append(res.Scaffolded, record)
	}
	return res, nil
}

func (d *Driver) dialect() string {
	if d.Dialect == "" {
		return dialect.MySQL
	}
	return d.Dialect
}

// String implements the fmt.Stringer interface.
func (r *Result) String() string {
	return fmt.Sprintf("%d sources: %d scaffolded, %d reported, %d skipped, %d excluded, %d failed",
		r.Units, len(r.Scaffolded), len(r.Reported), len(r.Skipped), len(r.Excluded), len(r.Failed))
}

func sameFields(a, b []field.Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
