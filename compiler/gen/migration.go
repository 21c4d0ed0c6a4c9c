package gen

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/load"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
)

// MigratePackage is the import path of the migration DSL.
const MigratePackage = "github.com/syssam/scaffold/schema/migrate"

// migrationLayout is the timestamp prefix of migration names.
const migrationLayout = "2006_01_02_150405"

// MigrationName returns the migration name of a table created at t,
// e.g. 2026_10_18_120000_create_posts_table.
func MigrationName(table string, t time.Time) string {
	return fmt.Sprintf("%s_create_%s_table", t.Format(migrationLayout), table)
}

// packageName returns the package name of the Go files in dir.
func packageName(dir, fallback string) string {
	name := strings.ReplaceAll(filepath.Base(dir), "-", "_")
	if !dialect.IsValidIdentifier(name) {
		return fallback
	}
	return strings.ToLower(name)
}

// genMigration generates the schema source creating the record table.
func genMigration(h *helper) *jen.File {
	r := h.record
	f := jen.NewFile(packageName(h.cfg.Dirs.Migration, "migrations"))
	if h.cfg.Header != "" {
		f.HeaderComment(h.cfg.Header)
	}
	f.ImportName(MigratePackage, "migrate")

	schemaParam := jen.Id("s").Op("*").Qual(MigratePackage, "Schema")
	f.Func().Id("init").Params().Block(
		jen.Qual(MigratePackage, "Register").Call(
			jen.Lit(h.migration),
			jen.Func().Params(schemaParam.Clone()).Block(
				jen.Id("s").Dot("Create").Call(
					jen.Lit(r.Table),
					jen.Func().Params(jen.Id("t").Op("*").Qual(MigratePackage, "Table")).BlockFunc(func(grp *jen.Group) {
						grp.Id("t").Dot("ID").Call()
						for _, fd := range r.Fields {
							grp.Add(columnStmt(fd))
						}
						grp.Id("t").Dot("Timestamps").Call()
					}),
				),
			),
			jen.Func().Params(schemaParam.Clone()).Block(
				jen.Id("s").Dot("DropIfExists").Call(jen.Lit(r.Table)),
			),
		),
	)
	return f
}

// columnStmt returns the builder chain of a field. The chain is rendered on
// one line so the extractor recovers every modifier.
func columnStmt(fd Field) *jen.Statement {
	args := []jen.Code{jen.Lit(fd.Name)}
	if fd.Type == field.TypeEnum {
		for _, v := range fd.EnumValues() {
			args = append(args, jen.Lit(v))
		}
	}
	s := jen.Id("t").Dot(fd.Type.Builder()).Call(args...)
	if fd.Nullable() {
		s.Dot("Nullable").Call()
	}
	if raw, ok := fd.Default(); ok {
		s.Dot("Default").Call(jen.Lit(raw))
	}
	if fd.Modifiers.Has(field.Index) {
		s.Dot("Index").Call()
	}
	if fd.Modifiers.Has(field.Unique) {
		s.Dot("Unique").Call()
	}
	if h := fd.Hint; h != nil {
		if h.Explicit {
			s.Dot("Constrained").Call(jen.Lit(h.Table))
		} else {
			s.Dot("Constrained").Call()
		}
		if fd.Modifiers.Has(field.OnDelete) {
			s.Dot("OnDelete").Call(jen.Lit(h.OnDelete))
		}
		if fd.Modifiers.Has(field.OnUpdate) {
			s.Dot("OnUpdate").Call(jen.Lit(h.OnUpdate))
		}
	}
	return s
}

// existingMigration returns the path of a migration source already
// creating table, if any.
func existingMigration(dir, table string) (string, bool) {
	units, err := load.Discover(dir)
	if err != nil {
		return "", false
	}
	for _, u := range units {
		if u.Table == table {
			return u.Path, true
		}
	}
	return "", false
}
