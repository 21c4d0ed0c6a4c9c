package migrate

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	sqlmigrate "ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
)

// Default column sizes.
const (
	DefaultStringSize = 255
	DefaultPrecision  = 8
	DefaultScale      = 2
)

// RefTableName returns the table referenced by a constrained column.
func (c *Column) RefTableName() string {
	if c.RefTable != "" {
		return c.RefTable
	}
	return naming.Plural(strings.TrimSuffix(c.Name, "_id"))
}

// Atlas converts the described tables to atlas tables of the given dialect.
// Referenced tables that are not part of tables are added as stubs holding
// only their primary key, so foreign keys can be planned.
func Atlas(d string, tables ...*Table) ([]*schema.Table, error) {
	if !dialect.Valid(d) {
		return nil, fmt.Errorf("migrate: unsupported dialect %q", d)
	}
	var (
		s      = schema.New("")
		out    = make([]*schema.Table, 0, len(tables))
		byName = make(map[string]*schema.Table, len(tables))
	)
	for _, t := range tables {
		at, err := t.atlas(d)
		if err != nil {
			return nil, err
		}
		s.AddTables(at)
		out = append(out, at)
		byName[t.Name] = at
	}
	ref := func(name string) *schema.Table {
		if at, ok := byName[name]; ok {
			return at
		}
		stub := schema.NewTable(name).AddColumns(idColumn(d))
		stub.SetPrimaryKey(schema.NewPrimaryKey(stub.Columns...))
		s.AddTables(stub)
		byName[name] = stub
		return stub
	}
	for i, t := range tables {
		at := out[i]
		for _, c := range t.Columns {
			if !c.IsConstrained {
				continue
			}
			col, _ := at.Column(c.Name)
			rt := ref(c.RefTableName())
			rc, ok := rt.Column("id")
			if !ok {
				return nil, fmt.Errorf("migrate: table %q referenced by %s.%s has no id column", rt.Name, t.Name, c.Name)
			}
			fk := schema.NewForeignKey(fmt.Sprintf("%s_%s_foreign", t.Name, c.Name)).
				AddColumns(col).
				SetRefTable(rt).
				AddRefColumns(rc).
				SetOnDelete(refAction(c.OnDeleteAction)).
				SetOnUpdate(refAction(c.OnUpdateAction))
			at.AddForeignKeys(fk)
		}
	}
	return out, nil
}

// Plan returns the DDL statements creating the tables in the dialect.
// Planning is offline; no database connection is opened.
func Plan(ctx context.Context, d string, tables ...*Table) ([]string, error) {
	ats, err := Atlas(d, tables...)
	if err != nil {
		return nil, err
	}
	changes := make([]schema.Change, 0, len(ats))
	for _, at := range ats {
		changes = append(changes, &schema.AddTable{T: at})
	}
	var planner sqlmigrate.PlanApplier
	switch d {
	case dialect.Postgres:
		planner = postgres.DefaultPlan
	case dialect.SQLite:
		planner = sqlite.DefaultPlan
	default:
		planner = mysql.DefaultPlan
	}
	name := "create"
	if len(tables) == 1 {
		name = "create_" + tables[0].Name
	}
	plan, err := planner.PlanChanges(ctx, name, changes)
	if err != nil {
		return nil, fmt.Errorf("migrate: planning %s: %w", name, err)
	}
	stmts := make([]string, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		stmts = append(stmts, c.Cmd)
	}
	return stmts, nil
}

func (t *Table) atlas(d string) (*schema.Table, error) {
	if !dialect.IsValidIdentifier(t.Name) {
		return nil, fmt.Errorf("migrate: invalid table name %q", t.Name)
	}
	at := schema.NewTable(t.Name)
	if t.HasID {
		at.AddColumns(idColumn(d))
		at.SetPrimaryKey(schema.NewPrimaryKey(at.Columns[0]))
	}
	for _, c := range t.Columns {
		if !dialect.IsValidIdentifier(c.Name) {
			return nil, fmt.Errorf("migrate: invalid column name %q in table %q", c.Name, t.Name)
		}
		col := &schema.Column{
			Name: c.Name,
			Type: &schema.ColumnType{Type: c.atlasType(d), Null: c.IsNullable},
		}
		if c.DefaultVal != nil {
			col.Default = c.defaultExpr(d)
		}
		at.AddColumns(col)
		switch {
		case c.IsUnique:
			at.AddIndexes(schema.NewUniqueIndex(fmt.Sprintf("%s_%s_unique", t.Name, c.Name)).AddColumns(col))
		case c.IsIndex:
			at.AddIndexes(schema.NewIndex(fmt.Sprintf("%s_%s_index", t.Name, c.Name)).AddColumns(col))
		}
	}
	if t.Timestamped {
		for _, name := range []string{"created_at", "updated_at"} {
			at.AddColumns(timeColumn(d, name))
		}
	}
	if t.SoftDelete {
		at.AddColumns(timeColumn(d, "deleted_at"))
	}
	return at, nil
}

func idColumn(d string) *schema.Column {
	switch d {
	case dialect.Postgres:
		return schema.NewColumn("id").SetType(&postgres.SerialType{T: postgres.TypeBigSerial})
	case dialect.SQLite:
		return schema.NewIntColumn("id", "integer").AddAttrs(&sqlite.AutoIncrement{})
	default:
		return schema.NewColumn("id").
			SetType(&schema.IntegerType{T: mysql.TypeBigInt, Unsigned: true}).
			AddAttrs(&mysql.AutoIncrement{})
	}
}

func timeColumn(d, name string) *schema.Column {
	t := "timestamp"
	if d == dialect.MySQL {
		t = mysql.TypeTimestamp
	}
	return schema.NewNullTimeColumn(name, t)
}

// atlasType maps the column type to an atlas type of the dialect.
func (c *Column) atlasType(d string) schema.Type {
	pg, lite := d == dialect.Postgres, d == dialect.SQLite
	str := func(size int) schema.Type {
		if lite {
			return &schema.StringType{T: "text"}
		}
		return &schema.StringType{T: "varchar", Size: size}
	}
	integer := func(t string) schema.Type {
		if lite {
			return &schema.IntegerType{T: "integer"}
		}
		return &schema.IntegerType{T: t}
	}
	switch c.Type {
	case field.TypeString:
		size := c.Size
		if size <= 0 {
			size = DefaultStringSize
		}
		return str(size)
	case field.TypeText:
		return &schema.StringType{T: "text"}
	case field.TypeInteger:
		return integer("int")
	case field.TypeBigInteger:
		return integer("bigint")
	case field.TypeSmallInteger:
		return integer("smallint")
	case field.TypeTinyInteger:
		if pg {
			return integer("smallint")
		}
		return integer("tinyint")
	case field.TypeFloat:
		if pg {
			return &schema.FloatType{T: "real"}
		}
		return &schema.FloatType{T: "float"}
	case field.TypeDouble:
		switch {
		case pg:
			return &schema.FloatType{T: "double precision"}
		case lite:
			return &schema.FloatType{T: "real"}
		}
		return &schema.FloatType{T: "double"}
	case field.TypeDecimal:
		p, s := c.Precision, c.Scale
		if p <= 0 {
			p, s = DefaultPrecision, DefaultScale
		}
		return &schema.DecimalType{T: "decimal", Precision: p, Scale: s}
	case field.TypeBoolean:
		if d == dialect.MySQL {
			return &schema.BoolType{T: "bool"}
		}
		return &schema.BoolType{T: "boolean"}
	case field.TypeDateTime:
		if d == dialect.MySQL {
			return &schema.TimeType{T: "datetime"}
		}
		return &schema.TimeType{T: "timestamp"}
	case field.TypeDate:
		return &schema.TimeType{T: "date"}
	case field.TypeTime:
		return &schema.TimeType{T: "time"}
	case field.TypeTimestamp:
		return &schema.TimeType{T: "timestamp"}
	case field.TypeEnum:
		if d == dialect.MySQL && len(c.Values) > 0 {
			return &schema.EnumType{T: "enum", Values: c.Values}
		}
		return str(DefaultStringSize)
	case field.TypeJSON:
		switch {
		case pg:
			return &schema.JSONType{T: "jsonb"}
		case lite:
			return &schema.StringType{T: "text"}
		}
		return &schema.JSONType{T: "json"}
	case field.TypeBinary:
		if pg {
			return &schema.BinaryType{T: "bytea"}
		}
		return &schema.BinaryType{T: "blob"}
	case field.TypeUUID:
		if pg {
			return &schema.UUIDType{T: "uuid"}
		}
		if lite {
			return &schema.StringType{T: "text"}
		}
		return &schema.StringType{T: "char", Size: 36}
	case field.TypeIPAddress:
		if pg {
			return &postgres.NetworkType{T: "inet"}
		}
		return str(45)
	case field.TypeMACAddress:
		if pg {
			return &postgres.NetworkType{T: "macaddr"}
		}
		return str(17)
	case field.TypeForeign:
		if d == dialect.MySQL {
			return &schema.IntegerType{T: "bigint", Unsigned: true}
		}
		return integer("bigint")
	}
	return str(DefaultStringSize)
}

// sqlFuncs are the argument-less functions a textual column may default to.
var sqlFuncs = []string{
	"now()",
	"current_timestamp()",
	"current_date()",
	"current_time()",
	"uuid()",
	"gen_random_uuid()",
	"uuid_generate_v4()",
}

// callExpr matches a function call such as now() or date('now').
var callExpr = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*\(.*\)$`)

// defaultExpr returns the column default. CURRENT_TIMESTAMP, NULL and known
// functions are kept as raw expressions. Other function calls are raw only
// for non-textual columns. Boolean tokens are coerced and strings are
// quoted.
func (c *Column) defaultExpr(d string) schema.Expr {
	raw := strings.TrimSpace(*c.DefaultVal)
	switch {
	case strings.EqualFold(raw, "CURRENT_TIMESTAMP"),
		strings.EqualFold(raw, "NULL"),
		slices.Contains(sqlFuncs, strings.ToLower(strings.ReplaceAll(raw, " ", ""))),
		!c.textual() && callExpr.MatchString(raw):
		return &schema.RawExpr{X: raw}
	case c.Type == field.TypeBoolean:
		lit := field.CoerceDefault(c.Type, raw)
		if d == dialect.Postgres {
			// Postgres booleans reject integer literals.
			switch lit {
			case "1":
				lit = "true"
			case "0":
				lit = "false"
			}
		}
		return &schema.Literal{V: lit}
	case c.Type.Numeric() || c.Type == field.TypeForeign:
		return &schema.Literal{V: raw}
	}
	return &schema.Literal{V: "'" + dialect.EscapeString(*c.DefaultVal) + "'"}
}

// textual reports if the column holds free-form text, where a default that
// looks like a call is a plain string.
func (c *Column) textual() bool {
	switch c.Type {
	case field.TypeJSON, field.TypeBinary:
		return true
	}
	return c.Type.GoType() == "string"
}

// refAction maps a referential action to its atlas option. Unknown actions
// fall back to CASCADE.
func refAction(a string) schema.ReferenceOption {
	switch strings.ToLower(strings.TrimSpace(a)) {
	case "restrict":
		return schema.Restrict
	case "set null":
		return schema.SetNull
	case "no action":
		return schema.NoAction
	case "set default":
		return schema.SetDefault
	}
	return schema.Cascade
}
