package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/naming"
	"github.com/syssam/scaffold/dialect"
	"github.com/syssam/scaffold/schema/field"
)

// storeMethods are the methods every generated store declares.
var storeMethods = []string{"Find", "List", "Create", "Update", "Delete"}

// goType returns the Go type of a field type.
func goType(t field.Type) *jen.Statement {
	switch t.GoType() {
	case "time.Time":
		return jen.Qual("time", "Time")
	case "json.RawMessage":
		return jen.Qual("encoding/json", "RawMessage")
	case "[]byte":
		return jen.Index().Byte()
	default:
		return jen.Id(t.GoType())
	}
}

// fieldType returns the struct field type. Nullable fields are pointers,
// except for byte slices that are nil when NULL.
func fieldType(fd Field) *jen.Statement {
	s := goType(fd.Type)
	if fd.Nullable() && !strings.HasPrefix(fd.Type.GoType(), "[]") && fd.Type != field.TypeJSON {
		return jen.Op("*").Add(s)
	}
	return s
}

func tags(column string, omitempty bool) map[string]string {
	json := column
	if omitempty {
		json += ",omitempty"
	}
	return map[string]string{"json": json, "db": column}
}

// accessor returns the name of the belongs-to method of a reference field,
// e.g. Author for author_id.
func accessor(fd Field) string {
	name := naming.Pascal(strings.TrimSuffix(fd.Name, "_id"))
	if name == "" || slices.Contains(storeMethods, name) {
		name = fd.Hint.RecordType + "Record"
	}
	return name
}

// enumConst returns the constant name of an enum value, or false if the
// value cannot be part of a Go identifier.
func enumConst(r *Record, fd Field, v string) (string, bool) {
	name := r.Name + fd.GoName + naming.Pascal(v)
	return name, dialect.IsValidIdentifier(name)
}

// statements holds the SQL of a generated store.
type statements struct {
	selectAll, find, insert, update, delete string
}

func newStatements(d string, r *Record) statements {
	q := func(ident string) string { return dialect.Quote(d, ident) }
	cols := r.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = q(c)
	}
	table := q(r.Table)
	writable := quoted[1:]
	sets := make([]string, 0, len(writable)-1)
	for i, c := range writable {
		// created_at is never updated.
		if cols[i+1] == "created_at" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", c, dialect.Placeholder(d, len(sets)+1)))
	}
	s := statements{
		selectAll: fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), table),
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(writable, ", "), dialect.Placeholders(d, len(writable))),
		update: fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
			table, strings.Join(sets, ", "), q("id"), dialect.Placeholder(d, len(sets)+1)),
		delete: fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table, q("id"), dialect.Placeholder(d, 1)),
	}
	s.find = fmt.Sprintf("%s WHERE %s = %s", s.selectAll, q("id"), dialect.Placeholder(d, 1))
	if d == dialect.Postgres {
		s.insert += " RETURNING " + q("id")
	}
	return s
}

// genModel generates the record struct and its store.
func genModel(h *helper) *jen.File {
	r := h.record
	f := jen.NewFile(packageName(h.cfg.Dirs.Model, "models"))
	if h.cfg.Header != "" {
		f.HeaderComment(h.cfg.Header)
	}
	v := r.Var()
	store := r.Name + "Store"
	stmts := newStatements(h.cfg.Dialect, r)

	f.Commentf("%s is a record of the %s table.", r.Name, r.Table)
	f.Type().Id(r.Name).StructFunc(func(grp *jen.Group) {
		grp.Id("ID").Int64().Tag(tags("id", false))
		for _, fd := range r.Fields {
			grp.Id(fd.GoName).Add(fieldType(fd)).Tag(tags(fd.Name, fd.Nullable()))
		}
		grp.Id("CreatedAt").Op("*").Qual("time", "Time").Tag(tags("created_at", true))
		grp.Id("UpdatedAt").Op("*").Qual("time", "Time").Tag(tags("updated_at", true))
	})

	f.Commentf("%sTable is the table of %s records.", r.Name, r.Name)
	f.Const().Id(r.Name + "Table").Op("=").Lit(r.Table)

	for _, fd := range r.Fields {
		if fd.Type != field.TypeEnum {
			continue
		}
		f.Commentf("Values of %s.%s.", r.Name, fd.GoName)
		f.Const().DefsFunc(func(grp *jen.Group) {
			for _, val := range fd.EnumValues() {
				if name, ok := enumConst(r, fd, val); ok {
					grp.Id(name).Op("=").Lit(val)
				}
			}
		})
	}

	f.Commentf("%s reads and writes %s records.", store, r.Name)
	f.Type().Id(store).Struct(jen.Id("db").Op("*").Qual("database/sql", "DB"))

	f.Commentf("New%s returns a store reading and writing through db.", store)
	f.Func().Id("New"+store).Params(jen.Id("db").Op("*").Qual("database/sql", "DB")).Op("*").Id(store).Block(
		jen.Return(jen.Op("&").Id(store).Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)

	scan := "scan" + r.Name
	f.Func().Id(scan).Params(jen.Id("row").Interface(
		jen.Id("Scan").Params(jen.Id("dest").Op("...").Any()).Error(),
	)).Params(jen.Op("*").Id(r.Name), jen.Error()).Block(
		jen.Id(v).Op(":=").Op("&").Id(r.Name).Values(),
		jen.If(jen.Err().Op(":=").Id("row").Dot("Scan").CallFunc(func(grp *jen.Group) {
			grp.Op("&").Id(v).Dot("ID")
			for _, fd := range r.Fields {
				grp.Op("&").Id(v).Dot(fd.GoName)
			}
			grp.Op("&").Id(v).Dot("CreatedAt")
			grp.Op("&").Id(v).Dot("UpdatedAt")
		}), jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id(v), jen.Nil()),
	)

	recv := func() *jen.Statement { return jen.Params(jen.Id("s").Op("*").Id(store)) }
	ctx := func() *jen.Statement { return jen.Id("ctx").Qual("context", "Context") }
	id := func() *jen.Statement { return jen.Id("id").Int64() }

	f.Commentf("Find returns the %s with the given id.", r.Name)
	f.Func().Add(recv()).Id("Find").Params(ctx(), id()).Params(jen.Op("*").Id(r.Name), jen.Error()).Block(
		jen.Return(jen.Id(scan).Call(
			jen.Id("s").Dot("db").Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Lit(stmts.find), jen.Id("id")),
		)),
	)

	list := r.Plural()
	if list == v {
		list += "List"
	}
	f.Commentf("List returns all %s records ordered by id.", r.Name)
	f.Func().Add(recv()).Id("List").Params(ctx()).Params(jen.Index().Op("*").Id(r.Name), jen.Error()).Block(
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("QueryContext").Call(
			jen.Id("ctx"), jen.Lit(stmts.selectAll+" ORDER BY "+dialect.Quote(h.cfg.Dialect, "id")),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Defer().Id("rows").Dot("Close").Call(),
		jen.Var().Id(list).Index().Op("*").Id(r.Name),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.List(jen.Id(v), jen.Err()).Op(":=").Id(scan).Call(jen.Id("rows")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Id(list).Op("=").Append(jen.Id(list), jen.Id(v)),
		),
		jen.Return(jen.Id(list), jen.Id("rows").Dot("Err").Call()),
	)

	// bind adds the arguments of an insert or update statement.
	bind := func(stmt string, insert bool) func(*jen.Group) {
		return func(grp *jen.Group) {
			grp.Id("ctx")
			grp.Lit(stmt)
			for _, fd := range r.Fields {
				grp.Id(v).Dot(fd.GoName)
			}
			if insert {
				grp.Id(v).Dot("CreatedAt")
			}
			grp.Id(v).Dot("UpdatedAt")
			if !insert {
				grp.Id(v).Dot("ID")
			}
		}
	}

	f.Commentf("Create inserts %s and sets its id and timestamps.", v)
	f.Func().Add(recv()).Id("Create").Params(ctx(), jen.Id(v).Op("*").Id(r.Name)).Error().BlockFunc(func(grp *jen.Group) {
		grp.Id("now").Op(":=").Qual("time", "Now").Call()
		grp.List(jen.Id(v).Dot("CreatedAt"), jen.Id(v).Dot("UpdatedAt")).Op("=").List(jen.Op("&").Id("now"), jen.Op("&").Id("now"))
		if h.cfg.Dialect == dialect.Postgres {
			grp.Return(jen.Id("s").Dot("db").Dot("QueryRowContext").CallFunc(bind(stmts.insert, true)).Dot("Scan").Call(jen.Op("&").Id(v).Dot("ID")))
			return
		}
		grp.List(jen.Id("res"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("ExecContext").CallFunc(bind(stmts.insert, true))
		grp.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
		grp.List(jen.Id(v).Dot("ID"), jen.Err()).Op("=").Id("res").Dot("LastInsertId").Call()
		grp.Return(jen.Err())
	})

	f.Commentf("Update writes all fields of %s and refreshes its update time.", v)
	f.Func().Add(recv()).Id("Update").Params(ctx(), jen.Id(v).Op("*").Id(r.Name)).Error().Block(
		jen.Id("now").Op(":=").Qual("time", "Now").Call(),
		jen.Id(v).Dot("UpdatedAt").Op("=").Op("&").Id("now"),
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("ExecContext").CallFunc(bind(stmts.update, false)),
		jen.Return(jen.Err()),
	)

	f.Commentf("Delete removes the %s with the given id.", r.Name)
	f.Func().Add(recv()).Id("Delete").Params(ctx(), id()).Error().Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("ExecContext").Call(jen.Id("ctx"), jen.Lit(stmts.delete), jen.Id("id")),
		jen.Return(jen.Err()),
	)

	for _, fd := range r.Fields {
		if fd.Hint == nil {
			continue
		}
		ref := fd.Hint.RecordType
		name := accessor(fd)
		f.Commentf("%s returns the %s that %s belongs to.", name, ref, v)
		f.Func().Add(recv()).Id(name).Params(ctx(), jen.Id(v).Op("*").Id(r.Name)).Params(jen.Op("*").Id(ref), jen.Error()).BlockFunc(func(grp *jen.Group) {
			key := jen.Id(v).Dot(fd.GoName)
			if fd.Nullable() {
				grp.If(jen.Id(v).Dot(fd.GoName).Op("==").Nil()).Block(jen.Return(jen.Nil(), jen.Nil()))
				key = jen.Op("*").Id(v).Dot(fd.GoName)
			}
			grp.Return(jen.Id("New"+ref+"Store").Call(jen.Id("s").Dot("db")).Dot("Find").Call(jen.Id("ctx"), key))
		})
	}
	return f
}
