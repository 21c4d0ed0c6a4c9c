package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/schema/field"
)

// genHandler generates the net/http handler of the record resource.
func genHandler(h *helper) *jen.File {
	r := h.record
	f := jen.NewFile(packageName(h.cfg.Dirs.Handler, "handlers"))
	if h.cfg.Header != "" {
		f.HeaderComment(h.cfg.Header)
	}
	models := packageName(h.cfg.Dirs.Model, "models")
	f.ImportName(h.modelPkg, models)

	name := r.Name + "Handler"
	store := jen.Op("*").Qual(h.modelPkg, r.Name+"Store")
	v := r.Var()

	f.Commentf("%sRules holds the validation rules of the %s fields.", r.Name, r.Name)
	f.Var().Id(r.Name + "Rules").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, fd := range r.Fields {
			d[jen.Lit(fd.Name)] = jen.Lit(field.RuleString(fd.Descriptor))
		}
	}))

	f.Commentf("%s serves the %s resource.", name, r.Table)
	f.Type().Id(name).Struct(jen.Id("store").Add(store.Clone()))

	f.Commentf("New%s returns a handler backed by store.", name)
	f.Func().Id("New"+name).Params(jen.Id("store").Add(store.Clone())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("store"): jen.Id("store")})),
	)

	recv := func() *jen.Statement { return jen.Params(jen.Id("h").Op("*").Id(name)) }
	params := func() *jen.Statement {
		return jen.Params(jen.Id("w").Qual("net/http", "ResponseWriter"), jen.Id("r").Op("*").Qual("net/http", "Request"))
	}

	f.Comment("Routes registers the handler on mux under prefix, e.g. /" + r.Table + ".")
	f.Func().Add(recv()).Id("Routes").Params(jen.Id("mux").Op("*").Qual("net/http", "ServeMux"), jen.Id("prefix").String()).Block(
		jen.Id("mux").Dot("HandleFunc").Call(jen.Lit("GET ").Op("+").Id("prefix"), jen.Id("h").Dot("Index")),
		jen.Id("mux").Dot("HandleFunc").Call(jen.Lit("POST ").Op("+").Id("prefix"), jen.Id("h").Dot("Create")),
		jen.Id("mux").Dot("HandleFunc").Call(jen.Lit("GET ").Op("+").Id("prefix").Op("+").Lit("/{id}"), jen.Id("h").Dot("Show")),
		jen.Id("mux").Dot("HandleFunc").Call(jen.Lit("PUT ").Op("+").Id("prefix").Op("+").Lit("/{id}"), jen.Id("h").Dot("Update")),
		jen.Id("mux").Dot("HandleFunc").Call(jen.Lit("DELETE ").Op("+").Id("prefix").Op("+").Lit("/{id}"), jen.Id("h").Dot("Destroy")),
	)

	fail := func(msg jen.Code, status string) *jen.Statement {
		return jen.Qual("net/http", "Error").Call(jen.Id("w"), msg, jen.Qual("net/http", status))
	}
	internal := func() jen.Code {
		return jen.If(jen.Err().Op("!=").Nil()).Block(
			fail(jen.Err().Dot("Error").Call(), "StatusInternalServerError"),
			jen.Return(),
		)
	}
	respond := func(grp *jen.Group, status string, value jen.Code) {
		grp.Id("w").Dot("Header").Call().Dot("Set").Call(jen.Lit("Content-Type"), jen.Lit("application/json"))
		grp.Id("w").Dot("WriteHeader").Call(jen.Qual("net/http", status))
		grp.Qual("encoding/json", "NewEncoder").Call(jen.Id("w")).Dot("Encode").Call(value)
	}
	parseID := func(grp *jen.Group) {
		grp.List(jen.Id("id"), jen.Err()).Op(":=").Qual("strconv", "ParseInt").Call(
			jen.Id("r").Dot("PathValue").Call(jen.Lit("id")), jen.Lit(10), jen.Lit(64),
		)
		grp.If(jen.Err().Op("!=").Nil()).Block(
			fail(jen.Lit("invalid id"), "StatusBadRequest"),
			jen.Return(),
		)
	}
	decode := func(grp *jen.Group) {
		grp.Var().Id(v).Qual(h.modelPkg, r.Name)
		grp.If(jen.Err().Op(":=").Qual("encoding/json", "NewDecoder").Call(jen.Id("r").Dot("Body")).Dot("Decode").Call(jen.Op("&").Id(v)), jen.Err().Op("!=").Nil()).Block(
			fail(jen.Err().Dot("Error").Call(), "StatusBadRequest"),
			jen.Return(),
		)
	}

	f.Commentf("Index lists the %s records.", r.Name)
	f.Func().Add(recv()).Id("Index").Add(params()).BlockFunc(func(grp *jen.Group) {
		grp.List(jen.Id("items"), jen.Err()).Op(":=").Id("h").Dot("store").Dot("List").Call(jen.Id("r").Dot("Context").Call())
		grp.Add(internal())
		respond(grp, "StatusOK", jen.Id("items"))
	})

	f.Commentf("Show returns one %s.", r.Name)
	f.Func().Add(recv()).Id("Show").Add(params()).BlockFunc(func(grp *jen.Group) {
		parseID(grp)
		grp.List(jen.Id(v), jen.Err()).Op(":=").Id("h").Dot("store").Dot("Find").Call(jen.Id("r").Dot("Context").Call(), jen.Id("id"))
		grp.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual("database/sql", "ErrNoRows"))).Block(
			jen.Qual("net/http", "NotFound").Call(jen.Id("w"), jen.Id("r")),
			jen.Return(),
		)
		grp.Add(internal())
		respond(grp, "StatusOK", jen.Id(v))
	})

	f.Commentf("Create stores a new %s.", r.Name)
	f.Func().Add(recv()).Id("Create").Add(params()).BlockFunc(func(grp *jen.Group) {
		decode(grp)
		grp.If(jen.Err().Op(":=").Id("h").Dot("store").Dot("Create").Call(jen.Id("r").Dot("Context").Call(), jen.Op("&").Id(v)), jen.Err().Op("!=").Nil()).Block(
			fail(jen.Err().Dot("Error").Call(), "StatusInternalServerError"),
			jen.Return(),
		)
		respond(grp, "StatusCreated", jen.Op("&").Id(v))
	})

	f.Commentf("Update replaces the fields of one %s.", r.Name)
	f.Func().Add(recv()).Id("Update").Add(params()).BlockFunc(func(grp *jen.Group) {
		parseID(grp)
		decode(grp)
		grp.Id(v).Dot("ID").Op("=").Id("id")
		grp.If(jen.Err().Op(":=").Id("h").Dot("store").Dot("Update").Call(jen.Id("r").Dot("Context").Call(), jen.Op("&").Id(v)), jen.Err().Op("!=").Nil()).Block(
			fail(jen.Err().Dot("Error").Call(), "StatusInternalServerError"),
			jen.Return(),
		)
		respond(grp, "StatusOK", jen.Op("&").Id(v))
	})

	f.Commentf("Destroy deletes one %s.", r.Name)
	f.Func().Add(recv()).Id("Destroy").Add(params()).BlockFunc(func(grp *jen.Group) {
		parseID(grp)
		grp.If(jen.Err().Op(":=").Id("h").Dot("store").Dot("Delete").Call(jen.Id("r").Dot("Context").Call(), jen.Id("id")), jen.Err().Op("!=").Nil()).Block(
			fail(jen.Err().Dot("Error").Call(), "StatusInternalServerError"),
			jen.Return(),
		)
		grp.Id("w").Dot("WriteHeader").Call(jen.Qual("net/http", "StatusNoContent"))
	})
	return f
}
