package gen

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"
)

// RoutesMarker marks the line registrations are inserted before.
const RoutesMarker = "// scaffold:routes"

// genRoutes generates an empty route registration file.
func genRoutes(h *helper) *jen.File {
	f := jen.NewFile(packageName(path.Dir(h.cfg.Dirs.Routes), "routes"))
	if h.cfg.Header != "" {
		f.HeaderComment(h.cfg.Header)
	}
	f.Comment("Register mounts the scaffolded handlers on mux.")
	f.Func().Id("Register").Params(
		jen.Id("mux").Op("*").Qual("net/http", "ServeMux"),
		jen.Id("db").Op("*").Qual("database/sql", "DB"),
	).Block(
		jen.Comment(strings.TrimPrefix(RoutesMarker, "// ")),
	)
	return f
}

// registration returns the statement mounting the record handler.
func registration(h *helper) string {
	r := h.record
	return fmt.Sprintf("%s.New%sHandler(%s.New%sStore(db)).Routes(mux, %q)",
		packageName(h.cfg.Dirs.Handler, "handlers"), r.Name,
		packageName(h.cfg.Dirs.Model, "models"), r.Name,
		"/"+strings.ReplaceAll(r.Table, "_", "-"))
}

// register inserts the registration of the record handler into the routes
// file, creating the file when missing. It reports false if the handler
// was already registered.
func register(h *helper) (bool, error) {
	file := h.cfg.path(h.cfg.Dirs.Routes)
	src, err := os.ReadFile(file)
	switch {
	case os.IsNotExist(err):
		var buf bytes.Buffer
		if err := genRoutes(h).Render(&buf); err != nil {
			return false, NewGenerationError(KindRoutes, file, "render", err)
		}
		src = buf.Bytes()
	case err != nil:
		return false, NewGenerationError(KindRoutes, file, "read", err)
	}
	stmt := registration(h)
	if bytes.Contains(src, []byte(stmt)) {
		return false, nil
	}
	out, err := insertRoute(file, src, stmt, map[string]string{
		h.handlerPkg: packageName(h.cfg.Dirs.Handler, "handlers"),
		h.modelPkg:   packageName(h.cfg.Dirs.Model, "models"),
	})
	if err != nil {
		return false, NewGenerationError(KindRoutes, file, "register route", err)
	}
	if err := writeFile(file, out); err != nil {
		return false, NewGenerationError(KindRoutes, file, "write", err)
	}
	return true, nil
}

// insertRoute inserts stmt before the routes marker, adds the imports and
// formats the result.
func insertRoute(file string, src []byte, stmt string, pkgs map[string]string) ([]byte, error) {
	at := bytes.Index(src, []byte(RoutesMarker))
	if at < 0 {
		return nil, fmt.Errorf("no %q marker in %s", RoutesMarker, file)
	}
	start := bytes.LastIndexByte(src[:at], '\n') + 1
	indent := src[start:at]
	var buf bytes.Buffer
	buf.Write(src[:start])
	buf.Write(indent)
	buf.WriteString(stmt)
	buf.WriteByte('\n')
	buf.Write(src[start:])

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, buf.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, err
	}
	for pkg, name := range pkgs {
		if path.Base(pkg) == name {
			astutil.AddImport(fset, f, pkg)
		} else {
			astutil.AddNamedImport(fset, f, name, pkg)
		}
	}
	buf.Reset()
	if err := printer.Fprint(&buf, fset, f); err != nil {
		return nil, err
	}
	return imports.Process(file, buf.Bytes(), nil)
}
