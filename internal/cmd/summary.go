package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/syssam/scaffold/compiler/gen"
	schemasync "github.com/syssam/scaffold/compiler/sync"
)

var (
	green     = color.New(color.FgGreen).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
	cyan      = color.New(color.FgCyan).SprintFunc()
	whiteBold = color.New(color.FgWhite, color.Bold).SprintFunc()
)

// relative shortens path to be relative to root when possible.
func relative(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func printArtifacts(w io.Writer, root string, art *gen.Artifacts) {
	fmt.Fprintf(w, "%s %s (%s)\n", whiteBold(art.Record), cyan(art.Spec), art.Table)
	for _, f := range art.Written {
		fmt.Fprintf(w, "  %s %-10s %s\n", green("created"), f.Kind, relative(root, f.Path))
	}
	for _, f := range art.Skipped {
		fmt.Fprintf(w, "  %s %-10s %s\n", yellow("exists "), f.Kind, relative(root, f.Path))
	}
	for _, warning := range art.Warnings {
		fmt.Fprintf(w, "  %s %s\n", yellow("warning"), warning)
	}
	if len(art.Suggestions) > 0 {
		fmt.Fprintln(w, "\nAdd the inverse relations to the related models:")
		for _, s := range art.Suggestions {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
}

func printPreview(w io.Writer, root string, p *gen.Preview) {
	fmt.Fprintf(w, "%s %s (%s)\n", whiteBold(p.Record.Name), cyan(p.Spec), p.Record.Table)
	for _, f := range p.Files {
		fmt.Fprintf(w, "  %s %-10s %s\n", cyan("would write"), f.Kind, relative(root, f.Path))
	}
	for _, warning := range p.Warnings {
		fmt.Fprintf(w, "  %s %s\n", yellow("warning"), warning)
	}
	fmt.Fprintln(w, "\nValidation rules:")
	names := make([]string, 0, len(p.Rules))
	for name := range p.Rules {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, p.Rules[name])
	}
	if len(p.DDL) > 0 {
		fmt.Fprintln(w, "\nDDL:")
		for _, stmt := range p.DDL {
			fmt.Fprintf(w, "  %s;\n", stmt)
		}
	}
}

func printResult(w io.Writer, root string, res *schemasync.Result) {
	for _, r := range res.Reported {
		fmt.Fprintf(w, "%s %s from %s\n  fields: %s\n", cyan("would scaffold"), whiteBold(r.Record), relative(root, r.Path), r.Spec)
		for _, stmt := range r.DDL {
			fmt.Fprintf(w, "  %s;\n", stmt)
		}
	}
	for _, name := range res.Scaffolded {
		fmt.Fprintf(w, "%s %s\n", green("scaffolded"), whiteBold(name))
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "%s %s from %s: %s\n", red("failed"), whiteBold(f.Record), relative(root, f.Path), f.Err)
	}
	fmt.Fprintln(w, res)
}
