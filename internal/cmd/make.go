package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/spf13/cobra"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/compiler/spec"
	"github.com/syssam/scaffold/schema/field"
)

// interactive reports if fields can be prompted for.
var interactive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// asker prompts for one line of input.
type asker func(title, description string) (string, error)

func huhAsk(title, description string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				Value(&value),
		),
	)
	form.WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// promptFields asks for fields one at a time until the user enters done.
// Entries that do not parse are reported and asked again.
func promptFields(ask asker, log logger.Logger) ([]field.Descriptor, error) {
	description := "Available types: " + strings.Join(field.Names(), ", ")
	var fields []field.Descriptor
	for {
		answer, err := ask("Field (name:type:modifiers), or done to finish", description)
		if err != nil {
			return nil, err
		}
		switch {
		case strings.EqualFold(answer, "done"):
			return fields, nil
		case answer == "":
			continue
		}
		d, err := spec.ParseField(answer)
		if err != nil {
			log.Error("%s", err)
			continue
		}
		fields = append(fields, d)
	}
}

// readFields returns the fields of the --fields flag, or prompts for them
// when the flag is empty and stdin is a terminal.
func readFields(raw string, ask asker, log logger.Logger) ([]field.Descriptor, error) {
	if strings.TrimSpace(raw) == "" {
		if !interactive() {
			return nil, gen.ErrNoFields
		}
		fields, err := promptFields(ask, log)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, gen.ErrNoFields
		}
		return fields, err
	}
	r := spec.Parse(raw)
	for _, d := range r.Diagnostics {
		if d.Severity == spec.SeverityError {
			log.Error("%s", d)
		} else {
			log.Warn("%s", d)
		}
	}
	return r.Fields, nil
}

func newMakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make <Record>",
		Short: "scaffold the migration, model, handler and routes of a record type",
		Long: `Scaffold the migration, model, handler and routes of a record type.

Fields are given as a comma separated field-spec:

	scaffold make Post --fields "title:string,body:text:nullable,author_id:foreign"

Without --fields the fields are prompted for one at a time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force := mustFlagBool(cmd, "force", false)
			dryRun := mustFlagBool(cmd, "dry-run", false)
			p, err := loadProject(cmd, gen.WithForce(force))
			if err != nil {
				return err
			}
			fields, err := readFields(mustFlagString(cmd, "fields", false), huhAsk, p.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				preview, err := p.gen.Preview(cmd.Context(), args[0], fields)
				if err != nil {
					return err
				}
				printPreview(out, p.root, preview)
				return nil
			}
			art, err := p.gen.Generate(cmd.Context(), args[0], fields)
			if art != nil {
				printArtifacts(out, p.root, art)
			}
			return err
		},
	}
	cmd.Flags().String("fields", "", "the comma separated field-spec")
	cmd.Flags().Bool("force", false, "overwrite existing files")
	cmd.Flags().Bool("dry-run", false, "show what would be generated without writing")
	return cmd
}
