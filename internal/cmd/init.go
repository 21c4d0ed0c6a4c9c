package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/internal/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "write a default " + config.FileName + " into the project root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(mustFlagString(cmd, "dir", true))
			if err != nil {
				return err
			}
			path := mustFlagString(cmd, "config", false)
			if path == "" {
				path = filepath.Join(root, config.FileName)
			}
			c := config.Default()
			if mustFlagBool(cmd, "graphql", false) {
				c.DefaultStack = gen.StackGraphQL
			}
			c.SupportsTypeScript = mustFlagBool(cmd, "typescript", false)
			if d := mustFlagString(cmd, "dialect", false); d != "" {
				c.Database.Dialect = d
			}
			if err := c.Validate(); err != nil {
				return err
			}
			if err := config.Write(path, c, mustFlagBool(cmd, "force", false)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("created"), relative(root, path))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing configuration")
	cmd.Flags().Bool("graphql", false, "use the graphql stack")
	cmd.Flags().Bool("typescript", false, "generate TypeScript types")
	cmd.Flags().String("dialect", "", "the SQL dialect (mysql, postgres or sqlite)")
	return cmd
}
