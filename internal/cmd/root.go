// Package cmd implements the scaffold command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/spf13/cobra"

	"github.com/syssam/scaffold/compiler/gen"
	"github.com/syssam/scaffold/internal/config"
)

// Version is set by main.
var Version = "dev"

func mustFlagBool(cmd *cobra.Command, name string, required bool) bool {
	val, err := cmd.Flags().GetBool(name)
	if required && err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	return val
}

func mustFlagString(cmd *cobra.Command, name string, required bool) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	if required && val == "" {
		fmt.Printf("error: required flag --%s missing\n", name)
		os.Exit(1)
	}
	return val
}

func mustFlagInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	return val
}

func newLogger(cmd *cobra.Command) logger.Logger {
	if mustFlagBool(cmd, "verbose", false) {
		return logger.NewConsoleLogger(logger.LevelTrace)
	}
	if mustFlagBool(cmd, "silent", false) {
		return logger.NewConsoleLogger(logger.LevelError)
	}
	return logger.NewConsoleLogger(logger.LevelInfo)
}

// project is the configured workspace a command operates on.
type project struct {
	root string
	cfg  *config.Config
	gen  *gen.Generator
	log  logger.Logger
}

// loadProject reads the configuration of the project selected by --dir and
// --config and builds its generator.
func loadProject(cmd *cobra.Command, opts ...gen.Option) (*project, error) {
	log := newLogger(cmd)
	root, err := filepath.Abs(mustFlagString(cmd, "dir", true))
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root, mustFlagString(cmd, "config", false))
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		log.Debug("using configuration %s", cfg.File)
	}
	opts = append(append([]gen.Option{gen.WithRoot(root), gen.WithLogger(log)}, cfg.Options()...), opts...)
	g, err := gen.NewGenerator(opts...)
	if err != nil {
		return nil, err
	}
	return &project{root: root, cfg: cfg, gen: g, log: log}, nil
}

// NewRootCommand returns the scaffold command with all subcommands.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "scaffold",
		Short:         "scaffold record types from field-specs and migrations",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "the configuration file (default <dir>/"+config.FileName+")")
	root.PersistentFlags().String("dir", ".", "the project root")
	root.PersistentFlags().Bool("verbose", false, "turn on verbose logging")
	root.PersistentFlags().Bool("silent", false, "turn off all logging but errors")
	root.AddCommand(newMakeCmd(), newSyncCmd(), newInitCmd())
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %s", err))
		os.Exit(1)
	}
}
