package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/scaffold/compiler/load"
	schemasync "github.com/syssam/scaffold/compiler/sync"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "scaffold the record types of migrations that have no model yet",
		Long: `Scaffold the record types of migrations that have no model yet.

Every migration source is scanned in file name order. Tables whose record
type already has a model are skipped. With --watch the directory is polled
and a pass runs whenever a new migration appears:

	scaffold sync --watch --poll 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			poll := mustFlagInt(cmd, "poll")
			if poll < 1 {
				return fmt.Errorf("--poll must be at least 1 second, got %d", poll)
			}
			dir := p.cfg.MigrationDir(p.root)
			driver := &schemasync.Driver{
				Extractor: load.LineScanner{SoftDeletes: mustFlagBool(cmd, "soft-deletes", false)},
				Store:     p.gen,
				Pipeline:  p.gen,
				Logger:    p.log,
				DryRun:    mustFlagBool(cmd, "dry-run", false),
				Dialect:   p.cfg.Database.Dialect,
			}
			out := cmd.OutOrStdout()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watch := mustFlagBool(cmd, "watch", false)
			res, err := driver.Run(ctx, dir)
			if err != nil {
				if !watch {
					return err
				}
				p.log.Warn("%s", err)
			}
			if res != nil {
				printResult(out, p.root, res)
			}
			if !watch {
				if res != nil && len(res.Failed) > 0 {
					return fmt.Errorf("%d record types failed to scaffold", len(res.Failed))
				}
				return nil
			}

			interval := time.Duration(poll) * time.Second
			var waiter schemasync.Waiter = schemasync.IntervalWaiter{Interval: interval}
			if mustFlagBool(cmd, "notify", false) {
				nw, err := schemasync.NewNotifyWaiter(dir, interval)
				if err != nil {
					return fmt.Errorf("watching %s: %w", dir, err)
				}
				defer nw.Close()
				waiter = nw
			}
			w := &schemasync.Watcher{
				Driver: driver,
				Dir:    dir,
				Waiter: waiter,
				Logger: p.log,
				OnPass: func(_ []string, res *schemasync.Result) {
					printResult(out, p.root, res)
				},
			}
			return w.Run(ctx)
		},
	}
	cmd.Flags().Bool("dry-run", false, "report what would be scaffolded without writing")
	cmd.Flags().Bool("soft-deletes", false, "add a nullable deleted_at field when the migration declares soft deletes")
	cmd.Flags().Bool("watch", false, "keep running and sync whenever a new migration appears")
	cmd.Flags().Int("poll", 1, "the poll interval of --watch in seconds")
	cmd.Flags().Bool("notify", false, "wake up early on file system events in --watch mode")
	return cmd
}
