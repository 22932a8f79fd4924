package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/reugn/go-rotation/config"
	"github.com/reugn/go-rotation/prune"
	"github.com/spf13/cobra"
)

// pruneFlags are shared by the prune and run commands.
type pruneFlags struct {
	dir         string
	dryRun      bool
	concurrency int
}

func (f *pruneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "dir", "", "snapshot directory (prune.directory)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report deletions without deleting (prune.dry_run)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 1, "parallel deletions (prune.concurrency)")
}

// apply overrides the prune section with the flags set on the command line.
func (f *pruneFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("dir") {
		cfg.Prune.Directory = f.dir
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Prune.DryRun = f.dryRun
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Prune.Concurrency = f.concurrency
	}
	if cfg.Prune.Directory == "" {
		return errors.New("snapshot directory is not set, use --dir or prune.directory")
	}
	return nil
}

func newPruneCmd(flags *globalFlags) *cobra.Command {
	pf := &pruneFlags{}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete the snapshots outside the retention policy",
		Long: `Delete the entries of the snapshot directory whose leading date, such as
2012-02-29 in "2012-02-29_db.tar.gz", is not retained by the policy as of its
current date. Entries without a leading date and entries dated after the
current date are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, calendar, err := flags.calendar(cmd.Context())
			if err != nil {
				return err
			}
			if err := pf.apply(cmd, cfg); err != nil {
				return err
			}

			pruner, err := prune.NewPruner(prune.NewDirStore(cfg.Prune.Directory), calendar,
				prune.Options{
					DryRun:      cfg.Prune.DryRun,
					Concurrency: cfg.Prune.Concurrency,
					Clock:       calendarClock(calendar),
				})
			if err != nil {
				return err
			}

			result, err := pruner.Prune(cmd.Context())
			printResult(cmd.OutOrStdout(), result)
			return err
		},
	}
	pf.register(cmd)
	return cmd
}

func printResult(w io.Writer, result *prune.Result) {
	if result == nil {
		return
	}
	action := "deleted"
	if result.DryRun {
		action = "would delete"
	}
	for _, snapshot := range result.Deleted {
		fmt.Fprintf(w, "%s %s\n", action, snapshot.Name)
	}
	for _, snapshot := range result.Failed {
		fmt.Fprintf(w, "failed %s\n", snapshot.Name)
	}
	fmt.Fprintf(w, "kept %d, %s %d, failed %d, reclaimed %s\n",
		len(result.Kept), action, len(result.Deleted), len(result.Failed),
		humanize.Bytes(uint64(result.Reclaimed)))
}
