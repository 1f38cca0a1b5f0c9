package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dsproc/internal/jobs"
	"dsproc/internal/organizer"
	"dsproc/internal/progress"
)

func newRenumberCommand(ctx *commandContext) *cobra.Command {
	var backup bool

	cmd := &cobra.Command{
		Use:   "renumber [dir]",
		Short: "Rename image groups to 1..N in scan order",
		Long: "Rename every image group in the directory to a sequential number, keeping\n" +
			"each group's sidecars beside its image. Files are first moved to temporary\n" +
			"names so existing numeric names never collide.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.datasetDir(args)
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			if backup || cfg.Rename.Backup {
				if err := ctx.backup(cmd, dir, cfg.Paths.BackupDir); err != nil {
					return err
				}
			}

			org := organizer.New(ctx.fs, ctx.loggerValue())
			var result organizer.RenumberResult
			err = ctx.runJob(cmd, jobs.Spec{
				Operation: "renumber",
				Dataset:   dir,
				Run: func(jobCtx context.Context, rep *progress.Reporter) error {
					var err error
					result, err = org.Renumber(jobCtx, dir, rep)
					return err
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renumbered %d groups (%d files) in %s\n", result.Groups, result.Files, dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&backup, "backup", false, "Back up the dataset before renaming")
	return cmd
}
