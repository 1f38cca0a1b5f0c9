package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dsproc/internal/jobs"
	"dsproc/internal/organizer"
	"dsproc/internal/preflight"
	"dsproc/internal/progress"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "backup [dir]",
		Short: "Copy every image group into the backup directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.datasetDir(args)
			if err != nil {
				return err
			}
			backupDir, err := expandFlag(target, ctx.configValue().Paths.BackupDir)
			if err != nil {
				return err
			}
			return ctx.backup(cmd, dir, backupDir)
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "Backup directory (defaults to paths.backup_dir)")
	return cmd
}

// backup runs the backup preflight and then the backup job, reporting the
// result on stdout.
func (c *commandContext) backup(cmd *cobra.Command, dir, backupDir string) error {
	if err := preflight.Failure(preflight.ForBackup(c.fs, dir, backupDir)); err != nil {
		return err
	}

	org := organizer.New(c.fs, c.loggerValue())
	var result organizer.BackupResult
	err := c.runJob(cmd, jobs.Spec{
		Operation: "backup",
		Dataset:   dir,
		Locks:     []string{backupDir},
		Run: func(ctx context.Context, rep *progress.Reporter) error {
			var err error
			result, err = org.Backup(ctx, dir, backupDir, rep)
			return err
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d groups (%d files, %s) to %s\n",
		result.Groups, result.Files, humanize.Bytes(uint64(result.Bytes)), backupDir)
	return nil
}
