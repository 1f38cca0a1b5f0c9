package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dsproc/internal/imagesize"
	"dsproc/internal/jobs"
	"dsproc/internal/organizer"
	"dsproc/internal/progress"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var (
		dimension    string
		selected     string
		discarded    string
		copySidecars bool
		backup       bool
	)

	cmd := &cobra.Command{
		Use:   "sort [dir]",
		Short: "Copy images into selected or discarded directories by pixel size",
		Long: "Copy each image into the selected directory when either side reaches the\n" +
			"threshold dimension, and into the discarded directory otherwise. The source\n" +
			"directory is left untouched.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.datasetDir(args)
			if err != nil {
				return err
			}
			cfg := ctx.configValue()

			threshold := cfg.SortDimension()
			if strings.TrimSpace(dimension) != "" {
				threshold, err = imagesize.ParseDimension(dimension)
				if err != nil {
					return err
				}
			}
			keepDir, err := expandFlag(selected, cfg.Paths.SelectedDir)
			if err != nil {
				return err
			}
			discardDir, err := expandFlag(discarded, cfg.Paths.DiscardedDir)
			if err != nil {
				return err
			}

			if backup || cfg.Sort.Backup {
				if err := ctx.backup(cmd, dir, cfg.Paths.BackupDir); err != nil {
					return err
				}
			}

			req := organizer.ClassifyRequest{
				Dir:          dir,
				Threshold:    threshold,
				KeepDir:      keepDir,
				DiscardDir:   discardDir,
				CopySidecars: copySidecars || cfg.Sort.CopySidecars,
			}
			org := organizer.New(ctx.fs, ctx.loggerValue())
			var result organizer.ClassifyResult
			err = ctx.runJob(cmd, jobs.Spec{
				Operation: "sort",
				Dataset:   dir,
				Locks:     []string{keepDir, discardDir},
				Run: func(jobCtx context.Context, rep *progress.Reporter) error {
					var err error
					result, err = org.Classify(jobCtx, req, rep)
					return err
				},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sorted %d images at %s\n", result.Total(), threshold)
			fmt.Fprintf(out, "  selected:  %d -> %s\n", result.Kept, keepDir)
			fmt.Fprintf(out, "  discarded: %d -> %s\n", result.Discarded, discardDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dimension, "dimension", "", "Threshold dimension, e.g. 512 or 512x512 (defaults to sort.dimension)")
	cmd.Flags().StringVar(&selected, "selected", "", "Directory for images at or above the threshold")
	cmd.Flags().StringVar(&discarded, "discarded", "", "Directory for images below the threshold")
	cmd.Flags().BoolVar(&copySidecars, "copy-sidecars", false, "Copy each image's sidecars with it")
	cmd.Flags().BoolVar(&backup, "backup", false, "Back up the dataset before sorting")
	return cmd
}
