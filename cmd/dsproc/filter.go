package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dsproc/internal/jobs"
	"dsproc/internal/progress"
	"dsproc/internal/tagfilter"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var (
		terms      string
		ext        string
		exact      bool
		ignoreCase bool
		scanOrder  bool
		pathsOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "filter [dir]",
		Short: "List images whose sidecar tags match any of the given terms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.datasetDir(args)
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			if strings.TrimSpace(ext) == "" {
				ext = cfg.Filter.SidecarExtension
			}
			if !cmd.Flags().Changed("exact") {
				exact = cfg.Filter.ExactMatch
			}
			if !cmd.Flags().Changed("ignore-case") {
				ignoreCase = cfg.Filter.IgnoreCase
			}

			filter := tagfilter.New(ctx.fs, tagfilter.Options{
				FoldCase:  ignoreCase,
				ScanOrder: scanOrder,
				Logger:    ctx.loggerValue(),
			})
			var matches []string
			err = ctx.runJob(cmd, jobs.Spec{
				Operation: "filter",
				Dataset:   dir,
				Run: func(context.Context, *progress.Reporter) error {
					var err error
					matches, err = filter.FilterByContent(dir, ext, terms, exact)
					return err
				},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if pathsOnly {
				for _, path := range matches {
					fmt.Fprintln(out, path)
				}
				return nil
			}
			if len(matches) == 0 {
				fmt.Fprintln(out, "No matching images")
				return nil
			}
			rows := make([][]string, 0, len(matches))
			for i, path := range matches {
				rows = append(rows, []string{strconv.Itoa(i + 1), filepath.Base(path)})
			}
			fmt.Fprint(out, renderTable([]string{"#", "Image"}, rows, []columnAlignment{alignRight, alignLeft}))
			fmt.Fprintf(out, "\n%d matching images\n", len(matches))
			return nil
		},
	}
	cmd.Flags().StringVarP(&terms, "terms", "t", "", "Comma-separated search terms")
	cmd.Flags().StringVar(&ext, "ext", "", "Sidecar extension to read (defaults to filter.sidecar_extension)")
	cmd.Flags().BoolVar(&exact, "exact", false, "Match whole tags instead of substrings")
	cmd.Flags().BoolVar(&ignoreCase, "ignore-case", false, "Match without regard to letter case")
	cmd.Flags().BoolVar(&scanOrder, "scan-order", false, "Keep matches in scan order instead of numeric order")
	cmd.Flags().BoolVar(&pathsOnly, "paths", false, "Print matching image paths one per line")
	_ = cmd.MarkFlagRequired("terms")
	return cmd
}
