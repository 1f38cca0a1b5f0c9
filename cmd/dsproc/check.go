package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dsproc/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Verify directories, permissions, and backup free space",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.datasetDir(args)
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(ctx.fs, cfg, dir)
			for _, result := range results {
				fmt.Fprintln(out, renderCheck(result, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Copy sidecars", statusInfo, yesNo(cfg.Sort.CopySidecars), colorize))
			fmt.Fprintln(out, renderStatusLine("Backup before sort", statusInfo, yesNo(cfg.Sort.Backup), colorize))
			return preflight.Failure(results)
		},
	}
}
