package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dsproc/internal/dataset"
	"dsproc/internal/imagesize"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var showSize bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List image groups and their sidecars in scan order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.datasetDir(args)
			if err != nil {
				return err
			}
			snapshot, err := dataset.ScanImages(ctx.fs, dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if snapshot.Len() == 0 {
				fmt.Fprintf(out, "No image groups in %s\n", dir)
				return nil
			}

			headers := []string{"#", "Image", "Sidecars"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft}
			if showSize {
				headers = append(headers, "Size")
				aligns = append(aligns, alignRight)
			}
			rows := make([][]string, 0, snapshot.Len())
			for i, group := range snapshot.Groups {
				sidecars := make([]string, 0, len(group.Sidecars))
				for _, path := range group.Sidecars {
					sidecars = append(sidecars, filepath.Base(path))
				}
				row := []string{strconv.Itoa(i + 1), filepath.Base(group.Image), strings.Join(sidecars, ", ")}
				if showSize {
					row = append(row, probeLabel(ctx, group.Image))
				}
				rows = append(rows, row)
			}
			fmt.Fprint(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "\n%d groups, %d files\n", snapshot.Len(), snapshot.FileCount())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSize, "dimensions", false, "Read and show each image's pixel size")
	return cmd
}

func probeLabel(ctx *commandContext, path string) string {
	size, err := imagesize.Probe(ctx.fs, path)
	if err != nil {
		return "unreadable"
	}
	return fmt.Sprintf("%dx%d", size.Width, size.Height)
}
