package organizer

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"dsproc/internal/dataset"
	"dsproc/internal/fileutil"
	"dsproc/internal/logging"
	"dsproc/internal/progress"
	"dsproc/internal/services"
)

// TempSuffix is inserted before the extension during the first rename phase.
const TempSuffix = "_temp"

const (
	stageTemporary = "temporary names"
	stageFinal     = "final names"
)

// RenumberResult summarizes a completed renumbering.
type RenumberResult struct {
	Groups int
	Files  int
}

// TempPath returns path with TempSuffix inserted before its extension.
func TempPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + TempSuffix + ext
}

// Renumber renames every group in dir to 1..N in scan order, keeping each
// sidecar next to its image. Files are first moved to temporary names so no
// final name collides with an unprocessed source, then the directory is
// rescanned and each temporary group receives its final number.
//
// The final number comes from the group's position in the original scan, not
// from the rescan order, so suffixing cannot reorder groups. When every base
// name is an integer the groups are taken in numeric order instead, so 10.png
// follows 9.png; a dataset already named 1..N is left untouched. The reporter,
// if any, spans both phases (total = 2N). On failure, files already moved keep
// their temporary names.
func (o *Organizer) Renumber(ctx context.Context, dir string, rep *progress.Reporter) (RenumberResult, error) {
	const operation = "renumber"
	ctx = services.WithOperation(services.WithDataset(ctx, dir), operation)
	logger := logging.WithContext(ctx, o.logger)

	snapshot, err := dataset.ScanImages(o.fs, dir)
	if err != nil {
		return RenumberResult{}, err
	}
	total := snapshot.Len()
	track := newTracker(rep, logger)
	track.start(2*total, stageTemporary)
	logger.Info("renumber started", logging.Int("groups", total), logging.Int("files", snapshot.FileCount()))
	if total == 0 {
		return RenumberResult{}, nil
	}

	groups := snapshot.Groups
	if numeric, ok := numericOrder(groups); ok {
		groups = numeric
		if isSequential(groups) {
			for range 2 * total {
				track.advance()
			}
			logger.Info("dataset already numbered", logging.Int("groups", total))
			return RenumberResult{Groups: total, Files: snapshot.FileCount()}, nil
		}
	}

	order := make(map[string]int, total)
	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return RenumberResult{}, o.abort(logger, &services.BatchError{Operation: operation, Path: group.Image, Completed: i, Total: total, Err: err})
		}
		for _, path := range group.Paths() {
			if err := fileutil.MoveFile(o.fs, path, TempPath(path)); err != nil {
				return RenumberResult{}, o.abort(logger, &services.BatchError{
					Operation: operation, Path: path, Completed: i, Total: total,
					Err: moveError(operation, path, err),
				})
			}
		}
		order[TempPath(group.Image)] = i
		track.advance()
	}

	rescanned, err := dataset.ScanImages(o.fs, dir)
	if err != nil {
		return RenumberResult{}, o.abort(logger, &services.BatchError{Operation: operation, Path: dir, Total: total, Err: err})
	}
	temp, err := orderTemporary(rescanned, order)
	if err != nil {
		return RenumberResult{}, o.abort(logger, &services.BatchError{Operation: operation, Path: dir, Total: total, Err: err})
	}

	track.stage(stageFinal)
	files := 0
	for i, group := range temp {
		if err := ctx.Err(); err != nil {
			return RenumberResult{}, o.abort(logger, &services.BatchError{Operation: operation, Path: group.Image, Completed: i, Total: total, Err: err})
		}
		number := strconv.Itoa(i + 1)
		for _, path := range group.Paths() {
			target := filepath.Join(dir, number+filepath.Ext(path))
			if err := fileutil.MoveFile(o.fs, path, target); err != nil {
				return RenumberResult{}, o.abort(logger, &services.BatchError{
					Operation: operation, Path: path, Completed: i, Total: total,
					Err: moveError(operation, target, err),
				})
			}
			files++
		}
		track.advance()
	}

	logger.Info("renumber completed", logging.Int("groups", total), logging.Int("files", files))
	return RenumberResult{Groups: total, Files: files}, nil
}

// orderTemporary arranges the rescanned groups by their original index and
// verifies the rescan holds exactly the temporary images written earlier.
func orderTemporary(rescanned dataset.Snapshot, order map[string]int) ([]dataset.FileGroup, error) {
	if rescanned.Len() != len(order) {
		return nil, services.Wrap(services.ErrIO, "renumber", rescanned.Dir,
			fmt.Sprintf("rescan found %d images, expected %d", rescanned.Len(), len(order)), nil)
	}
	out := make([]dataset.FileGroup, len(order))
	for _, group := range rescanned.Groups {
		idx, ok := order[group.Image]
		if !ok {
			return nil, services.Wrap(services.ErrIO, "renumber", group.Image, "unexpected image after temporary rename", nil)
		}
		out[idx] = group
	}
	return out, nil
}

// numericOrder returns groups sorted by the integer value of their base
// names. It reports false when any base name is not a non-negative integer.
// Groups sharing a number keep their scan order.
func numericOrder(groups []dataset.FileGroup) ([]dataset.FileGroup, bool) {
	numbers := make(map[string]int, len(groups))
	for _, group := range groups {
		n, err := strconv.Atoi(group.Base())
		if err != nil || n < 0 {
			return nil, false
		}
		numbers[group.Image] = n
	}
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b dataset.FileGroup) int {
		return cmp.Compare(numbers[a.Image], numbers[b.Image])
	})
	return out, true
}

// isSequential reports whether groups, in order, are named exactly 1..N.
func isSequential(groups []dataset.FileGroup) bool {
	for i, group := range groups {
		if group.Base() != strconv.Itoa(i+1) {
			return false
		}
	}
	return true
}
