package organizer

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"dsproc/internal/dataset"
	"dsproc/internal/fileutil"
	"dsproc/internal/logging"
	"dsproc/internal/progress"
	"dsproc/internal/services"
)

// BackupResult summarizes a completed backup.
type BackupResult struct {
	Groups int
	Files  int
	Bytes  int64
}

// Backup copies every group in dir, image and sidecars, into backupDir under
// the original filenames. Each copy is read back and checked against the
// source's size and SHA256, and never overwrites an existing file.
func (o *Organizer) Backup(ctx context.Context, dir, backupDir string, rep *progress.Reporter) (BackupResult, error) {
	const operation = "backup"
	if dir == "" || backupDir == "" {
		return BackupResult{}, services.Wrap(services.ErrInvalidArgument, operation, "", "source and backup directories are required", nil)
	}
	if filepath.Clean(dir) == filepath.Clean(backupDir) {
		return BackupResult{}, services.Wrap(services.ErrInvalidArgument, operation, backupDir, "backup directory must differ from source", nil)
	}
	ctx = services.WithOperation(services.WithDataset(ctx, dir), operation)
	logger := logging.WithContext(ctx, o.logger)

	snapshot, err := dataset.ScanImages(o.fs, dir)
	if err != nil {
		return BackupResult{}, err
	}
	if err := o.ensureDir(operation, backupDir); err != nil {
		return BackupResult{}, err
	}

	total := snapshot.Len()
	track := newTracker(rep, logger)
	track.start(total, operation)
	logger.Info("backup started", logging.Int("groups", total), logging.String("destination", backupDir))

	var result BackupResult
	for i, group := range snapshot.Groups {
		if err := ctx.Err(); err != nil {
			return result, o.abort(logger, &services.BatchError{Operation: operation, Path: group.Image, Completed: i, Total: total, Err: err})
		}
		for _, path := range group.Paths() {
			target := filepath.Join(backupDir, filepath.Base(path))
			n, err := fileutil.CopyFileVerified(o.fs, path, target)
			if err != nil {
				return result, o.abort(logger, &services.BatchError{
					Operation: operation, Path: path, Completed: i, Total: total,
					Err: copyError(operation, target, err),
				})
			}
			result.Bytes += n
			result.Files++
		}
		result.Groups++
		track.advance()
	}

	logger.Info("backup completed",
		logging.Int("groups", result.Groups),
		logging.Int("files", result.Files),
		logging.String("size", humanize.Bytes(uint64(result.Bytes))),
	)
	return result, nil
}
