package organizer

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/afero"

	"dsproc/internal/logging"
	"dsproc/internal/progress"
	"dsproc/internal/services"
)

// Organizer runs dataset operations against a filesystem.
type Organizer struct {
	fs     afero.Fs
	logger *slog.Logger
}

// New constructs an Organizer. A nil fsys uses the OS filesystem.
func New(fsys afero.Fs, logger *slog.Logger) *Organizer {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Organizer{fs: fsys, logger: logging.NewComponentLogger(logger, "organizer")}
}

// tracker couples a reporter with sampled progress logging.
type tracker struct {
	reporter *progress.Reporter
	sampler  *logging.ProgressSampler
	logger   *slog.Logger
}

func newTracker(rep *progress.Reporter, logger *slog.Logger) *tracker {
	if rep == nil {
		rep = progress.New()
	}
	return &tracker{
		reporter: rep,
		sampler:  logging.NewProgressSampler(logging.DefaultProgressBucket),
		logger:   logger,
	}
}

func (t *tracker) start(total int, stage string) {
	t.reporter.SetTotal(total)
	t.stage(stage)
}

func (t *tracker) stage(stage string) {
	t.reporter.SetStage(stage)
	t.log()
}

func (t *tracker) advance() {
	t.reporter.Advance()
	t.log()
}

func (t *tracker) log() {
	state := t.reporter.Snapshot()
	percent := -1.0
	if state.Total > 0 {
		percent = state.Percent() * 100
	}
	if !t.sampler.ShouldLog(percent, state.Stage) {
		return
	}
	t.logger.Info("progress",
		logging.String(logging.FieldStage, state.Stage),
		logging.Int("current", state.Current),
		logging.Int("total", state.Total),
	)
}

// moveError classifies a rename failure.
func moveError(operation, path string, err error) error {
	if errors.Is(err, fs.ErrExist) {
		return services.Wrap(services.ErrCollision, operation, path, "destination already exists", err)
	}
	return services.Wrap(services.ErrIO, operation, path, "move file", err)
}

// copyError classifies a copy failure.
func copyError(operation, path string, err error) error {
	if errors.Is(err, fs.ErrExist) {
		return services.Wrap(services.ErrCollision, operation, path, "destination already exists", err)
	}
	return services.Wrap(services.ErrIO, operation, path, "copy file", err)
}

func (o *Organizer) abort(logger *slog.Logger, batch *services.BatchError) error {
	logging.Failure(logger, batch.Operation+" aborted", "batch_aborted", batch.Err,
		logging.String("path", batch.Path),
		logging.Int("completed", batch.Completed),
		logging.Int("total", batch.Total),
	)
	return batch
}

func (o *Organizer) ensureDir(operation, dir string) error {
	if err := o.fs.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrIO, operation, dir, "create directory", err)
	}
	return nil
}
