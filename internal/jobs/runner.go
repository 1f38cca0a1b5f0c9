package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dsproc/internal/logging"
	"dsproc/internal/progress"
	"dsproc/internal/services"
)

// ErrLocked reports that another run holds the lock for a directory.
var ErrLocked = errors.New("directory is locked by another run")

// Func performs the work of a job, advancing rep as it goes.
type Func func(ctx context.Context, rep *progress.Reporter) error

// Spec describes a job.
type Spec struct {
	Operation string
	// Dataset is the directory the operation reads; it is always locked.
	Dataset string
	// Locks lists further directories the job writes to.
	Locks []string
	Run   Func
}

// Runner starts jobs. The zero value runs jobs without locking or logging.
type Runner struct {
	lockDir string
	logger  *slog.Logger
}

// NewRunner returns a Runner that keeps lock files in lockDir. An empty
// lockDir disables locking.
func NewRunner(lockDir string, logger *slog.Logger) *Runner {
	return &Runner{lockDir: lockDir, logger: logging.NewComponentLogger(logger, "jobs")}
}

// Job is a running or finished operation.
type Job struct {
	id       string
	spec     Spec
	progress *progress.Reporter
	done     chan struct{}
	err      error
	started  time.Time
	finished time.Time
}

// ID returns the run identifier used as correlation_id in logs.
func (j *Job) ID() string { return j.id }

// Operation returns the job's operation name.
func (j *Job) Operation() string { return j.spec.Operation }

// Progress returns the reporter the job advances.
func (j *Job) Progress() *progress.Reporter { return j.progress }

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes and returns its error.
func (j *Job) Wait() error {
	<-j.done
	return j.err
}

// Duration returns how long the job ran; zero while it is still running.
func (j *Job) Duration() time.Duration {
	select {
	case <-j.done:
		return j.finished.Sub(j.started)
	default:
		return 0
	}
}

// Start launches spec on a new goroutine and returns immediately. Lock and
// validation failures are reported by Wait.
func (r *Runner) Start(ctx context.Context, spec Spec) *Job {
	if r == nil {
		r = &Runner{}
	}
	job := &Job{
		id:       uuid.NewString(),
		spec:     spec,
		progress: progress.New(),
		done:     make(chan struct{}),
		started:  time.Now(),
	}
	ctx = services.WithRunID(ctx, job.id)
	ctx = services.WithOperation(ctx, spec.Operation)
	ctx = services.WithDataset(ctx, spec.Dataset)

	go r.run(ctx, job)
	return job
}

func (r *Runner) run(ctx context.Context, job *Job) {
	logger := logging.WithContext(ctx, r.logger)
	defer func() {
		job.finished = time.Now()
		close(job.done)
	}()

	if job.spec.Run == nil {
		job.err = services.Wrap(services.ErrInvalidArgument, job.spec.Operation, job.spec.Dataset, "job has no work", nil)
		return
	}

	release, err := r.acquire(job.spec)
	if err != nil {
		job.err = err
		logger.Warn("job not started", logging.String(logging.FieldEventType, "job_locked"), logging.Error(err))
		return
	}
	defer release()

	logger.Info("job started", logging.String(logging.FieldEventType, "job_start"))
	job.err = r.execute(ctx, job, logger)

	duration := time.Since(job.started)
	if job.err != nil {
		logging.Failure(logger, "job failed", "job_failure", job.err, logging.Duration("duration", duration))
		return
	}
	state := job.progress.Snapshot()
	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.Int("processed", state.Current),
		logging.Int("total", state.Total),
		logging.Duration("duration", duration),
	)
}

func (r *Runner) execute(ctx context.Context, job *Job, logger *slog.Logger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("job panicked",
				logging.String(logging.FieldEventType, "job_panic"),
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%s panicked: %v", job.spec.Operation, rec)
		}
	}()
	return job.spec.Run(ctx, job.progress)
}

// acquire locks every directory in spec, in a stable order, and returns a
// function releasing them.
func (r *Runner) acquire(spec Spec) (func(), error) {
	if r.lockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(r.lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "lock", r.lockDir, "create lock directory", err)
	}

	dirs := make([]string, 0, 1+len(spec.Locks))
	for _, dir := range append([]string{spec.Dataset}, spec.Locks...) {
		if dir == "" {
			continue
		}
		dirs = append(dirs, canonical(dir))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	held := make([]*flock.Flock, 0, len(dirs))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Unlock(); err != nil {
				r.logger.Warn("failed to release lock", logging.String("lock", held[i].Path()), logging.Error(err))
			}
		}
	}
	for _, dir := range dirs {
		lock := flock.New(LockPath(r.lockDir, dir))
		ok, err := lock.TryLock()
		if err != nil {
			release()
			return nil, services.Wrap(services.ErrIO, "lock", lock.Path(), "acquire lock", err)
		}
		if !ok {
			release()
			return nil, fmt.Errorf("%w: %s (lock %s)", ErrLocked, dir, lock.Path())
		}
		held = append(held, lock)
	}
	return release, nil
}

// LockPath returns the lock file guarding dir.
func LockPath(lockDir, dir string) string {
	sum := sha256.Sum256([]byte(canonical(dir)))
	return filepath.Join(lockDir, "dataset-"+hex.EncodeToString(sum[:8])+".lock")
}

func canonical(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}
