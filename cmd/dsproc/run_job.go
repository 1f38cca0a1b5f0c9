package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"dsproc/internal/jobs"
	"dsproc/internal/progress"
)

const progressPollInterval = 100 * time.Millisecond

// runJob starts spec on the runner and blocks until it finishes. When stderr
// is a terminal the job's reporter is polled into a progress bar.
func (c *commandContext) runJob(cmd *cobra.Command, spec jobs.Spec) error {
	job := c.runner().Start(cmd.Context(), spec)
	stderr := cmd.ErrOrStderr()
	if shouldColorize(stderr) {
		watchProgress(stderr, job)
	}
	return job.Wait()
}

func watchProgress(w io.Writer, job *jobs.Job) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(job.Operation()),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(progressPollInterval),
	)
	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	var last progress.State
	update := func() {
		state := job.Progress().Snapshot()
		if state.Total != last.Total && state.Total > 0 {
			bar.ChangeMax(state.Total)
		}
		if state.Stage != last.Stage && state.Stage != "" {
			bar.Describe(job.Operation() + ": " + state.Stage)
		}
		_ = bar.Set(state.Current)
		last = state
	}

	for {
		select {
		case <-job.Done():
			update()
			_ = bar.Finish()
			_ = bar.Clear()
			return
		case <-ticker.C:
			update()
		}
	}
}
