// Package jobs runs one dataset operation on a background goroutine.
//
// A Runner stamps every job with a run ID, takes exclusive file locks on the
// directories the job touches so two dsproc processes never reorganize the same
// dataset at once, and exposes a progress.Reporter the caller can poll while
// the job runs. Panics inside a job are recovered, logged with their stack, and
// returned from Wait as errors.
package jobs
