package progress

import "sync"

// State is a consistent copy of a Reporter taken at one instant.
type State struct {
	Total   int
	Current int
	Stage   string
}

// Percent returns Current/Total as a fraction in [0,1], or 0 when Total is 0.
func (s State) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Current) / float64(s.Total)
}

// Done reports whether every unit of work has been counted.
func (s State) Done() bool {
	return s.Total > 0 && s.Current >= s.Total
}

// Reporter is a mutable, pollable counter.
type Reporter struct {
	mu    sync.RWMutex
	state State
}

// New returns an empty reporter.
func New() *Reporter {
	return &Reporter{}
}

// SetTotal fixes the denominator for the current operation and resets Current.
// Negative totals are treated as zero.
func (r *Reporter) SetTotal(n int) {
	if r == nil {
		return
	}
	if n < 0 {
		n = 0
	}
	r.mu.Lock()
	r.state.Total = n
	r.state.Current = 0
	r.mu.Unlock()
}

// SetStage labels the phase currently being counted (e.g. "temporary names").
func (r *Reporter) SetStage(stage string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.state.Stage = stage
	r.mu.Unlock()
}

// Advance increments Current by one. Calls beyond Total are clamped rather than
// rejected; the counter is observed by a UI, not used to enforce invariants.
func (r *Reporter) Advance() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.state.Current < r.state.Total {
		r.state.Current++
	}
	r.mu.Unlock()
}

// Reset zeroes the counter and clears the stage label.
func (r *Reporter) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.state = State{}
	r.mu.Unlock()
}

// Snapshot returns a consistent copy of the counter.
func (r *Reporter) Snapshot() State {
	if r == nil {
		return State{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Percent is shorthand for Snapshot().Percent().
func (r *Reporter) Percent() float64 {
	return r.Snapshot().Percent()
}

// Total returns the current denominator.
func (r *Reporter) Total() int {
	return r.Snapshot().Total
}

// Current returns the number of units counted so far.
func (r *Reporter) Current() int {
	return r.Snapshot().Current
}
