// Package progress provides the shared counter a background dataset operation
// advances while an observer (CLI progress bar, status poller) reads it.
//
// One goroutine writes, any number read. Reads return a State copy taken under
// the lock so total and current are always observed as a consistent pair. A
// nil *Reporter is valid and ignores every call, which lets operations accept
// progress as optional.
package progress
