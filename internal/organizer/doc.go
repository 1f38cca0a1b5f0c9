// Package organizer performs the destructive, group-aware dataset operations:
// sequential renumbering, size classification into keep/discard buckets, and
// backup copies.
//
// Every operation rescans the directory first, processes groups strictly in
// snapshot order on the calling goroutine, and advances the supplied progress
// reporter as it goes. Failures are fail-fast: the first fatal error aborts the
// batch and is returned as a *services.BatchError recording how many groups
// completed. Nothing is rolled back.
package organizer
