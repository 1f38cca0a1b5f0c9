// Package tagfilter selects dataset images by the content of their sidecar
// files.
//
// Terms are matched either as substrings of the raw sidecar text or, in exact
// mode, against whole comma-separated tags. Results are ordered by the numeric
// value of the image base name, so the dataset is expected to have been
// renumbered first; Options.ScanOrder keeps scan order for datasets that were
// not.
package tagfilter
