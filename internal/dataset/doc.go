// Package dataset enumerates image datasets on disk.
//
// A dataset directory holds images plus optional sidecar text files (.txt tag
// lists, .caption captions) that share the image's base filename. Scan groups
// each image with its sidecars and returns the groups ordered by full path so
// every consumer (renumbering, sorting, filtering, backup) walks the same
// reproducible sequence. Nothing is cached: the directory listing is the only
// source of truth and every operation rescans.
package dataset
