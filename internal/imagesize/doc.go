// Package imagesize reads image dimensions from file headers and defines the
// supported square resolutions used as size thresholds.
//
// Probe decodes only the header (image.DecodeConfig) for JPEG, PNG, GIF, and
// WebP; pixel data is never loaded.
package imagesize
