package dataset

import (
	"path/filepath"
	"strings"
)

// ReservedFilename is a dataset artifact that is never treated as data.
const ReservedFilename = "sample_prompt_custom.txt"

const (
	// TxtExtension holds comma-separated tag lists.
	TxtExtension = ".txt"
	// CaptionExtension holds free-form captions.
	CaptionExtension = ".caption"
)

// ImageExtensions is the allow-list of primary file extensions.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// SidecarExtensions lists recognized sidecar extensions in probe order.
var SidecarExtensions = []string{TxtExtension, CaptionExtension}

// IsImage reports whether name carries one of ImageExtensions (case-insensitive).
func IsImage(name string) bool {
	return hasExtension(name, ImageExtensions)
}

// IsSidecarExtension reports whether ext is exactly one of SidecarExtensions.
func IsSidecarExtension(ext string) bool {
	for _, candidate := range SidecarExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// IsReserved reports whether the file at path is the reserved artifact.
func IsReserved(path string) bool {
	return strings.EqualFold(filepath.Base(path), ReservedFilename)
}

// BaseName returns the filename without directory or extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SidecarPath replaces the extension of imagePath with ext.
func SidecarPath(imagePath, ext string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ext
}

// NormalizeExtensions lowercases extensions and ensures a leading dot. Blank
// entries are dropped and duplicates removed, preserving order.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, candidate := range exts {
		if ext == candidate {
			return true
		}
	}
	return false
}
