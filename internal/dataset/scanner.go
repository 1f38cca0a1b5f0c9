package dataset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"dsproc/internal/services"
)

// FileGroup is one primary image plus the sidecars present next to it.
type FileGroup struct {
	Image string
	// Sidecars follow SidecarExtensions order; at most one per extension.
	Sidecars []string
}

// Dir returns the directory holding the group.
func (g FileGroup) Dir() string {
	return filepath.Dir(g.Image)
}

// Base returns the shared base filename.
func (g FileGroup) Base() string {
	return BaseName(g.Image)
}

// Paths returns the image followed by its sidecars.
func (g FileGroup) Paths() []string {
	out := make([]string, 0, 1+len(g.Sidecars))
	out = append(out, g.Image)
	return append(out, g.Sidecars...)
}

// Sidecar returns the sidecar with the given extension, if present.
func (g FileGroup) Sidecar(ext string) (string, bool) {
	for _, path := range g.Sidecars {
		if filepath.Ext(path) == ext {
			return path, true
		}
	}
	return "", false
}

// Snapshot is the ordered set of groups in one directory at scan time.
type Snapshot struct {
	Dir    string
	Groups []FileGroup
}

// Len returns the number of groups.
func (s Snapshot) Len() int {
	return len(s.Groups)
}

// Images returns the primary image paths in snapshot order.
func (s Snapshot) Images() []string {
	out := make([]string, len(s.Groups))
	for i, group := range s.Groups {
		out[i] = group.Image
	}
	return out
}

// FileCount returns the number of files (images plus sidecars).
func (s Snapshot) FileCount() int {
	n := 0
	for _, group := range s.Groups {
		n += 1 + len(group.Sidecars)
	}
	return n
}

// Scan lists dir (non-recursively) for files whose extension is in exts and
// groups each with its sidecars. Groups are ordered by full path, byte-wise
// ascending. A sidecar shared by two images with the same base name (a.png and
// a.jpg) belongs to the first of them in that order only.
func Scan(fsys afero.Fs, dir string, exts []string) (Snapshot, error) {
	allowed := NormalizeExtensions(exts)
	if len(allowed) == 0 {
		allowed = ImageExtensions
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return Snapshot{}, services.Wrap(services.ErrIO, "scan", dir, "read directory", err)
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || IsReserved(entry.Name()) {
			continue
		}
		if !hasExtension(entry.Name(), allowed) {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(images)

	claimed := make(map[string]struct{})
	groups := make([]FileGroup, 0, len(images))
	for _, image := range images {
		group := FileGroup{Image: image}
		for _, ext := range SidecarExtensions {
			candidate := SidecarPath(image, ext)
			if candidate == image || IsReserved(candidate) {
				continue
			}
			if _, taken := claimed[candidate]; taken {
				continue
			}
			ok, err := isRegularFile(fsys, candidate)
			if err != nil {
				return Snapshot{}, services.Wrap(services.ErrIO, "scan", candidate, "probe sidecar", err)
			}
			if ok {
				claimed[candidate] = struct{}{}
				group.Sidecars = append(group.Sidecars, candidate)
			}
		}
		groups = append(groups, group)
	}

	return Snapshot{Dir: dir, Groups: groups}, nil
}

// ScanImages scans dir with the default image extensions.
func ScanImages(fsys afero.Fs, dir string) (Snapshot, error) {
	return Scan(fsys, dir, ImageExtensions)
}

func isRegularFile(fsys afero.Fs, path string) (bool, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
