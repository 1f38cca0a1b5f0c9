package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"dsproc/internal/config"
	"dsproc/internal/dataset"
	"dsproc/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the dataset directory, every destination directory, and that
// the backup destination can hold a copy of the dataset.
func RunAll(fsys afero.Fs, cfg *config.Config, dir string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess(fsys, "Dataset directory", dir)}
	results = append(results,
		CheckDestination(fsys, "Selected directory", cfg.Paths.SelectedDir),
		CheckDestination(fsys, "Discarded directory", cfg.Paths.DiscardedDir),
	)
	results = append(results, ForBackup(fsys, dir, cfg.Paths.BackupDir)...)
	return results
}

// ForBackup checks that backupDir is usable and has room for the dataset.
func ForBackup(fsys afero.Fs, dir, backupDir string) []Result {
	results := []Result{CheckDestination(fsys, "Backup directory", backupDir)}
	size, err := DatasetSize(fsys, dir)
	if err != nil {
		return append(results, Result{Name: "Backup free space", Detail: fmt.Sprintf("dataset size unknown (%v)", err)})
	}
	return append(results, CheckFreeSpace(fsys, "Backup free space", backupDir, size))
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
// Permissions are only checked when fsys is the host filesystem.
func CheckDirectoryAccess(fsys afero.Fs, name, path string) Result {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if !onHost(fsys) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (exists)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDestination passes when path is a writable directory, or when it does
// not exist yet but its nearest existing parent is writable.
func CheckDestination(fsys afero.Fs, name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := fsys.Stat(path); err == nil {
		return CheckDirectoryAccess(fsys, name, path)
	}
	parent, err := existingAncestor(fsys, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !onHost(fsys) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least required
// bytes available to unprivileged users. Only the host filesystem reports
// free space; any other fsys passes with the requirement noted.
func CheckFreeSpace(fsys afero.Fs, name, path string, required uint64) Result {
	target, err := existingAncestor(fsys, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !onHost(fsys) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s needed, free space not reported", humanize.Bytes(required))}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(target, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", target, err)}
	}
	available := uint64(stat.Bavail) * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free, %s needed", humanize.Bytes(available), humanize.Bytes(required))
	if available < required {
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// DatasetSize sums the sizes of every image and sidecar in dir.
func DatasetSize(fsys afero.Fs, dir string) (uint64, error) {
	snapshot, err := dataset.ScanImages(fsys, dir)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, group := range snapshot.Groups {
		for _, path := range group.Paths() {
			info, err := fsys.Stat(path)
			if err != nil {
				return 0, services.Wrap(services.ErrIO, "size", path, "stat", err)
			}
			total += uint64(info.Size())
		}
	}
	return total, nil
}

// Failure returns an error describing the first failed result, or nil.
func Failure(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return services.Wrap(services.ErrIO, "preflight", "", fmt.Sprintf("%s: %s", r.Name, r.Detail), nil)
		}
	}
	return nil
}

// onHost reports whether fsys is backed by the OS, where unix.Access and
// unix.Statfs see the same files as fsys.
func onHost(fsys afero.Fs) bool {
	_, ok := fsys.(*afero.OsFs)
	return ok
}

func existingAncestor(fsys afero.Fs, path string) (string, error) {
	current, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		info, err := fsys.Stat(current)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("%s is not a directory", current)
			}
			return current, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", errors.New("no existing parent directory")
		}
		current = parent
	}
}
