package tagfilter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"dsproc/internal/dataset"
	"dsproc/internal/logging"
	"dsproc/internal/services"
)

const operation = "filter"

// Options configures a Filter.
type Options struct {
	// FoldCase matches terms without regard to letter case.
	FoldCase bool
	// ScanOrder keeps matches in scan order instead of sorting them by
	// numeric base name, for datasets that have not been renumbered.
	ScanOrder bool
	Logger    *slog.Logger
}

// Filter reads sidecars from a filesystem.
type Filter struct {
	fs        afero.Fs
	foldCase  bool
	scanOrder bool
	logger    *slog.Logger
}

// New constructs a Filter. A nil fsys uses the OS filesystem.
func New(fsys afero.Fs, opts Options) *Filter {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Filter{
		fs:        fsys,
		foldCase:  opts.FoldCase,
		scanOrder: opts.ScanOrder,
		logger:    logging.NewComponentLogger(opts.Logger, "tagfilter"),
	}
}

// SplitTerms splits a comma-separated query into trimmed, non-empty terms.
func SplitTerms(terms string) []string {
	return ParseTags(terms)
}

// ParseTags splits sidecar content into trimmed, non-empty comma-separated tags.
func ParseTags(content string) []string {
	parts := strings.Split(content, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FilterByContent returns the images in folder whose sidecar with extension
// ext contains any of the comma-separated terms. A missing sidecar counts as
// empty content. The result is sorted by the numeric value of each image's
// base name; a matching image whose base name is not an integer fails the call
// with services.ErrFormat. With Options.ScanOrder the scan order is kept and
// names are not parsed. No matches is an empty result, not an error.
//
// Each image reads the sidecar at its own path with ext swapped in, so a.jpg
// and a.png both read a.txt even though a scan groups a.txt with a.jpg only.
func (f *Filter) FilterByContent(folder, ext, terms string, exact bool) ([]string, error) {
	if !dataset.IsSidecarExtension(ext) {
		return nil, services.Wrap(services.ErrInvalidArgument, operation, folder,
			fmt.Sprintf("sidecar extension %q is not one of %v", ext, dataset.SidecarExtensions), nil)
	}
	query := SplitTerms(terms)
	if len(query) == 0 {
		return nil, services.Wrap(services.ErrInvalidArgument, operation, folder, "no search terms", nil)
	}

	snapshot, err := dataset.ScanImages(f.fs, folder)
	if err != nil {
		return nil, err
	}

	fold := f.folder()
	query = foldAll(fold, query)

	type match struct {
		path   string
		number int
	}
	matches := make([]match, 0)
	for _, group := range snapshot.Groups {
		content, err := f.readSidecar(group, ext)
		if errors.Is(err, services.ErrNotFound) {
			content = ""
		} else if err != nil {
			return nil, err
		}
		if !contains(fold(content), query, exact) {
			continue
		}
		if f.scanOrder {
			matches = append(matches, match{path: group.Image})
			continue
		}
		number, err := strconv.Atoi(group.Base())
		if err != nil {
			return nil, services.Wrap(services.ErrFormat, operation, group.Image,
				fmt.Sprintf("base name %q is not a number; renumber the dataset first", group.Base()), err)
		}
		matches = append(matches, match{path: group.Image, number: number})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].number < matches[j].number
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.path
	}

	f.logger.Debug("filter completed",
		logging.String(logging.FieldDataset, folder),
		logging.String("extension", ext),
		logging.Int("terms", len(query)),
		logging.Bool("exact", exact),
		logging.Int("matched", len(out)),
		logging.Int("scanned", snapshot.Len()),
	)
	return out, nil
}

func (f *Filter) folder() func(string) string {
	if !f.foldCase {
		return func(s string) string { return s }
	}
	caser := cases.Fold()
	return caser.String
}

// readSidecar returns the sidecar text for group with any UTF-8 BOM removed.
// A missing sidecar is reported as services.ErrNotFound.
func (f *Filter) readSidecar(group dataset.FileGroup, ext string) (string, error) {
	path := dataset.SidecarPath(group.Image, ext)
	if dataset.IsReserved(path) {
		return "", services.Wrap(services.ErrNotFound, operation, path, "reserved file is not a sidecar", nil)
	}
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", services.Wrap(services.ErrNotFound, operation, path, "no sidecar", err)
		}
		return "", services.Wrap(services.ErrIO, operation, path, "read sidecar", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func foldAll(fold func(string) string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fold(v)
	}
	return out
}

func contains(content string, terms []string, exact bool) bool {
	if exact {
		tags := ParseTags(content)
		for _, term := range terms {
			for _, tag := range tags {
				if tag == term {
					return true
				}
			}
		}
		return false
	}
	for _, term := range terms {
		if strings.Contains(content, term) {
			return true
		}
	}
	return false
}

// Names returns the base filenames of paths, preserving order.
func Names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
