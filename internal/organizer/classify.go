package organizer

import (
	"context"
	"fmt"
	"path/filepath"

	"dsproc/internal/dataset"
	"dsproc/internal/fileutil"
	"dsproc/internal/imagesize"
	"dsproc/internal/logging"
	"dsproc/internal/progress"
	"dsproc/internal/services"
)

// ClassifyRequest describes one size classification run.
type ClassifyRequest struct {
	Dir        string
	Threshold  imagesize.Dimension
	KeepDir    string
	DiscardDir string
	// CopySidecars copies .txt/.caption files along with the image.
	CopySidecars bool
}

// ClassifyResult counts routed groups.
type ClassifyResult struct {
	Kept      int
	Discarded int
}

func (r ClassifyResult) Total() int { return r.Kept + r.Discarded }

func (req ClassifyRequest) validate() error {
	const operation = "classify"
	if !req.Threshold.Valid() {
		return services.Wrap(services.ErrInvalidArgument, operation, "", fmt.Sprintf("unsupported threshold %d", int(req.Threshold)), nil)
	}
	if req.Dir == "" || req.KeepDir == "" || req.DiscardDir == "" {
		return services.Wrap(services.ErrInvalidArgument, operation, "", "source, keep, and discard directories are required", nil)
	}
	keep, discard := filepath.Clean(req.KeepDir), filepath.Clean(req.DiscardDir)
	if keep == discard {
		return services.Wrap(services.ErrInvalidArgument, operation, keep, "keep and discard directories must differ", nil)
	}
	if src := filepath.Clean(req.Dir); src == keep || src == discard {
		return services.Wrap(services.ErrInvalidArgument, operation, src, "destination must differ from source", nil)
	}
	return nil
}

// Classify copies each image into KeepDir, or into DiscardDir when both of its
// sides are strictly below Threshold. Copies never overwrite: an existing file
// at the destination aborts the run with a collision. The reporter advances
// once per image after its copy, whether or not the copy succeeded.
func (o *Organizer) Classify(ctx context.Context, req ClassifyRequest, rep *progress.Reporter) (ClassifyResult, error) {
	const operation = "classify"
	if err := req.validate(); err != nil {
		return ClassifyResult{}, err
	}
	ctx = services.WithOperation(services.WithDataset(ctx, req.Dir), operation)
	logger := logging.WithContext(ctx, o.logger)

	snapshot, err := dataset.ScanImages(o.fs, req.Dir)
	if err != nil {
		return ClassifyResult{}, err
	}
	for _, dir := range []string{req.KeepDir, req.DiscardDir} {
		if err := o.ensureDir(operation, dir); err != nil {
			return ClassifyResult{}, err
		}
	}

	total := snapshot.Len()
	track := newTracker(rep, logger)
	track.start(total, operation)
	logger.Info("classify started",
		logging.Int("groups", total),
		logging.String("threshold", req.Threshold.String()),
		logging.Bool("copy_sidecars", req.CopySidecars),
	)

	var result ClassifyResult
	for i, group := range snapshot.Groups {
		if err := ctx.Err(); err != nil {
			return result, o.abort(logger, &services.BatchError{Operation: operation, Path: group.Image, Completed: i, Total: total, Err: err})
		}
		kept, path, err := o.classifyGroup(group, req)
		track.advance()
		if err != nil {
			return result, o.abort(logger, &services.BatchError{Operation: operation, Path: path, Completed: i, Total: total, Err: err})
		}
		if kept {
			result.Kept++
		} else {
			result.Discarded++
		}
	}

	logger.Info("classify completed", logging.Int("kept", result.Kept), logging.Int("discarded", result.Discarded))
	return result, nil
}

// classifyGroup routes one group and returns the failing path on error.
func (o *Organizer) classifyGroup(group dataset.FileGroup, req ClassifyRequest) (bool, string, error) {
	size, err := imagesize.Probe(o.fs, group.Image)
	if err != nil {
		return false, group.Image, err
	}
	kept := !size.Below(req.Threshold)
	dest := req.KeepDir
	if !kept {
		dest = req.DiscardDir
	}

	paths := []string{group.Image}
	if req.CopySidecars {
		paths = group.Paths()
	}
	for _, path := range paths {
		target := filepath.Join(dest, filepath.Base(path))
		if err := fileutil.CopyFileExclusive(o.fs, path, target); err != nil {
			return kept, path, copyError("classify", target, err)
		}
	}
	o.logger.Debug("image routed",
		logging.String("image", filepath.Base(group.Image)),
		logging.Int("width", size.Width),
		logging.Int("height", size.Height),
		logging.Bool("kept", kept),
	)
	return kept, "", nil
}
