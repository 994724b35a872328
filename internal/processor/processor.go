package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"winnow/pkg/imgutil"
)

// Run measures every image directly inside root and deletes the undersized
// ones, unless opts.DryRun is set. Per-file failures are counted and reported
// through updates; only an invalid root, a listing failure or ctx
// cancellation end the run early.
func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (Summary, error) {
	summary := Summary{DryRun: opts.DryRun}

	fsys := opts.FS
	if fsys == nil {
		fsys = NewOSFileSystem()
	}
	reader := opts.Reader
	if reader == nil {
		reader = imgutil.NewReader()
	}
	audit := opts.Audit
	if audit == nil {
		nop := zerolog.Nop()
		audit = &nop
	}

	if err := ValidateFolder(fsys, root); err != nil {
		return summary, err
	}

	candidates, err := discover(fsys, root)
	if err != nil {
		return summary, fmt.Errorf("list %s: %w", root, err)
	}
	if len(candidates) == 0 {
		return summary, nil
	}

	summary.Considered = len(candidates)
	if updates != nil {
		updates <- ProgressUpdate{TotalDelta: len(candidates)}
	}
	audit.Info().
		Str("folder", root).
		Int("candidates", len(candidates)).
		Int("min_width", opts.Threshold.MinWidth).
		Int("min_height", opts.Threshold.MinHeight).
		Bool("dry_run", opts.DryRun).
		Msg("run started")

	jobs := make(chan Job)
	results := make(chan Result)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results, opts, fsys, reader)
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			switch res.Outcome {
			case OutcomeKept:
				summary.Kept++
			case OutcomeDeleted, OutcomeWouldDelete:
				summary.Deleted++
			default:
				summary.Errored++
			}
			logDecision(audit, res)
			if updates != nil {
				r := res
				updates <- ProgressUpdate{Result: &r}
			}
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		for _, job := range candidates {
			select {
			case jobs <- job:
			case <-ctx.Done():
				producerErr <- ctx.Err()
				return
			}
		}
		producerErr <- nil
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	audit.Info().
		Int("kept", summary.Kept).
		Int("deleted", summary.Deleted).
		Int("errored", summary.Errored).
		Msg("run finished")

	if err := <-producerErr; err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	return summary, nil
}

// ValidateFolder returns an *InvalidFolderError unless root is an existing directory.
func ValidateFolder(fsys FileSystem, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &InvalidFolderError{Path: root, Reason: "does not exist", Cause: err}
		}
		return &InvalidFolderError{Path: root, Reason: "cannot be accessed", Cause: err}
	}
	if !info.IsDir() {
		return &InvalidFolderError{Path: root, Reason: "is not a directory"}
	}
	return nil
}

// discover returns the regular files directly inside root that carry an
// image extension. Symlinks count when they resolve to a regular file.
// Subdirectories are not entered.
func discover(fsys FileSystem, root string) ([]Job, error) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	for _, entry := range entries {
		if !IsImageName(entry.Name()) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if !isRegularFile(fsys, path, entry) {
			continue
		}
		jobs = append(jobs, Job{Path: path, Name: entry.Name()})
	}
	return jobs, nil
}

func isRegularFile(fsys FileSystem, path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	// Dangling links are skipped.
	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func worker(ctx context.Context, jobs <-chan Job, results chan<- Result, opts Options, fsys FileSystem, reader DimensionReader) {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			return
		}
		results <- process(job, opts, fsys, reader)
	}
}

func process(job Job, opts Options, fsys FileSystem, reader DimensionReader) Result {
	res := Result{Path: job.Path, Name: job.Name}

	dims, err := reader.ReadDimensions(job.Path)
	if err != nil {
		res.Outcome = OutcomeErrored
		res.Err = &DecodeError{Path: job.Path, Cause: err}
		return res
	}
	if dims.Width <= 0 || dims.Height <= 0 {
		res.Outcome = OutcomeErrored
		res.Err = &DecodeError{Path: job.Path, Cause: imgutil.ErrEmptyDimensions}
		return res
	}
	res.Dimensions = dims

	if !opts.Threshold.Undersized(dims) {
		res.Outcome = OutcomeKept
		return res
	}

	if opts.DryRun {
		res.Outcome = OutcomeWouldDelete
		return res
	}

	if err := fsys.Remove(job.Path); err != nil {
		res.Outcome = OutcomeErrored
		res.Err = &DeletionError{Path: job.Path, Cause: err}
		return res
	}

	res.Outcome = OutcomeDeleted
	return res
}

func logDecision(audit *zerolog.Logger, res Result) {
	var event *zerolog.Event
	if res.Err != nil {
		event = audit.Warn().Err(res.Err)
	} else {
		event = audit.Info()
	}
	event.
		Str("file", res.Path).
		Str("outcome", res.Outcome.String()).
		Int("width", res.Dimensions.Width).
		Int("height", res.Dimensions.Height).
		Str("format", res.Dimensions.Format).
		Msg("decision")
}
