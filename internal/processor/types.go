package processor

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"winnow/pkg/imgutil"
)

type Threshold struct {
	MinWidth  int
	MinHeight int
}

func (t Threshold) String() string {
	return fmt.Sprintf("%dx%d", t.MinWidth, t.MinHeight)
}

// Undersized reports whether d falls below t on either axis.
// An image exactly at the threshold is kept.
func (t Threshold) Undersized(d imgutil.Dimensions) bool {
	return d.Width < t.MinWidth || d.Height < t.MinHeight
}

// Options configures a run. Workers below 1 means a single worker; nil FS,
// Reader or Audit fall back to the local disk, imgutil.Reader and no audit.
type Options struct {
	Threshold Threshold
	DryRun    bool
	Workers   int
	FS        FileSystem
	Reader    DimensionReader
	Audit     *zerolog.Logger
}

// DimensionReader reports the pixel dimensions of the image at path.
type DimensionReader interface {
	ReadDimensions(path string) (imgutil.Dimensions, error)
}

type Job struct {
	Path string
	Name string
}

type Outcome int

const (
	OutcomeKept Outcome = iota
	OutcomeDeleted
	OutcomeWouldDelete
	OutcomeErrored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeKept:
		return "kept"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeWouldDelete:
		return "would-delete"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

type Result struct {
	Path       string
	Name       string
	Dimensions imgutil.Dimensions
	Outcome    Outcome
	Err        error
}

// Notice is the one-line, human-readable account of the decision.
func (r Result) Notice() string {
	switch r.Outcome {
	case OutcomeKept:
		return fmt.Sprintf("KEPT: %s (%s)", r.Name, r.Dimensions)
	case OutcomeDeleted:
		return fmt.Sprintf("DELETED: %s (%s)", r.Name, r.Dimensions)
	case OutcomeWouldDelete:
		return fmt.Sprintf("WOULD DELETE: %s (%s)", r.Name, r.Dimensions)
	}

	var decodeErr *DecodeError
	if errors.As(r.Err, &decodeErr) {
		return fmt.Sprintf("Warning: could not read %s: %v", r.Name, decodeErr.Cause)
	}
	var deleteErr *DeletionError
	if errors.As(r.Err, &deleteErr) {
		return fmt.Sprintf("ERROR deleting %s: %v", r.Name, deleteErr.Cause)
	}
	if r.Err != nil {
		return fmt.Sprintf("ERROR: %s: %v", r.Name, r.Err)
	}
	return fmt.Sprintf("ERROR: %s", r.Name)
}

// Summary holds the run counters. Deleted counts would-be deletions in a dry run.
type Summary struct {
	Considered int
	Kept       int
	Deleted    int
	Errored    int
	DryRun     bool
}

type ProgressUpdate struct {
	TotalDelta int
	Result     *Result
}
