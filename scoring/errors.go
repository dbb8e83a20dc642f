package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoaded is returned when scoring is attempted before artifacts load.
var ErrNotLoaded = errors.New("scoring: artifacts not loaded")

// ArtifactLoadError reports a missing, unreadable or invalid artifact blob.
// It is fatal at startup: a pipeline is never built from a partial set.
type ArtifactLoadError struct {
	Name string // "encoder", "scaler" or "model"
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("loading %s artifact from %s: %v", e.Name, e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

// SchemaMismatchError reports input that does not match the fitted schema.
// Stage "record" fills the field lists; vector stages fill Want and Got.
type SchemaMismatchError struct {
	Stage      string
	Missing    []string
	Extra      []string
	Duplicate  []string
	Mismatched []string
	Want, Got  int
}

func (e *SchemaMismatchError) empty() bool {
	return len(e.Missing) == 0 && len(e.Extra) == 0 && len(e.Duplicate) == 0 &&
		len(e.Mismatched) == 0 && e.Want == e.Got
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected fields "+strings.Join(e.Extra, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate fields "+strings.Join(e.Duplicate, ", "))
	}
	if len(e.Mismatched) > 0 {
		parts = append(parts, "type mismatch "+strings.Join(e.Mismatched, "; "))
	}
	if e.Want != e.Got {
		parts = append(parts, fmt.Sprintf("vector has %d columns, want %d", e.Got, e.Want))
	}
	return fmt.Sprintf("%s: schema mismatch: %s", e.Stage, strings.Join(parts, "; "))
}

// UnknownCategoryError reports a categorical value the encoder never saw at
// fit time.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("encoder: unknown category %q for field %q", e.Value, e.Field)
}

// DegenerateFeatureError reports a column whose fitted scale is zero.
type DegenerateFeatureError struct {
	Column string
	Index  int
}

func (e *DegenerateFeatureError) Error() string {
	return fmt.Sprintf("scaler: degenerate feature %q (column %d) has zero scale", e.Column, e.Index)
}

// BatchError wraps the failure of one record within ScoreBatch.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// UnknownLabelError reports a true label outside the label set being scored.
type UnknownLabelError struct {
	Index  int
	Label  Label
	Labels LabelSet
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("record %d: true label %q is not in label set %v", e.Index, e.Label, e.Labels)
}

// IsRequestError reports whether err was caused by the caller's input rather
// than by the service, so a serving layer can reject just that request.
func IsRequestError(err error) bool {
	var sm *SchemaMismatchError
	var uc *UnknownCategoryError
	var ul *UnknownLabelError
	return errors.As(err, &sm) || errors.As(err, &uc) || errors.As(err, &ul)
}
