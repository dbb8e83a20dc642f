// Package evaluation scores a labeled batch and aggregates the outcome into a
// confusion-matrix report.
// Recording (Trace) and aggregation (Summarize) are pure data operations;
// only Evaluate touches a pipeline.
package evaluation

import "github.com/inference-sim/churnscore/scoring"

// PredictionRecord captures one scored record of a labeled batch.
type PredictionRecord struct {
	Index     int           `json:"index" yaml:"index"`
	Actual    scoring.Label `json:"actual" yaml:"actual"`
	Predicted scoring.Label `json:"predicted" yaml:"predicted"`
}

// Correct reports whether the prediction matches the true label.
func (r PredictionRecord) Correct() bool { return r.Actual == r.Predicted }
