package evaluation

import (
	"context"
	"fmt"

	"github.com/inference-sim/churnscore/scoring"
)

// Scorer is the part of a pipeline Evaluate needs.
type Scorer interface {
	ScoreBatch(ctx context.Context, recs []scoring.Record) ([]scoring.Label, error)
	Labels() scoring.LabelSet
}

// Evaluate scores every record of batch and summarizes predictions against
// the true labels. A true label outside the scorer's label set is an error,
// as is any scoring failure.
func Evaluate(ctx context.Context, s Scorer, batch []scoring.LabeledRecord) (*Report, *Trace, error) {
	labels := s.Labels()
	recs := make([]scoring.Record, len(batch))
	for i, lr := range batch {
		if !labels.Contains(lr.Label) {
			return nil, nil, fmt.Errorf("evaluate: %w", &scoring.UnknownLabelError{Index: i, Label: lr.Label, Labels: labels})
		}
		recs[i] = lr.Record
	}

	predicted, err := s.ScoreBatch(ctx, recs)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate: %w", err)
	}

	tr := NewTrace(len(batch))
	for i, lr := range batch {
		tr.Record(PredictionRecord{Index: i, Actual: lr.Label, Predicted: predicted[i]})
	}
	return Summarize(labels, tr), tr, nil
}
