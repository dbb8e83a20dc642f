package evaluation

import "github.com/inference-sim/churnscore/scoring"

// Report aggregates a Trace over a closed label set.
type Report struct {
	Labels          scoring.LabelSet      `json:"labels" yaml:"labels"`
	ClassCounts     map[scoring.Label]int `json:"class_counts" yaml:"class_counts"`         // true label → count
	PredictedCounts map[scoring.Label]int `json:"predicted_counts" yaml:"predicted_counts"` // predicted label → count
	// ConfusionMatrix[i][j] counts records with true label Labels[i]
	// predicted as Labels[j].
	ConfusionMatrix [][]int      `json:"confusion_matrix" yaml:"confusion_matrix"`
	Classes         []ClassStats `json:"classes" yaml:"classes"`
	Total           int          `json:"total" yaml:"total"`
	Correct         int          `json:"correct" yaml:"correct"`
	Accuracy        float64      `json:"accuracy" yaml:"accuracy"`
	ChurnRate       float64      `json:"churn_rate" yaml:"churn_rate"` // share of true churned
	Skipped         int          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// ClassStats holds one-vs-rest precision and recall for a label. Both are 0
// when undefined.
type ClassStats struct {
	Label     scoring.Label `json:"label" yaml:"label"`
	Support   int           `json:"support" yaml:"support"`
	Precision float64       `json:"precision" yaml:"precision"`
	Recall    float64       `json:"recall" yaml:"recall"`
}

// Summarize computes the report for tr over labels.
// Safe for nil or empty traces (returns zero counts and an all-zero matrix).
// Records carrying a label outside the set are counted in Skipped and left
// out of every other figure.
func Summarize(labels scoring.LabelSet, tr *Trace) *Report {
	r := &Report{
		Labels:          labels,
		ClassCounts:     make(map[scoring.Label]int, len(labels)),
		PredictedCounts: make(map[scoring.Label]int, len(labels)),
		ConfusionMatrix: make([][]int, len(labels)),
	}
	for i, l := range labels {
		r.ConfusionMatrix[i] = make([]int, len(labels))
		r.ClassCounts[l] = 0
		r.PredictedCounts[l] = 0
	}
	if tr != nil {
		for _, p := range tr.Predictions {
			i, j := labels.Index(p.Actual), labels.Index(p.Predicted)
			if i < 0 || j < 0 {
				r.Skipped++
				continue
			}
			r.ConfusionMatrix[i][j]++
			r.ClassCounts[p.Actual]++
			r.PredictedCounts[p.Predicted]++
			r.Total++
			if i == j {
				r.Correct++
			}
		}
	}

	r.Classes = make([]ClassStats, len(labels))
	for i, l := range labels {
		cs := ClassStats{Label: l, Support: r.ClassCounts[l]}
		if cs.Support > 0 {
			cs.Recall = float64(r.ConfusionMatrix[i][i]) / float64(cs.Support)
		}
		if n := r.PredictedCounts[l]; n > 0 {
			cs.Precision = float64(r.ConfusionMatrix[i][i]) / float64(n)
		}
		r.Classes[i] = cs
	}
	if r.Total > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Total)
		r.ChurnRate = float64(r.ClassCounts[scoring.Churned]) / float64(r.Total)
	}
	return r
}
