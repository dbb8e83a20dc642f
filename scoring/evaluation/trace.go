package evaluation

// Trace collects prediction records in batch order.
type Trace struct {
	Predictions []PredictionRecord
}

// NewTrace creates a Trace with room for n predictions.
func NewTrace(n int) *Trace {
	return &Trace{Predictions: make([]PredictionRecord, 0, n)}
}

// Record appends a prediction record.
func (t *Trace) Record(r PredictionRecord) {
	t.Predictions = append(t.Predictions, r)
}

// Misses returns the records whose prediction was wrong.
func (t *Trace) Misses() []PredictionRecord {
	if t == nil {
		return nil
	}
	var out []PredictionRecord
	for _, r := range t.Predictions {
		if !r.Correct() {
			out = append(out, r)
		}
	}
	return out
}
