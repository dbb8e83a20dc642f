package scoring

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pipeline sequences Encoder → Scaler → Classifier over immutable artifacts.
// It holds no mutable state after construction, so any number of goroutines
// may call Score and ScoreBatch concurrently.
type Pipeline struct {
	schema      *Schema
	labels      LabelSet
	encoder     Encoder
	scaler      Scaler
	classifier  Classifier
	observer    Observer
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver routes score outcomes and encoder fallbacks to o.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithConcurrency bounds the goroutines ScoreBatch uses. Values below 1 keep
// the default of GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLabels replaces the closed label set (default ChurnLabels).
func WithLabels(labels LabelSet) Option {
	return func(p *Pipeline) {
		if len(labels) > 0 {
			p.labels = labels
		}
	}
}

// NewPipeline checks that every stage agrees on the schema width and that the
// classifier only emits labels from the pipeline's label set.
func NewPipeline(schema *Schema, set ArtifactSet, opts ...Option) (*Pipeline, error) {
	if schema == nil {
		return nil, fmt.Errorf("pipeline: schema required")
	}
	if set.Encoder == nil || set.Scaler == nil || set.Classifier == nil {
		return nil, fmt.Errorf("pipeline: encoder, scaler and classifier are all required")
	}
	p := &Pipeline{
		schema:      schema,
		labels:      ChurnLabels,
		encoder:     set.Encoder,
		scaler:      set.Scaler,
		classifier:  set.Classifier,
		observer:    NopObserver{},
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}

	width := schema.Len()
	stages := []struct {
		name  string
		width int
	}{
		{"encoder", set.Encoder.Width()},
		{"scaler", set.Scaler.Width()},
		{"model", set.Classifier.Width()},
	}
	for _, st := range stages {
		if st.width != width {
			return nil, &SchemaMismatchError{Stage: st.name, Want: width, Got: st.width}
		}
	}
	for _, c := range set.Classifier.Classes() {
		if !p.labels.Contains(c) {
			return nil, fmt.Errorf("pipeline: model class %q is not in label set %v", c, p.labels)
		}
	}
	return p, nil
}

func (p *Pipeline) Schema() *Schema  { return p.schema }
func (p *Pipeline) Labels() LabelSet { return p.labels }

// Score validates rec against the schema, then encodes, scales and classifies
// it. Repeated calls with the same record return the same label.
func (p *Pipeline) Score(rec Record) (Label, error) {
	start := time.Now()
	label, err := p.score(rec)
	p.observer.ObserveScore(label, time.Since(start), err)
	return label, err
}

func (p *Pipeline) score(rec Record) (Label, error) {
	if err := p.schema.Validate(rec); err != nil {
		return "", err
	}
	var (
		encoded EncodedVector
		err     error
	)
	if fe, ok := p.encoder.(FallbackEncoder); ok {
		encoded, err = fe.TransformObserved(rec, p.observer.ObserveFallback)
	} else {
		encoded, err = p.encoder.Transform(rec)
	}
	if err != nil {
		return "", err
	}
	normalized, err := p.scaler.Transform(encoded)
	if err != nil {
		return "", err
	}
	return p.classifier.Predict(normalized)
}

// ScoreBatch scores recs in parallel and returns labels in input order, so
// labels[i] is Score(recs[i]). The first failure cancels the remaining work
// and is returned as a *BatchError carrying the record index. ctx bounds the
// whole batch.
func (p *Pipeline) ScoreBatch(ctx context.Context, recs []Record) ([]Label, error) {
	labels := make([]Label, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, rec := range recs {
		if gctx.Err() != nil {
			break
		}
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			label, err := p.Score(rec)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			labels[i] = label
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("score batch: %w", err)
	}
	return labels, nil
}
