package telemetry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/churnscore/internal/testutil"
	"github.com/inference-sim/churnscore/scoring"
)

type metric struct {
	name string
	tags []string
}

type fakeEmitter struct {
	mu      sync.Mutex
	counts  []metric
	timings []metric
	fail    error
	closed  bool
}

func (f *fakeEmitter) Count(name string, _ int64, tags []string, _ float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = append(f.counts, metric{name, append([]string(nil), tags...)})
	return f.fail
}

func (f *fakeEmitter) Timing(name string, _ time.Duration, tags []string, _ float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timings = append(f.timings, metric{name, append([]string(nil), tags...)})
	return f.fail
}

func (f *fakeEmitter) Close() error {
	f.closed = true
	return nil
}

func (f *fakeEmitter) countsNamed(name string) []metric {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []metric
	for _, m := range f.counts {
		if m.name == name {
			out = append(out, m)
		}
	}
	return out
}

func TestObserveScore_Success(t *testing.T) {
	em := &fakeEmitter{}
	o := NewObserver(em)

	o.ObserveScore(scoring.Churned, time.Millisecond, nil)

	require.Len(t, em.counts, 1)
	assert.Equal(t, ScoreCount, em.counts[0].name)
	assert.Equal(t, []string{"outcome:ok", "label:churned"}, em.counts[0].tags)
	require.Len(t, em.timings, 1)
	assert.Equal(t, ScoreLatency, em.timings[0].name)
}

func TestObserveScore_ErrorKinds(t *testing.T) {
	tests := []struct {
		err     error
		outcome string
		kind    string
	}{
		{&scoring.SchemaMismatchError{Stage: "record", Missing: []string{"state"}}, "request_error", "schema_mismatch"},
		{fmt.Errorf("wrapped: %w", &scoring.UnknownCategoryError{Field: "state", Value: "ZZ"}), "request_error", "unknown_category"},
		{&scoring.DegenerateFeatureError{Column: "x"}, "error", "degenerate_feature"},
		{scoring.ErrNotLoaded, "error", "not_loaded"},
		{errors.New("boom"), "error", "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			em := &fakeEmitter{}
			NewObserver(em).ObserveScore("", time.Millisecond, tc.err)

			require.Len(t, em.counts, 1)
			assert.Equal(t, ScoreError, em.counts[0].name)
			assert.Equal(t, []string{"outcome:" + tc.outcome, "error_kind:" + tc.kind}, em.counts[0].tags)
		})
	}
}

func TestObserver_EmitFailureIsSwallowed(t *testing.T) {
	em := &fakeEmitter{fail: errors.New("agent unreachable")}
	o := NewObserver(em)

	assert.NotPanics(t, func() {
		o.ObserveScore(scoring.Retained, time.Millisecond, nil)
		o.ObserveFallback("state")
		o.ObserveRequest("POST", "/api/v1/score", 200, time.Millisecond)
	})
	require.NoError(t, o.Close())
	assert.True(t, em.closed)
}

func TestObserver_WiredIntoPipeline_CountsFallbacks(t *testing.T) {
	// GIVEN a fallback-policy pipeline reporting to a fake agent
	em := &fakeEmitter{}
	opts := scoring.EncoderOptions{UnknownPolicy: scoring.PolicyFallback, FallbackValue: scoring.DefaultFallbackValue}
	p := testutil.ChurnPipeline(t, opts, scoring.WithObserver(NewObserver(em)))

	// WHEN a record with an unseen state is scored
	_, err := p.Score(testutil.DemoRecord().With(scoring.FieldState, scoring.Categorical("ZZ")))
	require.NoError(t, err)

	// THEN one fallback for the state field and one successful score are counted
	fb := em.countsNamed(EncoderFallback)
	require.Len(t, fb, 1)
	assert.Equal(t, []string{"field:state"}, fb[0].tags)
	assert.Len(t, em.countsNamed(ScoreCount), 1)
}

func TestGlobalTags(t *testing.T) {
	assert.Equal(t, []string{"env:prod", "service:churnscore"}, GlobalTags("prod"))
}
