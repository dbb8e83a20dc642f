// Package testutil provides shared test infrastructure for the scoring
// packages: the churn demo artifacts, records built from the demo form, and
// access to the repository testdata directory.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/inference-sim/churnscore/scoring"
	"github.com/inference-sim/churnscore/scoring/artifact"
	"github.com/inference-sim/churnscore/scoring/encoder"
	"github.com/inference-sim/churnscore/scoring/model"
	"github.com/inference-sim/churnscore/scoring/scaler"
)

// Fitted statistics of the demo scaler, in ChurnSchema column order.
var (
	ScalerMean  = []float64{2, 100, 0.1, 180, 100, 1.5}
	ScalerScale = []float64{1.4, 40, 0.3, 54, 20, 1.3}
)

// EncoderPayload is the demo vocabulary. Codes follow list position.
func EncoderPayload() encoder.OrdinalPayload {
	return encoder.OrdinalPayload{Categories: map[string][]string{
		scoring.FieldState:             {"CA", "IN", "NY", "OH", "TX"},
		scoring.FieldInternationalPlan: {"no", "yes"},
	}}
}

func ScalerPayload() scaler.StandardPayload {
	return scaler.StandardPayload{Mean: ScalerMean, Scale: ScalerScale}
}

// TreePayload is a three-leaf tree: more than 3 service calls is churn;
// otherwise more than 264.5 day minutes is churn; everything else is retained.
// Thresholds are expressed on the scaled axis.
func TreePayload() model.TreePayload {
	return model.TreePayload{
		NFeatures:     6,
		Classes:       []string{"False", "True"},
		ChildrenLeft:  []int{1, 2, -1, -1, -1},
		ChildrenRight: []int{4, 3, -1, -1, -1},
		Feature:       []int{5, 3, -2, -2, -2},
		Threshold:     []float64{(3.5 - 1.5) / 1.3, (264.5 - 180) / 54, -2, -2, -2},
		Value:         [][]float64{{129, 35}, {126, 18}, {120, 4}, {6, 14}, {3, 17}},
	}
}

// WriteChurnArtifacts writes the demo encoder, scaler and model into dir and
// returns their layout.
func WriteChurnArtifacts(t *testing.T, dir string, compressed bool) artifact.Layout {
	t.Helper()
	layout := artifact.DefaultLayout(dir)
	blobs := []struct {
		kind    artifact.Kind
		typ     string
		payload any
	}{
		{artifact.KindEncoder, encoder.TypeOrdinal, EncoderPayload()},
		{artifact.KindScaler, scaler.TypeStandard, ScalerPayload()},
		{artifact.KindModel, model.TypeDecisionTree, TreePayload()},
	}
	for _, b := range blobs {
		env, err := artifact.NewEnvelope(b.kind, b.typ, scoring.ChurnSchema, b.payload)
		if err != nil {
			t.Fatalf("building %s envelope: %v", b.kind, err)
		}
		if err := artifact.Write(layout.Path(b.kind), env, compressed); err != nil {
			t.Fatalf("writing %s artifact: %v", b.kind, err)
		}
	}
	return layout
}

// ChurnPipeline loads the demo artifacts from a temp dir with the given
// encoder options.
func ChurnPipeline(t *testing.T, encOpts scoring.EncoderOptions, opts ...scoring.Option) *scoring.Pipeline {
	t.Helper()
	layout := WriteChurnArtifacts(t, t.TempDir(), false)
	p, err := artifact.LoadPipeline(layout, scoring.ChurnSchema, encOpts, opts...)
	if err != nil {
		t.Fatalf("loading churn pipeline: %v", err)
	}
	return p
}

// ChurnRecord builds a record in schema order.
func ChurnRecord(state string, accountLength int64, plan string, dayMinutes float64, dayCalls, serviceCalls int64) scoring.Record {
	return scoring.NewRecord(
		scoring.Field{Name: scoring.FieldState, Value: scoring.Categorical(state)},
		scoring.Field{Name: scoring.FieldAccountLength, Value: scoring.Integer(accountLength)},
		scoring.Field{Name: scoring.FieldInternationalPlan, Value: scoring.Categorical(plan)},
		scoring.Field{Name: scoring.FieldTotalDayMinutes, Value: scoring.Float(dayMinutes)},
		scoring.Field{Name: scoring.FieldTotalDayCalls, Value: scoring.Integer(dayCalls)},
		scoring.Field{Name: scoring.FieldServiceCalls, Value: scoring.Integer(serviceCalls)},
	)
}

// DemoRecord is the default of the single-customer form: a retained customer.
func DemoRecord() scoring.Record {
	return ChurnRecord("IN", 165, "no", 100, 30, 1)
}

// LabeledBatch returns records whose labels the demo tree predicts correctly
// except the last, a churned customer the tree calls retained.
func LabeledBatch() []scoring.LabeledRecord {
	return []scoring.LabeledRecord{
		{Record: DemoRecord(), Label: scoring.Retained},
		{Record: ChurnRecord("CA", 100, "yes", 150, 90, 0), Label: scoring.Retained},
		{Record: ChurnRecord("NY", 80, "no", 300, 110, 2), Label: scoring.Churned},
		{Record: ChurnRecord("OH", 120, "no", 120, 100, 5), Label: scoring.Churned},
		{Record: ChurnRecord("TX", 60, "yes", 200, 95, 1), Label: scoring.Churned},
	}
}

// TestdataPath resolves name inside the repository's testdata directory.
// The path is resolved relative to this source file:
// internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("testdata %s: %v", name, err)
	}
	return path
}
