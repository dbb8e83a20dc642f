// Package scaler provides feature scalers for the scoring pipeline.
// The Scaler interface is defined in scoring/ (parent package).
package scaler

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/churnscore/scoring"
)

// TypeStandard is the artifact type name of Standard.
const TypeStandard = "standard"

// DType is the floating-point precision the scaler was fitted in.
type DType string

const (
	Float64 DType = "float64"
	Float32 DType = "float32"
)

// StandardPayload is the serialized form of a Standard scaler.
type StandardPayload struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
	DType DType     `json:"dtype,omitempty"`
}

// Standard applies (x - mean) / scale per column with statistics frozen at
// fit time.
type Standard struct {
	columns []string
	mean    []float64
	scale   []float64
	dtype   DType
}

// NewStandard validates fitted statistics. A zero scale means the column was
// constant at fit time; that is a bad fit and fails construction with
// *scoring.DegenerateFeatureError so the service never starts on it.
func NewStandard(columns []string, mean, scale []float64, dtype DType) (*Standard, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("scaler: mean is empty")
	}
	if len(mean) != len(scale) || len(mean) != len(columns) {
		return nil, fmt.Errorf("scaler: mean, scale and columns lengths differ (%d, %d, %d)", len(mean), len(scale), len(columns))
	}
	switch dtype {
	case "":
		dtype = Float64
	case Float64, Float32:
	default:
		return nil, fmt.Errorf("scaler: unsupported dtype %q", dtype)
	}
	if err := validateStats("mean", mean); err != nil {
		return nil, err
	}
	if err := validateStats("scale", scale); err != nil {
		return nil, err
	}
	for i, s := range scale {
		if s == 0 {
			return nil, &scoring.DegenerateFeatureError{Column: columns[i], Index: i}
		}
	}
	return &Standard{
		columns: append([]string(nil), columns...),
		mean:    append([]float64(nil), mean...),
		scale:   append([]float64(nil), scale...),
		dtype:   dtype,
	}, nil
}

func validateStats(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) {
			return fmt.Errorf("scaler: %s[%d] is NaN", name, i)
		}
		if math.IsInf(v, 0) {
			return fmt.Errorf("scaler: %s[%d] is Inf", name, i)
		}
	}
	return nil
}

func (s *Standard) Width() int { return len(s.mean) }

func (s *Standard) DType() DType { return s.dtype }

// Transform returns a new normalized vector; v is left untouched.
func (s *Standard) Transform(v scoring.EncodedVector) (scoring.NormalizedVector, error) {
	if len(v) != len(s.mean) {
		return nil, &scoring.SchemaMismatchError{Stage: "scaler", Want: len(s.mean), Got: len(v)}
	}
	for i, sc := range s.scale {
		if sc == 0 {
			return nil, &scoring.DegenerateFeatureError{Column: s.columns[i], Index: i}
		}
	}
	out := make([]float64, len(v))
	if s.dtype == Float32 {
		// float32 storage, float64 arithmetic, rounded after each step.
		for i, x := range v {
			d := float32(float64(float32(x)) - s.mean[i])
			out[i] = float64(float32(float64(d) / s.scale[i]))
		}
		return scoring.NormalizedVector(out), nil
	}
	floats.SubTo(out, v, s.mean)
	floats.Div(out, s.scale)
	return scoring.NormalizedVector(out), nil
}
