// Package encoder provides categorical encoders for the scoring pipeline.
// The Encoder interface is defined in scoring/ (parent package).
package encoder

import (
	"fmt"
	"math"

	"github.com/inference-sim/churnscore/scoring"
)

// TypeOrdinal is the artifact type name of Ordinal.
const TypeOrdinal = "ordinal"

// OrdinalPayload is the serialized form of an Ordinal encoder. Each
// categorical field maps to its vocabulary; a category's code is its
// position in the list.
type OrdinalPayload struct {
	Categories map[string][]string `json:"categories"`
}

// Ordinal replaces categorical fields with their fit-time vocabulary index
// and passes numeric fields through unchanged. It never mutates its input.
type Ordinal struct {
	schema *scoring.Schema
	vocab  []map[string]float64 // per schema column; nil for numeric columns
	opts   scoring.EncoderOptions
}

// NewOrdinal builds an encoder whose vocabularies cover exactly the schema's
// categorical fields.
func NewOrdinal(schema *scoring.Schema, categories map[string][]string, opts scoring.EncoderOptions) (*Ordinal, error) {
	switch opts.UnknownPolicy {
	case scoring.PolicyError, scoring.PolicyFallback:
	case "":
		opts.UnknownPolicy = scoring.PolicyError
	default:
		return nil, fmt.Errorf("encoder: unknown category policy %q", opts.UnknownPolicy)
	}
	if math.IsNaN(opts.FallbackValue) || math.IsInf(opts.FallbackValue, 0) {
		return nil, fmt.Errorf("encoder: fallback value must be finite")
	}

	o := &Ordinal{
		schema: schema,
		vocab:  make([]map[string]float64, schema.Len()),
		opts:   opts,
	}
	for name := range categories {
		i, ok := schema.Index(name)
		if !ok || schema.Field(i).Kind != scoring.KindCategorical {
			return nil, fmt.Errorf("encoder: vocabulary for %q which is not a categorical schema field", name)
		}
	}
	for _, name := range schema.Categorical() {
		cats, ok := categories[name]
		if !ok || len(cats) == 0 {
			return nil, fmt.Errorf("encoder: no vocabulary for categorical field %q", name)
		}
		i, _ := schema.Index(name)
		codes := make(map[string]float64, len(cats))
		for code, c := range cats {
			if _, dup := codes[c]; dup {
				return nil, fmt.Errorf("encoder: duplicate category %q for field %q", c, name)
			}
			codes[c] = float64(code)
		}
		o.vocab[i] = codes
	}
	return o, nil
}

func (o *Ordinal) Width() int { return o.schema.Len() }

// Policy returns the unseen-category policy in force.
func (o *Ordinal) Policy() scoring.UnknownCategoryPolicy { return o.opts.UnknownPolicy }

func (o *Ordinal) Transform(rec scoring.Record) (scoring.EncodedVector, error) {
	return o.TransformObserved(rec, nil)
}

// TransformObserved encodes rec in schema order. Under PolicyFallback an
// unseen category is encoded as the fallback value and reported to
// onFallback; under PolicyError it fails with *scoring.UnknownCategoryError.
func (o *Ordinal) TransformObserved(rec scoring.Record, onFallback func(field string)) (scoring.EncodedVector, error) {
	out := make(scoring.EncodedVector, o.schema.Len())
	for i := range out {
		spec := o.schema.Field(i)
		v, ok := rec.Get(spec.Name)
		if !ok {
			return nil, &scoring.SchemaMismatchError{Stage: "encoder", Missing: []string{spec.Name}}
		}
		codes := o.vocab[i]
		if codes == nil {
			if v.Kind() == scoring.KindCategorical {
				return nil, &scoring.SchemaMismatchError{Stage: "encoder",
					Mismatched: []string{fmt.Sprintf("%s: want %s, got %s", spec.Name, spec.Kind, v.Kind())}}
			}
			out[i] = v.Number()
			continue
		}
		if v.Kind() != scoring.KindCategorical {
			return nil, &scoring.SchemaMismatchError{Stage: "encoder",
				Mismatched: []string{fmt.Sprintf("%s: want %s, got %s", spec.Name, spec.Kind, v.Kind())}}
		}
		code, known := codes[v.Str()]
		if !known {
			if o.opts.UnknownPolicy != scoring.PolicyFallback {
				return nil, &scoring.UnknownCategoryError{Field: spec.Name, Value: v.Str()}
			}
			code = o.opts.FallbackValue
			if onFallback != nil {
				onFallback(spec.Name)
			}
		}
		out[i] = code
	}
	return out, nil
}
