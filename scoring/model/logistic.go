package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/churnscore/scoring"
)

// TypeLogisticRegression is the artifact type name of LogisticRegression.
const TypeLogisticRegression = "logistic_regression"

const defaultThreshold = 0.5

// LogisticPayload is the serialized form of a binary LogisticRegression.
// A nil Threshold means 0.5.
type LogisticPayload struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	Classes   []string  `json:"classes"`
	Threshold *float64  `json:"threshold,omitempty"`
}

// LogisticRegression predicts Classes[1] when sigmoid(coef·x + intercept)
// reaches the threshold, Classes[0] otherwise.
type LogisticRegression struct {
	coef      []float64
	intercept float64
	classes   scoring.LabelSet
	threshold float64
}

func NewLogisticRegression(p LogisticPayload) (*LogisticRegression, error) {
	classes, err := parseClasses(p.Classes)
	if err != nil {
		return nil, err
	}
	if len(classes) != 2 {
		return nil, fmt.Errorf("logistic regression: binary model needs 2 classes, got %d", len(classes))
	}
	if len(p.Coef) == 0 {
		return nil, fmt.Errorf("logistic regression: coef is empty")
	}
	for i, c := range p.Coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("logistic regression: coef[%d] is not finite", i)
		}
	}
	if math.IsNaN(p.Intercept) || math.IsInf(p.Intercept, 0) {
		return nil, fmt.Errorf("logistic regression: intercept is not finite")
	}
	threshold := defaultThreshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}
	if !(threshold > 0 && threshold < 1) {
		return nil, fmt.Errorf("logistic regression: threshold must be in (0, 1), got %f", threshold)
	}
	return &LogisticRegression{
		coef:      append([]float64(nil), p.Coef...),
		intercept: p.Intercept,
		classes:   classes,
		threshold: threshold,
	}, nil
}

func (m *LogisticRegression) Width() int                { return len(m.coef) }
func (m *LogisticRegression) Classes() scoring.LabelSet { return m.classes }

// Probability returns the modelled probability of Classes[1].
func (m *LogisticRegression) Probability(v scoring.NormalizedVector) (float64, error) {
	if len(v) != len(m.coef) {
		return 0, &scoring.SchemaMismatchError{Stage: "model", Want: len(m.coef), Got: len(v)}
	}
	z := floats.Dot(m.coef, v) + m.intercept
	return 1 / (1 + math.Exp(-z)), nil
}

func (m *LogisticRegression) Predict(v scoring.NormalizedVector) (scoring.Label, error) {
	p, err := m.Probability(v)
	if err != nil {
		return "", err
	}
	if p >= m.threshold {
		return m.classes[1], nil
	}
	return m.classes[0], nil
}
