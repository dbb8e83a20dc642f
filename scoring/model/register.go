package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/inference-sim/churnscore/scoring"
)

func init() {
	scoring.RegisterClassifier(TypeDecisionTree, func(_ *scoring.Schema, payload []byte) (scoring.Classifier, error) {
		var p TreePayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, fmt.Errorf("decision tree: decoding payload: %w", err)
		}
		return NewDecisionTree(p)
	})
	scoring.RegisterClassifier(TypeLogisticRegression, func(_ *scoring.Schema, payload []byte) (scoring.Classifier, error) {
		var p LogisticPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, fmt.Errorf("logistic regression: decoding payload: %w", err)
		}
		return NewLogisticRegression(p)
	})
}

func decodeStrict(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
