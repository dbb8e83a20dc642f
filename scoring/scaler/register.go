package scaler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/inference-sim/churnscore/scoring"
)

func init() {
	scoring.RegisterScaler(TypeStandard, func(schema *scoring.Schema, payload []byte) (scoring.Scaler, error) {
		var p StandardPayload
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("scaler: decoding %s payload: %w", TypeStandard, err)
		}
		return NewStandard(schema.Names(), p.Mean, p.Scale, p.DType)
	})
}
