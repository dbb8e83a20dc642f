// register.go wires encoder constructors into the scoring package's artifact
// registry. This init() runs when any package imports scoring/encoder,
// breaking the import cycle between scoring/ (interface owner) and
// scoring/encoder/ (implementation).
package encoder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/inference-sim/churnscore/scoring"
)

func init() {
	scoring.RegisterEncoder(TypeOrdinal, func(schema *scoring.Schema, payload []byte, opts scoring.EncoderOptions) (scoring.Encoder, error) {
		var p OrdinalPayload
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("encoder: decoding %s payload: %w", TypeOrdinal, err)
		}
		return NewOrdinal(schema, p.Categories, opts)
	})
}
