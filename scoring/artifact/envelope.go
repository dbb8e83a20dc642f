// Package artifact reads and writes the fitted encoder, scaler and model
// blobs the scoring pipeline is assembled from.
//
// Every blob is a JSON envelope naming its kind, its implementation type and
// the schema columns it was fitted on, around a type-specific payload. A blob
// may be zstd-compressed; Unmarshal detects the frame magic.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FormatVersion is the only envelope version this build reads.
const FormatVersion = 1

// Kind names the pipeline stage an artifact serves.
type Kind string

const (
	KindEncoder Kind = "encoder"
	KindScaler  Kind = "scaler"
	KindModel   Kind = "model"
)

// Kinds lists artifact kinds in pipeline order.
var Kinds = []Kind{KindEncoder, KindScaler, KindModel}

// Envelope is the versioned wrapper around one artifact payload.
type Envelope struct {
	FormatVersion int             `json:"format_version"`
	Kind          Kind            `json:"kind"`
	Type          string          `json:"type"`
	Columns       []string        `json:"columns"`
	CreatedBy     string          `json:"created_by,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Marshal encodes env, zstd-compressing the result when compress is set.
func Marshal(env *Envelope, compressed bool) ([]byte, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", env.Kind, err)
	}
	if !compressed {
		return append(data, '\n'), nil
	}
	return compress(data)
}

// Unmarshal decodes an envelope, decompressing it first if needed. It
// rejects unknown keys, unsupported versions and envelopes without a kind,
// type or payload. The second result reports whether data was compressed.
func Unmarshal(data []byte) (*Envelope, bool, error) {
	compressed := isCompressed(data)
	if compressed {
		var err error
		if data, err = decompress(data); err != nil {
			return nil, true, fmt.Errorf("decompressing artifact: %w", err)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var env Envelope
	if err := dec.Decode(&env); err != nil {
		return nil, compressed, fmt.Errorf("decoding artifact envelope: %w", err)
	}
	if env.FormatVersion != FormatVersion {
		return nil, compressed, fmt.Errorf("unsupported artifact format version %d (want %d)", env.FormatVersion, FormatVersion)
	}
	if env.Kind == "" || env.Type == "" {
		return nil, compressed, fmt.Errorf("artifact envelope missing kind or type")
	}
	if len(env.Payload) == 0 {
		return nil, compressed, fmt.Errorf("%s artifact has no payload", env.Kind)
	}
	return &env, compressed, nil
}
