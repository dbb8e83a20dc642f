package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inference-sim/churnscore/scoring"
)

// CreatedBy is stamped into envelopes written by this package.
const CreatedBy = "churnscore"

// NewEnvelope wraps payload as an artifact of the given kind and type, fitted
// on the schema's columns.
func NewEnvelope(kind Kind, typ string, schema *scoring.Schema, payload any) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", kind, err)
	}
	return &Envelope{
		FormatVersion: FormatVersion,
		Kind:          kind,
		Type:          typ,
		Columns:       schema.Names(),
		CreatedBy:     CreatedBy,
		Payload:       raw,
	}, nil
}

// Write stores env at path, creating parent directories. The file is written
// to a temporary name first and renamed, so readers never see a partial blob.
func Write(path string, env *Envelope, compressed bool) error {
	data, err := Marshal(env, compressed)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s artifact: %w", env.Kind, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s artifact: %w", env.Kind, err)
	}
	return nil
}
