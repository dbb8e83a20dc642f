package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/churnscore/scoring"
)

// Layout locates the three artifact files. Relative file names resolve
// against Dir.
type Layout struct {
	Dir     string
	Encoder string
	Scaler  string
	Model   string
}

// DefaultLayout returns the default file names under dir.
func DefaultLayout(dir string) Layout {
	return Layout{Dir: dir, Encoder: "encoder.artifact", Scaler: "scaler.artifact", Model: "model.artifact"}
}

// LayoutFromConfig builds a Layout from the artifacts config section.
func LayoutFromConfig(c scoring.ArtifactsConfig) Layout {
	return Layout{Dir: c.Dir, Encoder: c.Encoder, Scaler: c.Scaler, Model: c.Model}
}

// Path returns the file path of the artifact of kind k.
func (l Layout) Path(k Kind) string {
	var name string
	switch k {
	case KindEncoder:
		name = l.Encoder
	case KindScaler:
		name = l.Scaler
	case KindModel:
		name = l.Model
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.Dir, name)
}

// Load reads all three artifacts and builds their stages against schema.
// It attempts every artifact before returning so that one error names every
// blob that failed; each failure is an *scoring.ArtifactLoadError.
func Load(layout Layout, schema *scoring.Schema, opts scoring.EncoderOptions) (*scoring.ArtifactSet, error) {
	set := &scoring.ArtifactSet{}
	var errs []error

	for _, kind := range Kinds {
		path := layout.Path(kind)
		env, err := readEnvelope(path, kind, schema)
		if err != nil {
			errs = append(errs, &scoring.ArtifactLoadError{Name: string(kind), Path: path, Err: err})
			continue
		}
		switch kind {
		case KindEncoder:
			set.Encoder, err = scoring.NewEncoder(env.Type, schema, env.Payload, opts)
		case KindScaler:
			set.Scaler, err = scoring.NewScaler(env.Type, schema, env.Payload)
		case KindModel:
			set.Classifier, err = scoring.NewClassifier(env.Type, schema, env.Payload)
		}
		if err != nil {
			errs = append(errs, &scoring.ArtifactLoadError{Name: string(kind), Path: path, Err: err})
			continue
		}
		logrus.Debugf("loaded %s artifact %s (type %s)", kind, path, env.Type)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

// LoadPipeline loads the artifacts and assembles a pipeline over them.
func LoadPipeline(layout Layout, schema *scoring.Schema, encOpts scoring.EncoderOptions, opts ...scoring.Option) (*scoring.Pipeline, error) {
	set, err := Load(layout, schema, encOpts)
	if err != nil {
		return nil, err
	}
	return scoring.NewPipeline(schema, *set, opts...)
}

func readEnvelope(path string, kind Kind, schema *scoring.Schema) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	env, _, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if env.Kind != kind {
		return nil, fmt.Errorf("blob holds a %s artifact, want %s", env.Kind, kind)
	}
	if !schema.SameColumns(env.Columns) {
		return nil, &scoring.SchemaMismatchError{
			Stage: string(kind),
			Want:  schema.Len(),
			Got:   len(env.Columns),
			Extra: columnDrift(schema.Names(), env.Columns),
		}
	}
	return env, nil
}

// columnDrift lists artifact columns that are absent from or out of place in
// the serving schema.
func columnDrift(want, got []string) []string {
	var drift []string
	for i, c := range got {
		if i >= len(want) || want[i] != c {
			drift = append(drift, c)
		}
	}
	return drift
}
