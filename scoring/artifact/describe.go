package artifact

import (
	"errors"
	"os"
)

// Description summarizes one artifact blob without building its stage.
type Description struct {
	Kind       Kind     `json:"kind" yaml:"kind"`
	Path       string   `json:"path" yaml:"path"`
	Type       string   `json:"type,omitempty" yaml:"type,omitempty"`
	Columns    []string `json:"columns,omitempty" yaml:"columns,omitempty"`
	CreatedBy  string   `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	Compressed bool     `json:"compressed" yaml:"compressed"`
	SizeBytes  int      `json:"size_bytes" yaml:"size_bytes"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Describe reads the envelope of every artifact in layout. Unreadable blobs
// are still described, with Error set; the returned error joins those
// failures.
func Describe(layout Layout) ([]Description, error) {
	out := make([]Description, 0, len(Kinds))
	var errs []error
	for _, kind := range Kinds {
		d := Description{Kind: kind, Path: layout.Path(kind)}
		data, err := os.ReadFile(d.Path)
		if err == nil {
			d.SizeBytes = len(data)
			var env *Envelope
			env, d.Compressed, err = Unmarshal(data)
			if err == nil {
				d.Type, d.Columns, d.CreatedBy = env.Type, env.Columns, env.CreatedBy
			}
		}
		if err != nil {
			d.Error = err.Error()
			errs = append(errs, err)
		}
		out = append(out, d)
	}
	return out, errors.Join(errs...)
}
