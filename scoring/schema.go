package scoring

import (
	"fmt"
	"math"
	"slices"
)

// Churn schema field names, in fitted column order.
const (
	FieldState             = "state"
	FieldAccountLength     = "account_length"
	FieldInternationalPlan = "international_plan"
	FieldTotalDayMinutes   = "total_day_minutes"
	FieldTotalDayCalls     = "total_day_calls"
	FieldServiceCalls      = "service_calls"
)

// ChurnSchema is the six-field schema the churn artifacts are fitted against.
var ChurnSchema = MustSchema(
	FieldSpec{Name: FieldState, Kind: KindCategorical},
	FieldSpec{Name: FieldAccountLength, Kind: KindInteger},
	FieldSpec{Name: FieldInternationalPlan, Kind: KindCategorical},
	FieldSpec{Name: FieldTotalDayMinutes, Kind: KindFloat},
	FieldSpec{Name: FieldTotalDayCalls, Kind: KindInteger},
	FieldSpec{Name: FieldServiceCalls, Kind: KindInteger},
)

// FieldSpec names one schema column and its raw type.
type FieldSpec struct {
	Name string
	Kind ValueKind
}

// Schema is the ordered set of fields a pipeline was fitted against. Column
// i of every vector produced downstream corresponds to field i.
type Schema struct {
	fields []FieldSpec
	index  map[string]int
}

// NewSchema builds a schema, rejecting empty and duplicate field names.
func NewSchema(fields ...FieldSpec) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema: at least one field required")
	}
	s := &Schema{
		fields: make([]FieldSpec, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d has empty name", i)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error, for package-level schemas.
func MustSchema(fields ...FieldSpec) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Len() int { return len(s.fields) }

// Field returns the i-th field spec.
func (s *Schema) Field(i int) FieldSpec { return s.fields[i] }

// Index returns the column position of name.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Names returns field names in column order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Categorical returns the names of categorical fields in column order.
func (s *Schema) Categorical() []string {
	var names []string
	for _, f := range s.fields {
		if f.Kind == KindCategorical {
			names = append(names, f.Name)
		}
	}
	return names
}

// SameColumns reports whether cols names exactly the schema's fields in order.
func (s *Schema) SameColumns(cols []string) bool {
	return slices.Equal(s.Names(), cols)
}

// Validate checks that rec carries exactly the schema's fields, each once and
// with a compatible type. Every problem is reported in a single
// SchemaMismatchError so callers see the full picture at once.
//
// Integer fields accept floats with no fractional part; float fields accept
// integers. Field order within rec is not significant: downstream stages read
// values by name and emit them in schema order.
func (s *Schema) Validate(rec Record) error {
	mismatch := &SchemaMismatchError{Stage: "record"}
	seen := make(map[string]bool, len(rec))
	for _, f := range rec {
		i, known := s.index[f.Name]
		if !known {
			mismatch.Extra = append(mismatch.Extra, f.Name)
			continue
		}
		if seen[f.Name] {
			mismatch.Duplicate = append(mismatch.Duplicate, f.Name)
			continue
		}
		seen[f.Name] = true
		if !compatible(s.fields[i].Kind, f.Value) {
			mismatch.Mismatched = append(mismatch.Mismatched,
				fmt.Sprintf("%s: want %s, got %s", f.Name, s.fields[i].Kind, f.Value.Kind()))
		}
	}
	for _, f := range s.fields {
		if !seen[f.Name] {
			mismatch.Missing = append(mismatch.Missing, f.Name)
		}
	}
	if mismatch.empty() {
		return nil
	}
	return mismatch
}

func compatible(want ValueKind, v Value) bool {
	switch want {
	case KindCategorical:
		return v.Kind() == KindCategorical
	case KindInteger:
		if v.Kind() == KindInteger {
			return true
		}
		return v.Kind() == KindFloat && v.Number() == math.Trunc(v.Number()) && !math.IsInf(v.Number(), 0)
	case KindFloat:
		if v.Kind() == KindInteger {
			return true
		}
		return v.Kind() == KindFloat && !math.IsNaN(v.Number()) && !math.IsInf(v.Number(), 0)
	}
	return false
}
