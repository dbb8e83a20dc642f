package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the raw type of a record value or schema field.
type ValueKind int

const (
	KindCategorical ValueKind = iota
	KindInteger
	KindFloat
)

func (k ValueKind) String() string {
	switch k {
	case KindCategorical:
		return "categorical"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single raw field value. The zero Value is an empty categorical.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// Categorical returns a categorical value.
func Categorical(s string) Value { return Value{kind: KindCategorical, str: s} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{kind: KindInteger, num: float64(i)} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, num: f} }

func (v Value) Kind() ValueKind { return v.kind }

// Str returns the category of a categorical value, or "" otherwise.
func (v Value) Str() string { return v.str }

// Number returns the numeric value, or 0 for categorical values.
func (v Value) Number() float64 { return v.num }

func (v Value) String() string {
	switch v.kind {
	case KindCategorical:
		return v.str
	case KindInteger:
		return strconv.FormatInt(int64(v.num), 10)
	default:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
}

// MarshalJSON writes categorical values as strings and numbers as numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindCategorical {
		return json.Marshal(v.str)
	}
	return []byte(v.String()), nil
}

// UnmarshalJSON accepts a JSON string (categorical) or number. Numbers without
// a fraction or exponent decode as integers.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	parsed, err := valueFromToken(tok)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueFromToken(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case string:
		return Categorical(t), nil
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			i, err := t.Int64()
			if err == nil {
				return Integer(i), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported field value %v (want string or number)", tok)
	}
}

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered set of named raw values, one customer's features before
// any transform. Records are treated as immutable values: methods that change
// a field return a copy.
type Record []Field

// NewRecord returns a record holding a copy of fields.
func NewRecord(fields ...Field) Record {
	out := make(Record, len(fields))
	copy(out, fields)
	return out
}

// Get returns the first value stored under name.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// With returns a copy of r with name set to v, appending the field if absent.
func (r Record) With(name string, v Value) Record {
	out := make(Record, 0, len(r)+1)
	replaced := false
	for _, f := range r {
		if f.Name == name && !replaced {
			out = append(out, Field{Name: name, Value: v})
			replaced = true
			continue
		}
		out = append(out, f)
	}
	if !replaced {
		out = append(out, Field{Name: name, Value: v})
	}
	return out
}

// Without returns a copy of r with every field called name removed.
func (r Record) Without(name string) Record {
	out := make(Record, 0, len(r))
	for _, f := range r {
		if f.Name != name {
			out = append(out, f)
		}
	}
	return out
}

// Names returns field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// MarshalJSON writes the record as a JSON object preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat JSON object, keeping key order. Duplicate keys
// are kept so schema validation can report them.
func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record must be a JSON object")
	}
	var out Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record key must be a string, got %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		v, err := valueFromToken(valTok)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out = append(out, Field{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// LabeledRecord pairs a record with its known outcome, for evaluation.
type LabeledRecord struct {
	Record Record `json:"record"`
	Label  Label  `json:"label"`
}
