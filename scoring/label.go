package scoring

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Label is a prediction outcome drawn from a closed LabelSet.
type Label string

const (
	Retained Label = "retained"
	Churned  Label = "churned"
)

// LabelSet is a closed, ordered set of labels. Its order is the row and
// column order of every confusion matrix built over it.
type LabelSet []Label

// ChurnLabels orders the negative class first, matching the sorted
// False/True classes of the fitted churn model.
var ChurnLabels = LabelSet{Retained, Churned}

// Index returns the position of l, or -1 if l is not in the set.
func (s LabelSet) Index(l Label) int {
	for i, x := range s {
		if x == l {
			return i
		}
	}
	return -1
}

func (s LabelSet) Contains(l Label) bool { return s.Index(l) >= 0 }

var labelAliases = map[string]Label{
	"retained": Retained,
	"loyal":    Retained,
	"false":    Retained,
	"0":        Retained,
	"no":       Retained,
	"churned":  Churned,
	"churn":    Churned,
	"true":     Churned,
	"1":        Churned,
	"yes":      Churned,
}

// ParseLabel maps a label name, or one of the dataset's spellings of the churn
// flag (True/False, 1/0), to a Label.
func ParseLabel(s string) (Label, error) {
	if l, ok := labelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return "", fmt.Errorf("unknown label %q", s)
}

// UnmarshalJSON accepts any spelling ParseLabel does, plus JSON booleans, so
// labeled records decode the same way from a request body as from a CSV.
func (l *Label) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case bool:
		s = fmt.Sprint(v)
	default:
		return fmt.Errorf("label must be a string or boolean, got %s", b)
	}
	parsed, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Verdict renders a label as the message shown to an operator.
func Verdict(l Label) string {
	if l == Churned {
		return "This customer is a churn customer."
	}
	return "This customer is a loyal customer."
}
