// Package dataset reads churn records from CSV files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/churnscore/scoring"
)

// DefaultLabelColumn is the churn flag column of the churn dataset.
const DefaultLabelColumn = "churn"

// headerAliases maps normalized dataset headers to schema field names.
var headerAliases = map[string]string{
	"customer_service_calls": scoring.FieldServiceCalls,
	"acct_length":            scoring.FieldAccountLength,
	"inter_plan":             scoring.FieldInternationalPlan,
}

// NormalizeHeader lower-cases a column name, joins words with underscores
// and applies the dataset aliases.
func NormalizeHeader(h string) string {
	n := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), "_")
	if alias, ok := headerAliases[n]; ok {
		return alias
	}
	return n
}

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path string, schema *scoring.Schema, labelColumn string) ([]scoring.LabeledRecord, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("opening dataset: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(file, schema, labelColumn)
}

// ReadCSV parses a headed CSV into records in schema order. Every schema field
// must have a column; other columns are ignored. When the header carries
// labelColumn, each row's label is parsed with scoring.ParseLabel and the
// second result is true; otherwise labels are left empty.
func ReadCSV(r io.Reader, schema *scoring.Schema, labelColumn string) ([]scoring.LabeledRecord, bool, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, false, fmt.Errorf("reading CSV header: %w", err)
	}

	// columns[i] is the CSV position of schema field i.
	columns := make([]int, schema.Len())
	for i := range columns {
		columns[i] = -1
	}
	labelAt := -1
	labelColumn = NormalizeHeader(labelColumn)
	for pos, h := range header {
		name := NormalizeHeader(h)
		if labelColumn != "" && name == labelColumn {
			labelAt = pos
			continue
		}
		if i, ok := schema.Index(name); ok {
			if columns[i] >= 0 {
				return nil, false, fmt.Errorf("CSV header names %q twice", name)
			}
			columns[i] = pos
			continue
		}
		logrus.Debugf("dataset: ignoring column %q", h)
	}
	var missing []string
	for i, pos := range columns {
		if pos < 0 {
			missing = append(missing, schema.Field(i).Name)
		}
	}
	if len(missing) > 0 {
		return nil, false, &scoring.SchemaMismatchError{Stage: "dataset", Missing: missing}
	}

	var out []scoring.LabeledRecord
	for row := 1; ; row++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("reading CSV row %d: %w", row, err)
		}
		rec := make(scoring.Record, schema.Len())
		for i, pos := range columns {
			spec := schema.Field(i)
			v, err := parseCell(spec.Kind, cells[pos])
			if err != nil {
				return nil, false, fmt.Errorf("CSV row %d, column %q: %w", row, spec.Name, err)
			}
			rec[i] = scoring.Field{Name: spec.Name, Value: v}
		}
		lr := scoring.LabeledRecord{Record: rec}
		if labelAt >= 0 {
			if lr.Label, err = scoring.ParseLabel(cells[labelAt]); err != nil {
				return nil, false, fmt.Errorf("CSV row %d, column %q: %w", row, labelColumn, err)
			}
		}
		out = append(out, lr)
	}
	return out, labelAt >= 0, nil
}

// Records drops the labels of a batch.
func Records(batch []scoring.LabeledRecord) []scoring.Record {
	out := make([]scoring.Record, len(batch))
	for i, lr := range batch {
		out[i] = lr.Record
	}
	return out
}

func parseCell(kind scoring.ValueKind, cell string) (scoring.Value, error) {
	cell = strings.TrimSpace(cell)
	switch kind {
	case scoring.KindInteger:
		if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return scoring.Integer(i), nil
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return scoring.Value{}, fmt.Errorf("%q is not an integer", cell)
		}
		return scoring.Integer(int64(f)), nil
	case scoring.KindFloat:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return scoring.Value{}, fmt.Errorf("%q is not a finite number", cell)
		}
		return scoring.Float(f), nil
	default:
		if cell == "" {
			return scoring.Value{}, fmt.Errorf("empty category")
		}
		return scoring.Categorical(cell), nil
	}
}
