package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/churnscore/internal/testutil"
	"github.com/inference-sim/churnscore/scoring"
)

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"State":                  "state",
		"Account Length":         "account_length",
		" international  plan ":  "international_plan",
		"Customer Service Calls": "service_calls",
		"service_calls":          "service_calls",
		"Churn":                  "churn",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestLoadCSV_SampleDataset(t *testing.T) {
	// GIVEN the labeled sample in testdata
	path := testutil.TestdataPath(t, "churn_sample.csv")

	// WHEN loaded against the churn schema
	batch, labeled, err := LoadCSV(path, scoring.ChurnSchema, DefaultLabelColumn)
	require.NoError(t, err)

	// THEN every row is a valid record with a parsed label
	assert.True(t, labeled)
	require.Len(t, batch, 10)
	for i, lr := range batch {
		assert.NoError(t, scoring.ChurnSchema.Validate(lr.Record), "row %d", i+1)
	}
	assert.Equal(t, scoring.Retained, batch[0].Label)
	assert.Equal(t, scoring.Churned, batch[5].Label)
	assert.Equal(t, scoring.ChurnSchema.Names(), batch[0].Record.Names())
	v, _ := batch[0].Record.Get(scoring.FieldTotalDayMinutes)
	assert.Equal(t, 265.1, v.Number())
}

func TestReadCSV_ReordersAndIgnoresExtraColumns(t *testing.T) {
	in := "churn,area code,customer service calls,total day calls,total day minutes,international plan,account length,state\n" +
		"True,415,4,30,100,no,165,IN\n"

	batch, labeled, err := ReadCSV(strings.NewReader(in), scoring.ChurnSchema, DefaultLabelColumn)

	require.NoError(t, err)
	assert.True(t, labeled)
	require.Len(t, batch, 1)
	assert.Equal(t, testutil.DemoRecord().With(scoring.FieldServiceCalls, scoring.Integer(4)), batch[0].Record)
	assert.Equal(t, scoring.Churned, batch[0].Label)
}

func TestReadCSV_UnlabeledFile(t *testing.T) {
	in := "state,account_length,international_plan,total_day_minutes,total_day_calls,service_calls\n" +
		"IN,165,no,100,30,1\n"

	batch, labeled, err := ReadCSV(strings.NewReader(in), scoring.ChurnSchema, DefaultLabelColumn)

	require.NoError(t, err)
	assert.False(t, labeled)
	assert.Equal(t, scoring.Label(""), batch[0].Label)
	assert.Equal(t, []scoring.Record{testutil.DemoRecord()}, Records(batch))
}

func TestReadCSV_MissingColumn(t *testing.T) {
	in := "state,account_length,international_plan,total_day_minutes,total_day_calls\nIN,165,no,100,30\n"

	_, _, err := ReadCSV(strings.NewReader(in), scoring.ChurnSchema, DefaultLabelColumn)

	var sm *scoring.SchemaMismatchError
	require.True(t, errors.As(err, &sm), "expected SchemaMismatchError, got %v", err)
	assert.Equal(t, []string{scoring.FieldServiceCalls}, sm.Missing)
}

func TestReadCSV_BadCells_ReportRowAndColumn(t *testing.T) {
	header := "state,account_length,international_plan,total_day_minutes,total_day_calls,service_calls,churn\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"fractional int", "IN,16.5,no,100,30,1,False", `row 1, column "account_length"`},
		{"non-numeric float", "IN,165,no,lots,30,1,False", `row 1, column "total_day_minutes"`},
		{"empty category", "IN,165,,100,30,1,False", `row 1, column "international_plan"`},
		{"bad label", "IN,165,no,100,30,1,Maybe", `row 1, column "churn"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadCSV(strings.NewReader(header+tc.row+"\n"), scoring.ChurnSchema, DefaultLabelColumn)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestReadCSV_IntegralFloatCellIsInteger(t *testing.T) {
	v, err := parseCell(scoring.KindInteger, "30.0")
	require.NoError(t, err)
	assert.Equal(t, scoring.Integer(30), v)
}
