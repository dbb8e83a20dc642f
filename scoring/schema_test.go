package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoFields() []Field {
	return []Field{
		{Name: FieldState, Value: Categorical("IN")},
		{Name: FieldAccountLength, Value: Integer(165)},
		{Name: FieldInternationalPlan, Value: Categorical("no")},
		{Name: FieldTotalDayMinutes, Value: Float(100)},
		{Name: FieldTotalDayCalls, Value: Integer(30)},
		{Name: FieldServiceCalls, Value: Integer(1)},
	}
}

func TestNewSchema_Rejects(t *testing.T) {
	_, err := NewSchema()
	assert.Error(t, err)
	_, err = NewSchema(FieldSpec{Name: ""})
	assert.Error(t, err)
	_, err = NewSchema(FieldSpec{Name: "a"}, FieldSpec{Name: "a", Kind: KindFloat})
	assert.Error(t, err)
}

func TestChurnSchema_ColumnOrder(t *testing.T) {
	assert.Equal(t, []string{
		"state", "account_length", "international_plan", "total_day_minutes", "total_day_calls", "service_calls",
	}, ChurnSchema.Names())
	assert.Equal(t, []string{"state", "international_plan"}, ChurnSchema.Categorical())
	assert.True(t, ChurnSchema.SameColumns(ChurnSchema.Names()))
	assert.False(t, ChurnSchema.SameColumns(ChurnSchema.Names()[:5]))
}

func TestValidate_AcceptsAnyFieldOrder(t *testing.T) {
	fields := demoFields()
	reversed := make([]Field, len(fields))
	for i, f := range fields {
		reversed[len(fields)-1-i] = f
	}

	assert.NoError(t, ChurnSchema.Validate(NewRecord(fields...)))
	assert.NoError(t, ChurnSchema.Validate(NewRecord(reversed...)))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	// GIVEN a record missing one field, with an extra one, a duplicate and a type error
	rec := NewRecord(demoFields()...).
		Without(FieldServiceCalls).
		With("area_code", Integer(415)).
		With(FieldAccountLength, Categorical("long"))
	rec = append(rec, Field{Name: FieldState, Value: Categorical("OH")})

	// WHEN validated
	err := ChurnSchema.Validate(rec)

	// THEN a single SchemaMismatchError lists all of them
	var sm *SchemaMismatchError
	require.True(t, errors.As(err, &sm), "expected SchemaMismatchError, got %v", err)
	assert.Equal(t, "record", sm.Stage)
	assert.Equal(t, []string{FieldServiceCalls}, sm.Missing)
	assert.Equal(t, []string{"area_code"}, sm.Extra)
	assert.Equal(t, []string{FieldState}, sm.Duplicate)
	require.Len(t, sm.Mismatched, 1)
	assert.Contains(t, sm.Mismatched[0], FieldAccountLength)
	assert.True(t, IsRequestError(err))
}

func TestValidate_NumericCompatibility(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value Value
		ok    bool
	}{
		{"integral float for int field", FieldAccountLength, Float(165), true},
		{"fractional float for int field", FieldAccountLength, Float(165.5), false},
		{"int for float field", FieldTotalDayMinutes, Integer(100), true},
		{"NaN for float field", FieldTotalDayMinutes, Float(math.NaN()), false},
		{"Inf for float field", FieldTotalDayMinutes, Float(math.Inf(1)), false},
		{"number for categorical", FieldState, Integer(3), false},
		{"string for int field", FieldServiceCalls, Categorical("1"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := NewRecord(demoFields()...).With(tc.field, tc.value)
			err := ChurnSchema.Validate(rec)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestIsRequestError(t *testing.T) {
	assert.True(t, IsRequestError(&UnknownCategoryError{Field: "state", Value: "ZZ"}))
	assert.True(t, IsRequestError(&BatchError{Index: 3, Err: &SchemaMismatchError{Stage: "record"}}))
	assert.False(t, IsRequestError(&DegenerateFeatureError{Column: "x"}))
	assert.False(t, IsRequestError(ErrNotLoaded))
}
