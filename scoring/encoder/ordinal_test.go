package encoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/churnscore/scoring"
)

func testCategories() map[string][]string {
	return map[string][]string{
		scoring.FieldState:             {"CA", "IN", "NY"},
		scoring.FieldInternationalPlan: {"no", "yes"},
	}
}

func testRecord(state string) scoring.Record {
	return scoring.NewRecord(
		scoring.Field{Name: scoring.FieldState, Value: scoring.Categorical(state)},
		scoring.Field{Name: scoring.FieldAccountLength, Value: scoring.Integer(165)},
		scoring.Field{Name: scoring.FieldInternationalPlan, Value: scoring.Categorical("no")},
		scoring.Field{Name: scoring.FieldTotalDayMinutes, Value: scoring.Float(100.5)},
		scoring.Field{Name: scoring.FieldTotalDayCalls, Value: scoring.Integer(30)},
		scoring.Field{Name: scoring.FieldServiceCalls, Value: scoring.Integer(1)},
	)
}

func TestOrdinal_Transform_EncodesCategoriesInPlace(t *testing.T) {
	// GIVEN an ordinal encoder over the churn schema
	enc, err := NewOrdinal(scoring.ChurnSchema, testCategories(), scoring.DefaultEncoderOptions())
	require.NoError(t, err)

	// WHEN a known record is encoded
	got, err := enc.Transform(testRecord("IN"))
	require.NoError(t, err)

	// THEN categorical columns hold vocabulary positions and numeric columns pass through
	assert.Equal(t, scoring.EncodedVector{1, 165, 0, 100.5, 30, 1}, got)
}

func TestOrdinal_Transform_ReordersToSchemaOrder(t *testing.T) {
	enc, err := NewOrdinal(scoring.ChurnSchema, testCategories(), scoring.DefaultEncoderOptions())
	require.NoError(t, err)

	rec := testRecord("NY")
	reversed := make(scoring.Record, 0, len(rec))
	for i := len(rec) - 1; i >= 0; i-- {
		reversed = append(reversed, rec[i])
	}

	a, err := enc.Transform(rec)
	require.NoError(t, err)
	b, err := enc.Transform(reversed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestOrdinal_Transform_DoesNotMutateInput(t *testing.T) {
	enc, err := NewOrdinal(scoring.ChurnSchema, testCategories(), scoring.DefaultEncoderOptions())
	require.NoError(t, err)

	rec := testRecord("CA")
	before := scoring.NewRecord(rec...)
	_, err = enc.Transform(rec)
	require.NoError(t, err)
	assert.Equal(t, before, rec)
}

func TestOrdinal_UnknownCategory_ErrorPolicy(t *testing.T) {
	// GIVEN the default error policy
	enc, err := NewOrdinal(scoring.ChurnSchema, testCategories(), scoring.DefaultEncoderOptions())
	require.NoError(t, err)

	// WHEN a state outside the vocabulary is encoded
	_, err = enc.Transform(testRecord("ZZ"))

	// THEN the error names the field and value
	var uc *scoring.UnknownCategoryError
	require.True(t, errors.As(err, &uc), "expected UnknownCategoryError, got %v", err)
	assert.Equal(t, scoring.FieldState, uc.Field)
	assert.Equal(t, "ZZ", uc.Value)
}

func TestOrdinal_UnknownCategory_FallbackPolicy(t *testing.T) {
	// GIVEN the fallback policy with the default fallback code
	opts := scoring.EncoderOptions{UnknownPolicy: scoring.PolicyFallback, FallbackValue: scoring.DefaultFallbackValue}
	enc, err := NewOrdinal(scoring.ChurnSchema, testCategories(), opts)
	require.NoError(t, err)

	// WHEN a state outside the vocabulary is encoded
	var reported []string
	got, err := enc.TransformObserved(testRecord("ZZ"), func(field string) { reported = append(reported, field) })

	// THEN the value becomes the fallback code and the substitution is reported
	require.NoError(t, err)
	assert.Equal(t, -1.0, got[0])
	assert.Equal(t, []string{scoring.FieldState}, reported)
}

func TestNewOrdinal_RejectsBadVocabularies(t *testing.T) {
	tests := []struct {
		name       string
		categories map[string][]string
	}{
		{"missing field", map[string][]string{scoring.FieldState: {"IN"}}},
		{"empty vocabulary", map[string][]string{scoring.FieldState: {}, scoring.FieldInternationalPlan: {"no"}}},
		{"duplicate category", map[string][]string{scoring.FieldState: {"IN", "IN"}, scoring.FieldInternationalPlan: {"no"}}},
		{"numeric field", map[string][]string{scoring.FieldState: {"IN"}, scoring.FieldInternationalPlan: {"no"}, scoring.FieldServiceCalls: {"1"}}},
		{"unknown field", map[string][]string{scoring.FieldState: {"IN"}, scoring.FieldInternationalPlan: {"no"}, "zip": {"1"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrdinal(scoring.ChurnSchema, tc.categories, scoring.DefaultEncoderOptions())
			assert.Error(t, err)
		})
	}
}

func TestNewOrdinal_RejectsUnknownPolicy(t *testing.T) {
	_, err := NewOrdinal(scoring.ChurnSchema, testCategories(), scoring.EncoderOptions{UnknownPolicy: "ignore"})
	assert.Error(t, err)
}

func TestRegisteredOrdinal_DecodesPayload(t *testing.T) {
	payload := []byte(`{"categories":{"state":["IN"],"international_plan":["no","yes"]}}`)
	enc, err := scoring.NewEncoder(TypeOrdinal, scoring.ChurnSchema, payload, scoring.DefaultEncoderOptions())
	require.NoError(t, err)
	assert.Equal(t, 6, enc.Width())

	_, err = scoring.NewEncoder(TypeOrdinal, scoring.ChurnSchema, []byte(`{"cats":{}}`), scoring.DefaultEncoderOptions())
	assert.Error(t, err, "unknown payload keys must be rejected")
}
