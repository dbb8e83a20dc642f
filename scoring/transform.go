package scoring

// EncodedVector is a record after categorical encoding, one value per schema
// column in schema order.
type EncodedVector []float64

// NormalizedVector is an EncodedVector after per-column scaling. It only
// exists for the duration of one scoring call.
type NormalizedVector []float64

// Transformer is a pure transform between two pipeline stages.
type Transformer[In, Out any] interface {
	Transform(in In) (Out, error)
}

// Encoder maps a validated record to its encoded vector.
type Encoder interface {
	Transformer[Record, EncodedVector]
	Width() int
}

// FallbackEncoder is implemented by encoders that can substitute unseen
// categories. onFallback is called once per substituted field.
type FallbackEncoder interface {
	Encoder
	TransformObserved(rec Record, onFallback func(field string)) (EncodedVector, error)
}

// Scaler normalizes an encoded vector with frozen fit statistics.
type Scaler interface {
	Transformer[EncodedVector, NormalizedVector]
	Width() int
}

// Classifier is a fitted decision function over normalized vectors.
type Classifier interface {
	Predict(v NormalizedVector) (Label, error)
	Width() int
	Classes() LabelSet
}

// ArtifactSet holds the three fitted components a pipeline is built from.
// Components are shared read-only by every scoring call.
type ArtifactSet struct {
	Encoder    Encoder
	Scaler     Scaler
	Classifier Classifier
}

// UnknownCategoryPolicy selects what an encoder does with a category it did
// not see at fit time.
type UnknownCategoryPolicy string

const (
	// PolicyError rejects the record with an UnknownCategoryError.
	PolicyError UnknownCategoryPolicy = "error"
	// PolicyFallback encodes the value as EncoderOptions.FallbackValue and
	// reports the substitution to the pipeline observer.
	PolicyFallback UnknownCategoryPolicy = "fallback"
)

// DefaultFallbackValue mirrors the conventional "unknown" ordinal code.
const DefaultFallbackValue = -1.0

// EncoderOptions configures encoder behavior that is a serving decision
// rather than a fitted property.
type EncoderOptions struct {
	UnknownPolicy UnknownCategoryPolicy
	FallbackValue float64
}

// DefaultEncoderOptions rejects unseen categories.
func DefaultEncoderOptions() EncoderOptions {
	return EncoderOptions{UnknownPolicy: PolicyError, FallbackValue: DefaultFallbackValue}
}
