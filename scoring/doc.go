// Package scoring provides the request-to-prediction core of churnscore.
//
// # Reading Guide
//
// Start with these files to understand the scoring kernel:
//   - record.go: Record and Value, the raw customer fields a caller submits
//   - schema.go: the ordered field schema a pipeline was fitted against
//   - pipeline.go: Score and ScoreBatch, the only code that sequences
//     encoder → scaler → classifier
//   - service.go: the Unloaded → Loaded lifecycle that gates serving
//
// # Architecture
//
// The scoring package defines interfaces, value types and the error taxonomy;
// implementations live in sub-packages:
//   - scoring/encoder/: categorical encoders (ordinal)
//   - scoring/scaler/: feature scalers (standard)
//   - scoring/model/: classifiers (decision tree, logistic regression)
//   - scoring/artifact/: versioned artifact blobs and the startup loader
//   - scoring/evaluation/: prediction traces, confusion matrix, report
//   - scoring/dataset/: labeled CSV input
//   - scoring/telemetry/: DogStatsD observer
//
// Sub-packages register their artifact types via init() functions that call
// RegisterEncoder, RegisterScaler and RegisterClassifier. The artifact loader
// resolves an envelope's type through those registries, so a new algorithm
// only needs a package that registers itself.
//
// # Key Interfaces
//   - Transformer[In, Out]: a pure transform between two pipeline stages
//   - Encoder: Transformer[Record, EncodedVector]
//   - Scaler: Transformer[EncodedVector, NormalizedVector]
//   - Classifier: NormalizedVector → Label
//   - Observer: receives per-call score outcomes and encoder fallbacks
package scoring
