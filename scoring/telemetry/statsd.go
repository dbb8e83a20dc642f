// Package telemetry reports scoring outcomes to a DogStatsD agent.
package telemetry

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/churnscore/scoring"
)

// Metric names.
const (
	ScoreCount        = "churnscore.score.count"
	ScoreLatency      = "churnscore.score.latency"
	ScoreError        = "churnscore.score.error"
	EncoderFallback   = "churnscore.encoder.fallback"
	APIRequestCount   = "churnscore.api.request.count"
	APIRequestLatency = "churnscore.api.request.latency"
)

// Tag keys.
const (
	TagEnv       = "env"
	TagService   = "service"
	TagLabel     = "label"
	TagOutcome   = "outcome"
	TagErrorKind = "error_kind"
	TagField     = "field"
	TagPath      = "path"
	TagMethod    = "method"
	TagStatus    = "http_status_code"
)

const (
	serviceName = "churnscore"
	sampleRate  = 1.0
)

// Emitter is the subset of the DogStatsD client the observer uses.
// *statsd.Client satisfies it.
type Emitter interface {
	Count(name string, value int64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Close() error
}

// StatsdObserver implements scoring.Observer over an Emitter. Emit failures
// are logged at warn and dropped; metrics never fail a score.
type StatsdObserver struct {
	emitter Emitter
}

var _ scoring.Observer = (*StatsdObserver)(nil)

// NewStatsdObserver dials the agent at addr with env and service global tags.
func NewStatsdObserver(addr, env string) (*StatsdObserver, error) {
	client, err := statsd.New(addr, statsd.WithTags(GlobalTags(env)))
	if err != nil {
		return nil, fmt.Errorf("statsd client for %s: %w", addr, err)
	}
	logrus.Infof("Metrics client initialized with statsd address %s, env %q", addr, env)
	return NewObserver(client), nil
}

// NewObserver wraps an existing emitter.
func NewObserver(e Emitter) *StatsdObserver {
	return &StatsdObserver{emitter: e}
}

// GlobalTags returns the tags attached to every metric.
func GlobalTags(env string) []string {
	if env == "" {
		logrus.Warn("telemetry: env is not set")
	}
	return []string{Tag(TagEnv, env), Tag(TagService, serviceName)}
}

// Tag renders a key:value statsd tag.
func Tag(key, value string) string { return key + ":" + value }

func (o *StatsdObserver) ObserveScore(label scoring.Label, elapsed time.Duration, err error) {
	if err != nil {
		tags := []string{Tag(TagOutcome, outcome(err)), Tag(TagErrorKind, ErrorKind(err))}
		o.count(ScoreError, tags)
		o.timing(ScoreLatency, elapsed, tags[:1])
		return
	}
	tags := []string{Tag(TagOutcome, "ok"), Tag(TagLabel, string(label))}
	o.count(ScoreCount, tags)
	o.timing(ScoreLatency, elapsed, tags[:1])
}

func (o *StatsdObserver) ObserveFallback(field string) {
	o.count(EncoderFallback, []string{Tag(TagField, field)})
}

// ObserveRequest records one HTTP request.
func (o *StatsdObserver) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	tags := []string{Tag(TagMethod, method), Tag(TagPath, path), Tag(TagStatus, strconv.Itoa(status))}
	o.count(APIRequestCount, tags)
	o.timing(APIRequestLatency, elapsed, tags)
}

// Close flushes buffered metrics and releases the client.
func (o *StatsdObserver) Close() error {
	return o.emitter.Close()
}

func (o *StatsdObserver) count(name string, tags []string) {
	if err := o.emitter.Count(name, 1, tags, sampleRate); err != nil {
		logrus.Warnf("telemetry: statsd count %s: %v", name, err)
	}
}

func (o *StatsdObserver) timing(name string, d time.Duration, tags []string) {
	if err := o.emitter.Timing(name, d, tags, sampleRate); err != nil {
		logrus.Warnf("telemetry: statsd timing %s: %v", name, err)
	}
}

func outcome(err error) string {
	if scoring.IsRequestError(err) {
		return "request_error"
	}
	return "error"
}

// ErrorKind classifies a scoring error for the error_kind tag.
func ErrorKind(err error) string {
	var (
		sm *scoring.SchemaMismatchError
		uc *scoring.UnknownCategoryError
		df *scoring.DegenerateFeatureError
	)
	switch {
	case errors.As(err, &sm):
		return "schema_mismatch"
	case errors.As(err, &uc):
		return "unknown_category"
	case errors.As(err, &df):
		return "degenerate_feature"
	case errors.Is(err, scoring.ErrNotLoaded):
		return "not_loaded"
	default:
		return "internal"
	}
}
