package scoring

import "time"

// Observer receives per-call scoring outcomes. Implementations must be safe
// for concurrent use and must not block; they are called inline.
type Observer interface {
	ObserveScore(label Label, elapsed time.Duration, err error)
	ObserveFallback(field string)
}

// NopObserver discards every observation.
type NopObserver struct{}

func (NopObserver) ObserveScore(Label, time.Duration, error) {}
func (NopObserver) ObserveFallback(string)                   {}
