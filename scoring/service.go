package scoring

import (
	"errors"
	"sync"
	"sync/atomic"
)

// State is the lifecycle state of a Service.
type State int32

const (
	StateUnloaded State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "unloaded"
}

// Service owns the loaded pipeline for the lifetime of a process. Load is the
// one-time initialization barrier; once it returns successfully every caller
// of Pipeline observes the same immutable pipeline without locking.
type Service struct {
	mu       sync.Mutex
	state    atomic.Int32
	pipeline atomic.Pointer[Pipeline]
}

func NewService() *Service { return &Service{} }

// Load runs load and publishes its pipeline. Loading is serialized, and a
// loaded service refuses to load again until Close.
func (s *Service) Load(load func() (*Pipeline, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if State(s.state.Load()) == StateLoaded {
		return errors.New("scoring: service already loaded")
	}
	p, err := load()
	if err != nil {
		return err
	}
	if p == nil {
		return errors.New("scoring: loader returned no pipeline")
	}
	s.pipeline.Store(p)
	s.state.Store(int32(StateLoaded))
	return nil
}

// Pipeline returns the loaded pipeline, or ErrNotLoaded.
func (s *Service) Pipeline() (*Pipeline, error) {
	p := s.pipeline.Load()
	if p == nil {
		return nil, ErrNotLoaded
	}
	return p, nil
}

func (s *Service) State() State { return State(s.state.Load()) }

// Close discards the pipeline and returns the service to StateUnloaded.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline.Store(nil)
	s.state.Store(int32(StateUnloaded))
}
