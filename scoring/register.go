package scoring

import (
	"fmt"
	"sort"
	"sync"
)

// EncoderFactory decodes an encoder artifact payload. The schema is the
// serving schema, already checked against the artifact's column list.
type EncoderFactory func(schema *Schema, payload []byte, opts EncoderOptions) (Encoder, error)

// ScalerFactory decodes a scaler artifact payload.
type ScalerFactory func(schema *Schema, payload []byte) (Scaler, error)

// ClassifierFactory decodes a model artifact payload.
type ClassifierFactory func(schema *Schema, payload []byte) (Classifier, error)

var (
	registryMu          sync.RWMutex
	encoderFactories    = map[string]EncoderFactory{}
	scalerFactories     = map[string]ScalerFactory{}
	classifierFactories = map[string]ClassifierFactory{}
)

// RegisterEncoder makes an encoder artifact type available to the loader.
// It panics if typ is registered twice.
func RegisterEncoder(typ string, f EncoderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := encoderFactories[typ]; dup {
		panic("scoring: RegisterEncoder called twice for " + typ)
	}
	encoderFactories[typ] = f
}

// RegisterScaler makes a scaler artifact type available to the loader.
func RegisterScaler(typ string, f ScalerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := scalerFactories[typ]; dup {
		panic("scoring: RegisterScaler called twice for " + typ)
	}
	scalerFactories[typ] = f
}

// RegisterClassifier makes a model artifact type available to the loader.
func RegisterClassifier(typ string, f ClassifierFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := classifierFactories[typ]; dup {
		panic("scoring: RegisterClassifier called twice for " + typ)
	}
	classifierFactories[typ] = f
}

// NewEncoder builds an encoder of the registered type typ.
func NewEncoder(typ string, schema *Schema, payload []byte, opts EncoderOptions) (Encoder, error) {
	registryMu.RLock()
	f, ok := encoderFactories[typ]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown encoder type %q (registered: %v)", typ, registeredNames(encoderFactories))
	}
	return f(schema, payload, opts)
}

// NewScaler builds a scaler of the registered type typ.
func NewScaler(typ string, schema *Schema, payload []byte) (Scaler, error) {
	registryMu.RLock()
	f, ok := scalerFactories[typ]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown scaler type %q (registered: %v)", typ, registeredNames(scalerFactories))
	}
	return f(schema, payload)
}

// NewClassifier builds a classifier of the registered type typ.
func NewClassifier(typ string, schema *Schema, payload []byte) (Classifier, error) {
	registryMu.RLock()
	f, ok := classifierFactories[typ]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown model type %q (registered: %v)", typ, registeredNames(classifierFactories))
	}
	return f(schema, payload)
}

func registeredNames[F any](m map[string]F) []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
