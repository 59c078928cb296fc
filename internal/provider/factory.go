package provider

import (
	"fmt"
	"sync"

	"github.com/nulzo/model-capability-api/pkg/api"
)

// Factory builds a facade for one provider kind.
type Factory func(cfg Config) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[api.ProviderKind]Factory)
)

// Register makes a factory available under its kind. Implementations call
// this from init; registering the same kind twice is a programming error.
func Register(kind api.ProviderKind, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", kind))
	}
	factories[kind] = f
}

// Get retrieves the factory for a kind.
func Get(kind api.ProviderKind) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("provider factory not found for kind: %s", kind)
	}
	return f, nil
}
