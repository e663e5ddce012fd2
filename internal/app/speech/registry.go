package speech

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"whisper-api/internal/config"
)

// BackendFactory builds a Loader for one backend from configuration.
type BackendFactory func(cfg *config.Config, logger *zap.Logger) (Loader, error)

var (
	backends   = make(map[string]BackendFactory)
	backendsMu sync.RWMutex
)

// RegisterBackend makes a backend available by name. Backend packages call it
// from init.
func RegisterBackend(name string, factory BackendFactory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// NewLoader returns the Loader of the configured backend.
func NewLoader(cfg *config.Config, logger *zap.Logger) (Loader, error) {
	backendsMu.RLock()
	factory, ok := backends[cfg.Speech.Backend]
	backendsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("speech backend %s not registered (registered: %v)", cfg.Speech.Backend, RegisteredBackends())
	}
	return factory(cfg, logger)
}

// RegisteredBackends returns the registered backend names, sorted.
func RegisteredBackends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
