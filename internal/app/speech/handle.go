package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoadObserver is notified after each load attempt.
type LoadObserver interface {
	ObserveModelLoad(err error, elapsed time.Duration)
}

// Handle is the process-wide lazily loaded model. The first Get loads the model
// while holding the lock, so concurrent first callers wait for a single load
// and all observe the same fully constructed Model. A failed load is not
// remembered and the next Get tries again.
type Handle struct {
	mu       sync.Mutex
	loader   Loader
	model    Model
	logger   *zap.Logger
	observer LoadObserver
}

// NewHandle creates an empty handle around loader.
func NewHandle(loader Loader, observer LoadObserver, logger *zap.Logger) *Handle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handle{
		loader:   loader,
		logger:   logger,
		observer: observer,
	}
}

// Get returns the loaded model, loading it first if needed.
func (h *Handle) Get(ctx context.Context) (Model, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.model != nil {
		return h.model, nil
	}

	h.logger.Info("loading speech model",
		zap.String("size", ModelSize),
		zap.String("device", Device),
		zap.String("compute_type", ComputeType),
	)

	start := time.Now()
	model, err := h.loader.Load(ctx)
	if err == nil && model == nil {
		err = fmt.Errorf("%w: loader returned no model", ErrDependencyMissing)
	}
	if h.observer != nil {
		h.observer.ObserveModelLoad(err, time.Since(start))
	}
	if err != nil {
		h.logger.Error("speech model load failed", zap.Error(err))
		if !errors.Is(err, ErrDependencyMissing) {
			err = fmt.Errorf("%w: %v", ErrDependencyMissing, err)
		}
		return nil, err
	}

	h.logger.Info("speech model loaded",
		zap.String("model", model.Name()),
		zap.Duration("elapsed", time.Since(start)),
	)
	h.model = model
	return model, nil
}

// Loaded reports whether a model is currently held.
func (h *Handle) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.model != nil
}
