package store

import (
	"context"
	"time"
)

type latencyObserver interface {
	ObserveStoreOperation(operation string, duration time.Duration)
}

// InstrumentedStore decorates a Store with per-operation latency metrics.
type InstrumentedStore struct {
	inner   Store
	metrics latencyObserver
}

// NewInstrumentedStore wraps a store; a nil observer returns the store as is.
func NewInstrumentedStore(inner Store, metrics latencyObserver) Store {
	if metrics == nil {
		return inner
	}
	return &InstrumentedStore{inner: inner, metrics: metrics}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, ok, err := s.inner.Get(ctx, key)
	s.metrics.ObserveStoreOperation("get", time.Since(start))
	return data, ok, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, value)
	s.metrics.ObserveStoreOperation("set", time.Since(start))
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	s.metrics.ObserveStoreOperation("delete", time.Since(start))
	return err
}
