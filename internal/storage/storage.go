// Package storage is the durable key-value layer behind the storefront. Each
// key holds one JSON text blob that is overwritten whole on every write.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mookkammal/storefront/internal/metrics"
)

// ErrNotFound is returned by Get when a key has never been written
var ErrNotFound = errors.New("storage: key not found")

// Store reads and writes whole blobs by key
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// instrumented records every round trip of the wrapped store
type instrumented struct {
	Store
	system  string
	metrics *metrics.AppMetrics
}

// Instrument wraps s so each Get and Put is counted and timed
func Instrument(s Store, system string, m *metrics.AppMetrics) Store {
	return &instrumented{Store: s, system: system, metrics: m}
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.Store.Get(ctx, key)
	s.metrics.RecordStorageOp(ctx, s.system, "get", key, start, err == nil || errors.Is(err, ErrNotFound))
	return value, err
}

func (s *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.Store.Put(ctx, key, value)
	s.metrics.RecordStorageOp(ctx, s.system, "put", key, start, err == nil)
	return err
}
