package iocache

import (
	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
)

// NoneStore disables caching: every load misses and stores are dropped.
type NoneStore struct{}

var _ contract.RecordCache = NoneStore{} // Compile-time check

// Load always misses.
func (NoneStore) Load(int64) (schema.RecordSet, error) { return nil, contract.ErrCacheMiss }

// Store discards the records.
func (NoneStore) Store(int64, schema.RecordSet) error { return nil }

// GetStatus reports a disconnected cache.
func (NoneStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: string(schema.NoneBackend)}, nil
}

// Close does nothing.
func (NoneStore) Close() error { return nil }
