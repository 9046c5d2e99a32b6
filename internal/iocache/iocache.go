// Package iocache persists enriched comment records between runs.
package iocache

import (
	"errors"
	"sync"

	"github.com/cpheatmap/cpheatmap/internal/contract"
)

// ErrCorruptCache is wrapped by load errors for cache contents that cannot be trusted.
var ErrCorruptCache = errors.New("corrupt record cache")

// CacheStoreManager holds the record cache selected for this process.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	records      contract.RecordCache
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetRecordCache returns the record cache, or nil before InitStores.
func (mgr *CacheStoreManager) GetRecordCache() contract.RecordCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}
