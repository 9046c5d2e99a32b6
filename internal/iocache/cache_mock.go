package iocache

import (
	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetRecordCache implements the CacheManager interface.
func (m *MockCacheManager) GetRecordCache() contract.RecordCache {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RecordCache)
	return store
}

// MockRecordCache is a mock implementation of RecordCache for testing.
type MockRecordCache struct {
	mock.Mock
}

var _ contract.RecordCache = &MockRecordCache{} // Compile-time check

// Load implements the RecordCache interface.
func (m *MockRecordCache) Load(assignmentID int64) (schema.RecordSet, error) {
	args := m.Called(assignmentID)
	records, _ := args.Get(0).(schema.RecordSet)
	return records, args.Error(1)
}

// Store implements the RecordCache interface.
func (m *MockRecordCache) Store(assignmentID int64, records schema.RecordSet) error {
	args := m.Called(assignmentID, records)
	return args.Error(0)
}

// GetStatus implements the RecordCache interface.
func (m *MockRecordCache) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the RecordCache interface.
func (m *MockRecordCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
