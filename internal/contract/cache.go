package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCacheMiss is returned by a RecordCache that holds nothing for an assignment.
var ErrCacheMiss = errors.New("cache miss")

// DefaultCacheFilename is the JSON cache file name used for an assignment.
func DefaultCacheFilename(assignmentID int64) string {
	return fmt.Sprintf("codePost_heatmap_cache_assignment_%d.json", assignmentID)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cpheatmap_cache.db"
	}
	return filepath.Join(homeDir, ".cpheatmap_cache.db")
}
