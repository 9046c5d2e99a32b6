package iocache

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed record_schema.json
var recordSchemaJSON []byte

var recordSchema = gojsonschema.NewBytesLoader(recordSchemaJSON)

// cacheFilePattern matches the default per-assignment cache files.
const cacheFilePattern = "codePost_heatmap_cache_assignment_*.json"

// ownerSuffix names the file next to a pinned cache file that records its assignment.
const ownerSuffix = ".assignment"

// FileStore keeps one indented JSON file per assignment in a directory.
type FileStore struct {
	dir  string
	file string // Overrides the per-assignment file name when set
}

var _ contract.RecordCache = &FileStore{} // Compile-time check

// NewFileStore returns a store rooted at dir ("." when empty). A non-empty file pins every
// assignment to that one file name, which then holds the records of the last stored assignment.
func NewFileStore(dir, file string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir, file: file}
}

// Path returns the cache file used for an assignment.
func (s *FileStore) Path(assignmentID int64) string {
	name := s.file
	if name == "" {
		name = contract.DefaultCacheFilename(assignmentID)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Load reads and validates the cache file of an assignment.
func (s *FileStore) Load(assignmentID int64) (schema.RecordSet, error) {
	path := s.Path(assignmentID)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, contract.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}
	if err := s.checkOwner(path, assignmentID); err != nil {
		return nil, err
	}

	if err := validateRecordJSON(data); err != nil {
		return nil, fmt.Errorf("cache file %s: %w", path, err)
	}

	var records schema.RecordSet
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("cache file %s: %w: %v", path, ErrCorruptCache, err)
	}
	return records, nil
}

// Store overwrites the cache file of an assignment.
func (s *FileStore) Store(assignmentID int64, records schema.RecordSet) error {
	path := s.Path(assignmentID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", path, err)
	}
	if s.file != "" {
		owner := []byte(strconv.FormatInt(assignmentID, 10))
		if err := os.WriteFile(path+ownerSuffix, owner, 0o644); err != nil {
			return fmt.Errorf("failed to write cache owner %s: %w", path+ownerSuffix, err)
		}
	}
	return nil
}

// checkOwner reports a miss when a pinned file holds another assignment. Files without
// an owner record, such as hand-placed ones, are trusted.
func (s *FileStore) checkOwner(path string, assignmentID int64) error {
	if s.file == "" {
		return nil
	}
	data, err := os.ReadFile(path + ownerSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache owner %s: %w", path+ownerSuffix, err)
	}
	owner, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return fmt.Errorf("cache owner %s: %w: %v", path+ownerSuffix, ErrCorruptCache, err)
	}
	if owner != assignmentID {
		return fmt.Errorf("%w: %s holds assignment %d", contract.ErrCacheMiss, path, owner)
	}
	return nil
}

// GetStatus summarizes the cache files found in the directory.
func (s *FileStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.FileBackend),
		Connected: true,
		Location:  s.dir,
	}

	paths, err := s.cacheFiles()
	if err != nil {
		return status, err
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		status.TotalEntries++
		status.TableSizeBytes += info.Size()
		mod := info.ModTime()
		if status.LastEntryTime.IsZero() || mod.After(status.LastEntryTime) {
			status.LastEntryTime = mod
		}
		if status.OldestEntryTime.IsZero() || mod.Before(status.OldestEntryTime) {
			status.OldestEntryTime = mod
		}
		if n, err := countRecords(path); err == nil {
			status.TotalRecords += n
		}
	}
	return status, nil
}

// Clear removes every cache file of the directory.
func (s *FileStore) Clear() error {
	paths, err := s.cacheFiles()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove cache file %s: %w", path, err)
		}
	}
	if s.file != "" {
		if err := os.Remove(s.Path(0) + ownerSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove cache owner: %w", err)
		}
	}
	return nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) cacheFiles() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, cacheFilePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list cache files: %w", err)
	}
	if s.file != "" {
		pinned := s.Path(0)
		if _, err := os.Stat(pinned); err == nil && !slices.Contains(paths, pinned) {
			paths = append(paths, pinned)
		}
	}
	return paths, nil
}

func countRecords(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, err
	}
	return len(raw), nil
}

// validateRecordJSON checks raw cache contents against the embedded record schema.
func validateRecordJSON(data []byte) error {
	result, err := gojsonschema.Validate(recordSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return fmt.Errorf("%w: %s", ErrCorruptCache, strings.Join(details, "; "))
}
