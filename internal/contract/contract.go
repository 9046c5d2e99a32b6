// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/cpheatmap/cpheatmap/schema"
)

// RecordFetcher retrieves and enriches every rubric-linked comment of an assignment.
// This allows the orchestration to be tested without a codePost account.
type RecordFetcher interface {
	// Ingest walks the assignment's sections and rubric and returns the enriched comments.
	Ingest(ctx context.Context, assignmentID int64) (schema.RecordSet, schema.IngestReport, error)
}

// SubmissionSource lists the submissions of an assignment.
type SubmissionSource interface {
	AssignmentSubmissions(ctx context.Context, assignmentID int64) ([]schema.Submission, error)
}

// CacheManager defines the interface for managing the record cache.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetRecordCache() RecordCache
}

// RecordCache defines the interface for per-assignment record storage.
type RecordCache interface {
	// Load returns the cached records of an assignment, or ErrCacheMiss.
	Load(assignmentID int64) (schema.RecordSet, error)

	// Store replaces the cached records of an assignment.
	Store(assignmentID int64, records schema.RecordSet) error

	// GetStatus returns status information about the cache.
	GetStatus() (schema.CacheStatus, error)

	// Close releases the underlying resources.
	Close() error
}
