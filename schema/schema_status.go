package schema

import "time"

// CacheStatus represents the status of the record cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	Location        string    `json:"location"`
	TotalEntries    int       `json:"total_entries"`
	TotalRecords    int       `json:"total_records"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// FetchStats summarizes the API traffic of one client.
type FetchStats struct {
	Requests   int           `json:"requests"`
	Errors     int           `json:"errors"`
	Exceptions int           `json:"exceptions"`
	MemoHits   int           `json:"memo_hits"`
	Elapsed    time.Duration `json:"elapsed"`
}

// IngestReport describes one ingestion pass over an assignment.
type IngestReport struct {
	RunID          string        `json:"run_id"`
	AssignmentID   int64         `json:"assignment_id"`
	Sections       int           `json:"sections"`
	Students       int           `json:"students"`
	RubricComments int           `json:"rubric_comments"`
	Comments       int           `json:"comments"`
	Duration       time.Duration `json:"duration"`
	Stats          FetchStats    `json:"stats"`
}

// RunMeta carries context about how a heatmap was produced, for output headers.
type RunMeta struct {
	RunID        string
	AssignmentID int64
	Records      int
	FromCache    bool
	Duration     time.Duration
}

// GradeSummary is the average grade over the graded submissions of an assignment.
type GradeSummary struct {
	AssignmentID int64   `json:"assignment_id"`
	Submissions  int     `json:"submissions"`
	Graded       int     `json:"graded"`
	Average      float64 `json:"average"`
}
