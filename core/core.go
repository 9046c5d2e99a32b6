// Package core turns enriched grading comments into heatmaps.
//
// Resolve, Aggregate and Project are pure and operate on records already in memory.
// The Execute* and Get* functions connect them to the record cache, the codePost
// ingestion and the output writers.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/internal/outwriter"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/google/uuid"
)

// ErrNoRecordSource is returned when records are neither cached nor fetchable.
var ErrNoRecordSource = errors.New("no cached records and no fetcher configured")

// ExecuteHeatmap builds the heatmap of cfg.AssignmentID and writes it in the configured format.
func ExecuteHeatmap(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, fetcher contract.RecordFetcher) error {
	if cfg.Output != schema.TextOut || cfg.OutputFile != "" {
		ctx = WithSuppressHeader(ctx)
	}
	dense, meta, err := GetHeatmapResults(ctx, cfg, mgr, fetcher)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHeatmap(dense, cfg, meta)
}

// GetHeatmapResults loads the records of cfg.AssignmentID and projects their heatmap.
// The axis selection is validated before any record is loaded.
func GetHeatmapResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, fetcher contract.RecordFetcher) (schema.DenseTable, schema.RunMeta, error) {
	start := time.Now()
	if err := ValidateAxes(cfg.XAxis, cfg.YAxis, cfg.SectionLeaders); err != nil {
		return schema.DenseTable{}, schema.RunMeta{}, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogHeatmapHeader(cfg)
	}

	store, meta, err := LoadRecords(ctx, cfg.AssignmentID, mgr, fetcher, cfg.Refresh)
	if err != nil {
		return schema.DenseTable{}, meta, err
	}

	table, err := Aggregate(store.All(), cfg.XAxis, cfg.YAxis, cfg.SectionLeaders)
	if err != nil {
		return schema.DenseTable{}, meta, err
	}

	rowLabel := Label
	if cfg.StripQualifier {
		rowLabel = RowNormalizer(cfg.XAxis)
	}
	dense := Project(table, cfg.XAxis, cfg.YAxis, WithRowNormalizer(rowLabel))

	meta.Duration = time.Since(start)
	loggerFrom(ctx).Debug("heatmap projected",
		"assignment", cfg.AssignmentID, "rows", len(dense.Rows), "columns", len(dense.Columns), "total", dense.Total())
	return dense, meta, nil
}

// LoadRecords returns the records of an assignment, from the cache unless refresh is set.
// A miss, an unreadable cache or a cache with invalid records falls back to the fetcher,
// whose result is written back to the cache. Cache write failures only warn.
func LoadRecords(ctx context.Context, assignmentID int64, mgr contract.CacheManager, fetcher contract.RecordFetcher, refresh bool) (*RecordStore, schema.RunMeta, error) {
	logger := loggerFrom(ctx)
	meta := schema.RunMeta{AssignmentID: assignmentID}

	var cache contract.RecordCache
	if mgr != nil {
		cache = mgr.GetRecordCache()
	}

	if cache != nil && !refresh {
		records, err := cache.Load(assignmentID)
		switch {
		case err == nil && len(records) > 0:
			store, err := NewRecordStore(records)
			if err == nil {
				meta.RunID = uuid.NewString()
				meta.Records = store.Len()
				meta.FromCache = true
				logger.Debug("records loaded from cache", "assignment", assignmentID, "records", store.Len())
				return store, meta, nil
			}
			contract.LogWarn("Ignoring cached records", err)
		case err == nil, errors.Is(err, contract.ErrCacheMiss):
			logger.Debug("cache miss", "assignment", assignmentID)
		default:
			contract.LogWarn("Ignoring unreadable cache", err)
		}
	}

	store, report, err := ingestAndStore(ctx, assignmentID, cache, fetcher)
	if err != nil {
		return nil, meta, err
	}
	meta.RunID = report.RunID
	meta.Records = store.Len()
	return store, meta, nil
}

// ingestAndStore fetches an assignment and writes the result to the cache, if any.
func ingestAndStore(ctx context.Context, assignmentID int64, cache contract.RecordCache, fetcher contract.RecordFetcher) (*RecordStore, schema.IngestReport, error) {
	if fetcher == nil {
		return nil, schema.IngestReport{}, fmt.Errorf("assignment %d: %w", assignmentID, ErrNoRecordSource)
	}

	records, report, err := fetcher.Ingest(ctx, assignmentID)
	if err != nil {
		return nil, report, fmt.Errorf("failed to fetch assignment %d: %w", assignmentID, err)
	}
	store, err := NewRecordStore(records)
	if err != nil {
		return nil, report, err
	}

	if cache != nil {
		if err := cache.Store(assignmentID, store.RecordSet()); err != nil {
			contract.LogWarn("Failed to cache records", err)
		}
	}
	loggerFrom(ctx).Debug("records fetched", "assignment", assignmentID, "records", store.Len(), "run", report.RunID)
	return store, report, nil
}

// ExecuteFetch ingests an assignment, refreshes its cache entry and writes the ingestion report.
func ExecuteFetch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, fetcher contract.RecordFetcher) error {
	var cache contract.RecordCache
	if mgr != nil {
		cache = mgr.GetRecordCache()
	}
	_, report, err := ingestAndStore(ctx, cfg.AssignmentID, cache, fetcher)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteIngestReport(report, cfg)
}

// ExecuteGrades computes and writes the average grade of an assignment.
func ExecuteGrades(ctx context.Context, cfg *contract.Config, src contract.SubmissionSource) error {
	summary, err := GetGradeSummary(ctx, cfg.AssignmentID, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteGrades(summary, cfg)
}

// GetGradeSummary lists the submissions of an assignment and averages their grades.
func GetGradeSummary(ctx context.Context, assignmentID int64, src contract.SubmissionSource) (schema.GradeSummary, error) {
	subs, err := src.AssignmentSubmissions(ctx, assignmentID)
	if err != nil {
		return schema.GradeSummary{}, fmt.Errorf("failed to list submissions of assignment %d: %w", assignmentID, err)
	}
	return AverageGrade(assignmentID, subs)
}

// ExecuteAxes writes the axis selectors with their default captions.
func ExecuteAxes(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteAxes(cfg)
}
