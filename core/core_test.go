package core

import (
	"context"
	"errors"
	"testing"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/internal/iocache"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a testify mock of contract.RecordFetcher.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Ingest(ctx context.Context, assignmentID int64) (schema.RecordSet, schema.IngestReport, error) {
	args := m.Called(ctx, assignmentID)
	records, _ := args.Get(0).(schema.RecordSet)
	return records, args.Get(1).(schema.IngestReport), args.Error(2)
}

// mockSubmissions is a testify mock of contract.SubmissionSource.
type mockSubmissions struct {
	mock.Mock
}

func (m *mockSubmissions) AssignmentSubmissions(ctx context.Context, assignmentID int64) ([]schema.Submission, error) {
	args := m.Called(ctx, assignmentID)
	subs, _ := args.Get(0).([]schema.Submission)
	return subs, args.Error(1)
}

func scenarioRecords() schema.RecordSet {
	return schema.RecordSet{
		"1": comment(1, "g1@x", rubric(1, "T1"), "C1", "S1"),
		"2": comment(2, "g1@y", rubric(1, "T1"), "C1", "S1"),
	}
}

func newMocks(cache contract.RecordCache) (*iocache.MockCacheManager, *mockFetcher) {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRecordCache").Return(cache)
	return mgr, &mockFetcher{}
}

func TestLoadRecordsCacheHit(t *testing.T) {
	cache := &iocache.MockRecordCache{}
	cache.On("Load", int64(7)).Return(scenarioRecords(), nil)
	mgr, fetcher := newMocks(cache)

	store, meta, err := LoadRecords(context.Background(), 7, mgr, fetcher, false)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
	assert.True(t, meta.FromCache)
	assert.NotEmpty(t, meta.RunID)
	assert.Equal(t, int64(7), meta.AssignmentID)

	fetcher.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestLoadRecordsFetchesOnMiss(t *testing.T) {
	tests := []struct {
		name    string
		loadRet schema.RecordSet
		loadErr error
	}{
		{"cache miss", nil, contract.ErrCacheMiss},
		{"empty cache entry", schema.RecordSet{}, nil},
		{"unreadable cache", nil, errors.New("disk on fire")},
		{"invalid cached records", schema.RecordSet{"1": comment(2, "g", rubric(1, "T"), "")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &iocache.MockRecordCache{}
			cache.On("Load", int64(7)).Return(tt.loadRet, tt.loadErr)
			cache.On("Store", int64(7), scenarioRecords()).Return(nil)
			mgr, fetcher := newMocks(cache)
			fetcher.On("Ingest", mock.Anything, int64(7)).Return(scenarioRecords(), schema.IngestReport{RunID: "run-1"}, nil)

			store, meta, err := LoadRecords(context.Background(), 7, mgr, fetcher, false)
			require.NoError(t, err)
			assert.Equal(t, 2, store.Len())
			assert.False(t, meta.FromCache)
			assert.Equal(t, "run-1", meta.RunID)

			cache.AssertExpectations(t)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestLoadRecordsRefreshSkipsCache(t *testing.T) {
	cache := &iocache.MockRecordCache{}
	cache.On("Store", int64(7), mock.Anything).Return(errors.New("read-only"))
	mgr, fetcher := newMocks(cache)
	fetcher.On("Ingest", mock.Anything, int64(7)).Return(scenarioRecords(), schema.IngestReport{}, nil)

	store, _, err := LoadRecords(context.Background(), 7, mgr, fetcher, true)
	require.NoError(t, err, "a failed cache write only warns")
	assert.Equal(t, 2, store.Len())
	cache.AssertNotCalled(t, "Load", mock.Anything)
}

func TestLoadRecordsErrors(t *testing.T) {
	t.Run("no fetcher", func(t *testing.T) {
		cache := &iocache.MockRecordCache{}
		cache.On("Load", int64(7)).Return(nil, contract.ErrCacheMiss)
		mgr, _ := newMocks(cache)

		_, _, err := LoadRecords(context.Background(), 7, mgr, nil, false)
		assert.ErrorIs(t, err, ErrNoRecordSource)
	})

	t.Run("fetch failure", func(t *testing.T) {
		fetcher := &mockFetcher{}
		fetcher.On("Ingest", mock.Anything, int64(7)).Return(nil, schema.IngestReport{}, errors.New("401"))

		_, _, err := LoadRecords(context.Background(), 7, nil, fetcher, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch assignment 7")
	})

	t.Run("fetched records with bad keys", func(t *testing.T) {
		fetcher := &mockFetcher{}
		fetcher.On("Ingest", mock.Anything, int64(7)).Return(schema.RecordSet{"x": {}}, schema.IngestReport{}, nil)

		_, _, err := LoadRecords(context.Background(), 7, nil, fetcher, false)
		assert.ErrorIs(t, err, schema.ErrDataIntegrity)
	})
}

func heatmapConfig() *contract.Config {
	return &contract.Config{
		AssignmentID:   7,
		XAxis:          schema.GradersAxis,
		YAxis:          schema.RubricCommentsAxis,
		StripQualifier: true,
		Output:         schema.JSONOut,
		CacheBackend:   schema.FileBackend,
	}
}

func TestGetHeatmapResults(t *testing.T) {
	cache := &iocache.MockRecordCache{}
	cache.On("Load", int64(7)).Return(scenarioRecords(), nil)
	mgr, fetcher := newMocks(cache)

	dense, meta, err := GetHeatmapResults(WithSuppressHeader(context.Background()), heatmapConfig(), mgr, fetcher)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, dense.Rows)
	assert.Equal(t, []string{"T1 --- 1"}, dense.Columns)
	assert.Equal(t, [][]int{{2}}, dense.Counts)
	assert.Equal(t, 2, meta.Records)
	assert.True(t, meta.FromCache)
}

func TestGetHeatmapResultsWithoutStripping(t *testing.T) {
	cache := &iocache.MockRecordCache{}
	cache.On("Load", int64(7)).Return(scenarioRecords(), nil)
	mgr, fetcher := newMocks(cache)

	cfg := heatmapConfig()
	cfg.StripQualifier = false
	dense, _, err := GetHeatmapResults(WithSuppressHeader(context.Background()), cfg, mgr, fetcher)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1@x", "g1@y"}, dense.Rows)
}

func TestGetHeatmapResultsKeepsRubricRowsDistinct(t *testing.T) {
	records := schema.RecordSet{
		"1": comment(1, "g1@x", rubric(1, "Use @Override"), "C1"),
		"2": comment(2, "g1@x", rubric(2, "Use @Nullable"), "C1"),
	}
	cache := &iocache.MockRecordCache{}
	cache.On("Load", int64(7)).Return(records, nil)
	mgr, fetcher := newMocks(cache)

	cfg := heatmapConfig()
	cfg.XAxis, cfg.YAxis = schema.RubricCommentsAxis, schema.GradersAxis
	dense, _, err := GetHeatmapResults(WithSuppressHeader(context.Background()), cfg, mgr, fetcher)
	require.NoError(t, err)
	assert.Equal(t, []string{"Use @Nullable --- 2", "Use @Override --- 1"}, dense.Rows)
	assert.Equal(t, []string{"g1@x"}, dense.Columns)
	assert.Equal(t, [][]int{{1}, {1}}, dense.Counts)
}

func TestGetHeatmapResultsRejectsConfigBeforeLoading(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	fetcher := &mockFetcher{}

	cfg := heatmapConfig()
	cfg.XAxis = schema.LeadersAxis
	_, _, err := GetHeatmapResults(WithSuppressHeader(context.Background()), cfg, mgr, fetcher)
	require.ErrorIs(t, err, schema.ErrConfiguration)

	mgr.AssertNotCalled(t, "GetRecordCache")
	fetcher.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestGetHeatmapResultsDataIntegrity(t *testing.T) {
	records := scenarioRecords()
	records["3"] = comment(3, "g2", nil, "C1")

	cache := &iocache.MockRecordCache{}
	cache.On("Load", int64(7)).Return(records, nil)
	mgr, fetcher := newMocks(cache)

	_, _, err := GetHeatmapResults(WithSuppressHeader(context.Background()), heatmapConfig(), mgr, fetcher)
	assert.ErrorIs(t, err, schema.ErrDataIntegrity)
}

func TestExecuteFetchStoresRecords(t *testing.T) {
	cache := &iocache.MockRecordCache{}
	cache.On("Store", int64(7), scenarioRecords()).Return(nil)
	mgr, fetcher := newMocks(cache)
	fetcher.On("Ingest", mock.Anything, int64(7)).Return(scenarioRecords(), schema.IngestReport{AssignmentID: 7, Comments: 2}, nil)

	cfg := heatmapConfig()
	cfg.OutputFile = t.TempDir() + "/report.json"
	require.NoError(t, ExecuteFetch(context.Background(), cfg, mgr, fetcher))

	cache.AssertExpectations(t)
	assert.FileExists(t, cfg.OutputFile)
}

func TestGetGradeSummary(t *testing.T) {
	src := &mockSubmissions{}
	src.On("AssignmentSubmissions", mock.Anything, int64(7)).Return([]schema.Submission{
		{ID: 1, Grade: grade(80)},
		{ID: 2, Grade: grade(90)},
		{ID: 3},
	}, nil)

	summary, err := GetGradeSummary(context.Background(), 7, src)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Submissions)
	assert.Equal(t, 2, summary.Graded)
	assert.InDelta(t, 85.0, summary.Average, 1e-9)

	failing := &mockSubmissions{}
	failing.On("AssignmentSubmissions", mock.Anything, int64(8)).Return(nil, errors.New("404"))
	_, err = GetGradeSummary(context.Background(), 8, failing)
	assert.Error(t, err)
}
