//go:build basic

// Package integration contains end-to-end tests of the cpheatmap binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHeatmapVerification fetches the fixture assignment once, then rebuilds
// heatmaps from the file cache with codePost unreachable.
func TestHeatmapVerification(t *testing.T) {
	srv := newFakeCodePost(t)
	dir := t.TempDir()
	env := append(apiEnv(srv), "CPHEATMAP_CACHE_DIR="+dir)

	out, err := runCLI(t, dir, env, "fetch", "7", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"comments": 3`)

	offline := []string{"CPHEATMAP_BASE_URL=http://127.0.0.1:1/", "CPHEATMAP_API_KEY=unused", "CPHEATMAP_CACHE_DIR=" + dir}

	tests := []struct {
		name    string
		args    []string
		rows    []string
		columns []string
		counts  [][]int
	}{
		{
			name:    "graders by rubric comment",
			args:    nil,
			rows:    []string{"g1", "g2"},
			columns: []string{"Missing docstring --- 2", "Off by one --- 1"},
			counts:  [][]int{{1, 1}, {0, 1}},
		},
		{
			name:    "sections by category",
			args:    []string{"--x-axis", "sections", "--y-axis", "rubricCategories"},
			rows:    []string{"P01", "P02"},
			columns: []string{"Correctness"},
			counts:  [][]int{{2}, {1}},
		},
		{
			name:    "leaders by rubric comment",
			args:    []string{"--x-axis", "sectionsLeaders", "--leader", "P01=Lee", "--leader", "P02=Lee"},
			rows:    []string{"Lee"},
			columns: []string{"Off by one --- 1"},
			counts:  [][]int{{2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"heatmap", "7", "--output", "json"}, tt.args...)
			out, err := runCLI(t, dir, offline, args...)
			require.NoError(t, err)

			doc := decodeHeatmap(t, out)
			assert.True(t, doc.FromCache)
			assert.Equal(t, tt.rows, doc.Rows)
			assert.Equal(t, tt.columns, doc.Columns)
			assert.Equal(t, tt.counts, doc.Counts)
		})
	}
}

// TestGradesVerification checks the average grade against the fixture submissions.
func TestGradesVerification(t *testing.T) {
	srv := newFakeCodePost(t)
	dir := t.TempDir()

	out, err := runCLI(t, dir, apiEnv(srv), "grades", "7", "--output", "csv")
	require.NoError(t, err)
	assert.Equal(t, "assignment_id,submissions,graded,average\n7,3,2,85.0000\n", out)
}

// TestRejectsFanOutColumn checks that a multi-valued column axis fails before any request.
func TestRejectsFanOutColumn(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, []string{"CPHEATMAP_CACHE_DIR=" + dir}, "heatmap", "7", "--y-axis", "sections")
	require.Error(t, err)
}

// TestAxesListing checks the axis listing of the CLI.
func TestAxesListing(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, []string{"CPHEATMAP_CACHE_DIR=" + dir}, "axes", "--output", "csv")
	require.NoError(t, err)
	for _, axis := range []string{"graders", "sections", "sectionsLeaders", "rubricComments", "rubricCategories"} {
		assert.True(t, strings.Contains(out, axis), "missing axis %s", axis)
	}
}
