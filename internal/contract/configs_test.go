package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input a default invocation produces.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		AssignmentStr:  "1234",
		XAxis:          string(schema.GradersAxis),
		YAxis:          string(schema.RubricCommentsAxis),
		Output:         "text",
		CacheBackend:   "file",
		Color:          "yes",
		Retries:        DefaultRetries,
		StripQualifier: true,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "pdf" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "requires --output-file",
		},
		{
			name:        "invalid x axis",
			mutate:      func(in *ConfigRawInput) { in.XAxis = "students" },
			expectError: "invalid --x-axis",
		},
		{
			name:        "fan-out y axis",
			mutate:      func(in *ConfigRawInput) { in.YAxis = "sections" },
			expectError: "use it as --x-axis",
		},
		{
			name:        "bad assignment",
			mutate:      func(in *ConfigRawInput) { in.AssignmentStr = "abc" },
			expectError: "invalid assignment id",
		},
		{
			name:        "negative assignment",
			mutate:      func(in *ConfigRawInput) { in.AssignmentStr = "-3" },
			expectError: "invalid assignment id",
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: "invalid cache backend",
		},
		{
			name:        "mysql without connection",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "mysql" },
			expectError: "cache-db-connect is required",
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: "invalid --color value",
		},
		{
			name:        "invalid log level",
			mutate:      func(in *ConfigRawInput) { in.LogLevel = "loud" },
			expectError: "invalid --log-level value",
		},
		{
			name:        "too many retries",
			mutate:      func(in *ConfigRawInput) { in.Retries = MaxRetries + 1 },
			expectError: "retries must be between",
		},
		{
			name:        "bad timeout",
			mutate:      func(in *ConfigRawInput) { in.Timeout = "soon" },
			expectError: "invalid timeout",
		},
		{
			name:        "relative base url",
			mutate:      func(in *ConfigRawInput) { in.BaseURL = "api.codepost.io" },
			expectError: "invalid base URL",
		},
		{
			name:        "malformed leader",
			mutate:      func(in *ConfigRawInput) { in.Leaders = []string{"A"} },
			expectError: "expected section=leader",
		},
		{
			name:        "negative width",
			mutate:      func(in *ConfigRawInput) { in.Width = -1 },
			expectError: "width cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, int64(1234), cfg.AssignmentID)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, schema.GradersAxis, cfg.XAxis)
	assert.Equal(t, schema.RubricCommentsAxis, cfg.YAxis)
	assert.Equal(t, schema.FileBackend, cfg.CacheBackend)
	assert.Nil(t, cfg.SectionLeaders, "no leaders configured means no lookup at all")
	assert.True(t, cfg.UseColors)
	assert.Equal(t, "Graders", cfg.XLabel())
	assert.Equal(t, "Rubric Comment Text --- ID", cfg.YLabel())
	assert.Equal(t, "# of Comments", cfg.CountLabel())
}

func TestProcessAndValidateOverrides(t *testing.T) {
	input := validInput()
	input.AssignmentStr = ""
	input.Assignment = "99"
	input.BaseURL = "http://localhost:8080/api"
	input.Timeout = "5s"
	input.XCaption = "TAs"
	input.XAxis = "SECTIONSLEADERS"
	input.YAxis = "rubricCategories"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, int64(99), cfg.AssignmentID)
	assert.Equal(t, "http://localhost:8080/api/", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, schema.LeadersAxis, cfg.XAxis)
	assert.Equal(t, "TAs", cfg.XLabel())
	assert.Equal(t, "Rubric Category", cfg.YLabel())
}

func TestProcessSectionLeaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leaders.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Section A: alice\nSection B: bob\n"), 0o600))

	input := validInput()
	input.LeadersFile = path
	input.Leaders = []string{"Section B = carol", "Section C=dave"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, map[string]string{
		"Section A": "alice",
		"Section B": "carol",
		"Section C": "dave",
	}, cfg.SectionLeaders)
}

func TestLoadSectionLeadersErrors(t *testing.T) {
	_, err := LoadSectionLeaders(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read leaders file")

	path := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	_, err = LoadSectionLeaders(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a mapping")
}

func TestRequireAssignment(t *testing.T) {
	assert.Error(t, RequireAssignment(&Config{}))
	assert.NoError(t, RequireAssignment(&Config{AssignmentID: 1}))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.CacheBackend
		connStr     string
		expectError bool
	}{
		{"file needs nothing", schema.FileBackend, "", false},
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/heatmap", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/heatmap", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=heatmap", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{AssignmentID: 5, SectionLeaders: map[string]string{"A": "alice"}}
	clone := cfg.Clone()
	clone.SectionLeaders["A"] = "mallory"
	clone.AssignmentID = 6

	assert.Equal(t, "alice", cfg.SectionLeaders["A"])
	assert.Equal(t, int64(5), cfg.AssignmentID)
}
