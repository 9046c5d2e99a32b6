package contract

import (
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cpheatmap/cpheatmap/schema"
	"gopkg.in/yaml.v3"
)

// Default values for configuration.
const (
	DefaultBaseURL = "https://api.codepost.io/"
	DefaultRetries = 2
	MaxRetries     = 10
	DefaultTimeout = 30 * time.Second
)

// Config holds the runtime configuration for a heatmap run.
// This struct remains the "final, validated" config.
type Config struct {
	AssignmentID int64

	APIKey  string // Explicit key from flag or config file; env and YAML discovery happen later
	BaseURL string
	Retries int
	Timeout time.Duration

	// XAxis is the row axis of the aggregation and runs horizontally in rendered output.
	XAxis schema.Axis
	// YAxis is the column axis of the aggregation; it is always scalar.
	YAxis schema.Axis

	// SectionLeaders maps section names to leader names. Nil when none were configured.
	SectionLeaders map[string]string

	XCaption       string
	YCaption       string
	CountCaption   string
	StripQualifier bool

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.CacheBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheDir       string
	CacheFile      string
	Refresh        bool

	UseColors bool
	LogLevel  slog.Level
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	AssignmentStr string

	Assignment     string   `mapstructure:"assignment"`
	APIKey         string   `mapstructure:"api-key"`
	BaseURL        string   `mapstructure:"base-url"`
	Retries        int      `mapstructure:"retries"`
	Timeout        string   `mapstructure:"timeout"`
	XAxis          string   `mapstructure:"x-axis"`
	YAxis          string   `mapstructure:"y-axis"`
	Leaders        []string `mapstructure:"leader"`
	LeadersFile    string   `mapstructure:"leaders-file"`
	XCaption       string   `mapstructure:"x-caption"`
	YCaption       string   `mapstructure:"y-caption"`
	CountCaption   string   `mapstructure:"count-caption"`
	StripQualifier bool     `mapstructure:"strip-qualifier"`
	Output         string   `mapstructure:"output"`
	OutputFile     string   `mapstructure:"output-file"`
	Width          int      `mapstructure:"width"`
	CacheBackend   string   `mapstructure:"cache-backend"`
	CacheDBConnect string   `mapstructure:"cache-db-connect"`
	CacheDir       string   `mapstructure:"cache-dir"`
	CacheFile      string   `mapstructure:"cache-file"`
	Refresh        bool     `mapstructure:"refresh"`
	Color          string   `mapstructure:"color"`
	LogLevel       string   `mapstructure:"log-level"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SectionLeaders != nil {
		clone.SectionLeaders = maps.Clone(c.SectionLeaders)
	}
	return &clone
}

// XLabel returns the caption of the horizontal axis.
func (c *Config) XLabel() string {
	if c.XCaption != "" {
		return c.XCaption
	}
	return c.XAxis.Caption()
}

// YLabel returns the caption of the vertical axis.
func (c *Config) YLabel() string {
	if c.YCaption != "" {
		return c.YCaption
	}
	return c.YAxis.Caption()
}

// CountLabel returns the caption of the cell values.
func (c *Config) CountLabel() string {
	if c.CountCaption != "" {
		return c.CountCaption
	}
	return schema.CountCaption
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAssignment(cfg, input); err != nil {
		return err
	}
	if err := processAPISettings(cfg, input); err != nil {
		return err
	}
	if err := processAxes(cfg, input); err != nil {
		return err
	}
	if err := processSectionLeaders(cfg, input); err != nil {
		return err
	}
	return nil
}

// RequireAssignment returns an error when no assignment was selected.
func RequireAssignment(cfg *Config) error {
	if cfg.AssignmentID <= 0 {
		return fmt.Errorf("an assignment id is required (positional argument or --assignment)")
	}
	return nil
}

// ParseAssignmentID parses a positive assignment id.
func ParseAssignmentID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid assignment id '%s'. must be a positive integer", s)
	}
	return id, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.CacheBackend, connStr string) error {
	switch backend {
	case schema.FileBackend, schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateCacheBackend normalizes and checks a cache backend name with its connection string.
func ValidateCacheBackend(backend, connStr string) (schema.CacheBackend, error) {
	b := schema.CacheBackend(strings.ToLower(strings.TrimSpace(backend)))
	if _, ok := schema.ValidCacheBackends[b]; !ok {
		return "", fmt.Errorf("invalid cache backend '%s'. must be file, sqlite, mysql, postgresql, none", backend)
	}
	if err := ValidateDatabaseConnectionString(b, connStr); err != nil {
		return "", err
	}
	return b, nil
}

// validateSimpleInputs processes and validates the output and cache fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.XCaption = input.XCaption
	cfg.YCaption = input.YCaption
	cfg.CountCaption = input.CountCaption
	cfg.StripQualifier = input.StripQualifier
	cfg.CacheDir = input.CacheDir
	cfg.CacheFile = input.CacheFile
	cfg.Refresh = input.Refresh

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	cfg.LogLevel = level

	// --- 1. Width Validation ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Backend Validation ---
	backend, err := ValidateCacheBackend(input.CacheBackend, input.CacheDBConnect)
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect

	return nil
}

// processAssignment resolves the assignment from the positional argument or the flag.
func processAssignment(cfg *Config, input *ConfigRawInput) error {
	raw := input.AssignmentStr
	if raw == "" {
		raw = input.Assignment
	}
	if raw == "" {
		cfg.AssignmentID = 0
		return nil
	}
	id, err := ParseAssignmentID(raw)
	if err != nil {
		return err
	}
	cfg.AssignmentID = id
	return nil
}

// processAPISettings validates the API endpoint, retry budget and timeout.
func processAPISettings(cfg *Config, input *ConfigRawInput) error {
	cfg.APIKey = strings.TrimSpace(input.APIKey)

	base := input.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL '%s'. must be an absolute http(s) URL", input.BaseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	cfg.BaseURL = u.String()

	if input.Retries < 0 || input.Retries > MaxRetries {
		return fmt.Errorf("retries must be between 0 and %d (received %d)", MaxRetries, input.Retries)
	}
	cfg.Retries = input.Retries

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout '%s'. must be a positive duration like 30s", input.Timeout)
		}
		cfg.Timeout = d
	}
	return nil
}

// processAxes parses both axis selectors. The vertical axis must resolve to one key per comment.
func processAxes(cfg *Config, input *ConfigRawInput) error {
	x, err := schema.ParseAxis(input.XAxis)
	if err != nil {
		return fmt.Errorf("invalid --x-axis: %w", err)
	}
	y, err := schema.ParseAxis(input.YAxis)
	if err != nil {
		return fmt.Errorf("invalid --y-axis: %w", err)
	}
	if y.FanOut() {
		return fmt.Errorf("invalid --y-axis '%s'. it can match several values per comment; use it as --x-axis instead", y)
	}
	cfg.XAxis = x
	cfg.YAxis = y
	return nil
}

// processSectionLeaders merges "section=leader" entries with an optional YAML mapping file.
// Entries given on the command line win over the file.
func processSectionLeaders(cfg *Config, input *ConfigRawInput) error {
	if len(input.Leaders) == 0 && input.LeadersFile == "" {
		cfg.SectionLeaders = nil
		return nil
	}

	leaders := map[string]string{}
	if input.LeadersFile != "" {
		fromFile, err := LoadSectionLeaders(input.LeadersFile)
		if err != nil {
			return err
		}
		maps.Copy(leaders, fromFile)
	}
	for _, entry := range input.Leaders {
		section, leader, ok := strings.Cut(entry, "=")
		section = strings.TrimSpace(section)
		leader = strings.TrimSpace(leader)
		if !ok || section == "" || leader == "" {
			return fmt.Errorf("invalid --leader '%s'. expected section=leader", entry)
		}
		leaders[section] = leader
	}
	cfg.SectionLeaders = leaders
	return nil
}

// LoadSectionLeaders reads a YAML mapping of section name to leader name.
func LoadSectionLeaders(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read leaders file %q: %w", path, err)
	}
	leaders := map[string]string{}
	if err := yaml.Unmarshal(data, &leaders); err != nil {
		return nil, fmt.Errorf("leaders file %q must be a mapping of section to leader: %w", path, err)
	}
	return leaders, nil
}
