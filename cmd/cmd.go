// Package cmd defines the command-line interface for cpheatmap.
package cmd

import (
	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(gradesCmd)
	rootCmd.AddCommand(axesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("assignment", "a", "", "codePost assignment id (alternative to the positional argument)")
	rootCmd.PersistentFlags().String("api-key", "", "codePost API key (prefer CP_API_KEY or a .codepost-config.yaml)")
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "codePost API base URL")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Retries for a failed API request")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Timeout of each API request")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.FileBackend), "Cache backend: file or sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for sqlite/mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory of the file cache (default: current directory)")
	rootCmd.PersistentFlags().String("cache-file", "", "File name of the file cache; a pinned file holds only the last fetched assignment (default: one file per assignment)")
	rootCmd.PersistentFlags().Bool("refresh", false, "Ignore cached records and fetch the assignment again")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of heatmapCmd to Viper
	heatmapCmd.Flags().StringP("x-axis", "x", string(schema.GradersAxis), "Row axis: graders or sections or sectionsLeaders or rubricComments or rubricCategories")
	heatmapCmd.Flags().StringP("y-axis", "y", string(schema.RubricCommentsAxis), "Column axis; must yield one value per comment")
	heatmapCmd.Flags().StringSlice("leader", nil, "Section leader as section=leader (repeatable)")
	heatmapCmd.Flags().String("leaders-file", "", "YAML mapping of section name to leader name")
	heatmapCmd.Flags().String("x-caption", "", "Caption of the row axis")
	heatmapCmd.Flags().String("y-caption", "", "Caption of the column axis")
	heatmapCmd.Flags().String("count-caption", "", "Caption of the cell counts")
	heatmapCmd.Flags().Bool("strip-qualifier", true, "Cut grader row labels at the first '@'")
	if err := viper.BindPFlags(heatmapCmd.Flags()); err != nil {
		contract.LogFatal("Error binding heatmap flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
