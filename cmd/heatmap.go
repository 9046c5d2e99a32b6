package cmd

import (
	"github.com/cpheatmap/cpheatmap/core"
	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/spf13/cobra"
)

// heatmapCmd builds the comment heatmap of one assignment.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap [assignment-id]",
	Short: "Count rubric comments by two axes and render the heatmap.",
	Long: `Count the rubric comments of a codePost assignment, cross-tabulated by two axes.

Rows come from --x-axis and columns from --y-axis. The row axis may place a comment
in several rows (sections, sectionsLeaders); the column axis must yield one value
per comment. Comments without a rubric link are never counted.

Records are read from the cache when present and fetched from codePost otherwise.

Examples:
  # Graders by rubric comment (default)
  cpheatmap heatmap 1234

  # Sections by rubric category
  cpheatmap heatmap 1234 --x-axis sections --y-axis rubricCategories

  # Section leaders, with the mapping in a YAML file
  cpheatmap heatmap 1234 --x-axis sectionsLeaders --leaders-file leaders.yaml

  # Interactive HTML chart
  cpheatmap heatmap 1234 --output html --output-file heatmap.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: assignmentSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHeatmap(rootCtx, cfg, cacheManager, session); err != nil {
			contract.LogFatal("Cannot build heatmap", err)
		}
	},
}

// fetchCmd ingests an assignment into the cache.
var fetchCmd = &cobra.Command{
	Use:   "fetch [assignment-id]",
	Short: "Fetch the rubric comments of an assignment into the cache.",
	Long: `Fetch every rubric-linked comment of a codePost assignment, enrich it with its
grader, students, sections and rubric category, and replace the cache entry.

A report of the ingestion (sections, students, comments, API requests) is printed.

Examples:
  # Refresh the cache of an assignment
  cpheatmap fetch 1234

  # Keep the report as JSON
  cpheatmap fetch 1234 --output json --output-file fetch.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: assignmentSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFetch(rootCtx, cfg, cacheManager, session); err != nil {
			contract.LogFatal("Cannot fetch assignment", err)
		}
	},
}

// gradesCmd prints the average grade of an assignment.
var gradesCmd = &cobra.Command{
	Use:   "grades [assignment-id]",
	Short: "Print the average grade of an assignment.",
	Long: `Average the grades of the graded submissions of a codePost assignment.

Ungraded submissions are skipped. The submissions are always read from codePost.

Examples:
  cpheatmap grades 1234
  cpheatmap grades 1234 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: assignmentSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGrades(rootCtx, cfg, session); err != nil {
			contract.LogFatal("Cannot compute grades", err)
		}
	},
}

// axesCmd lists the axis selectors.
var axesCmd = &cobra.Command{
	Use:     "axes",
	Short:   "List the axis selectors with their captions.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAxes(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list axes", err)
		}
	},
}
