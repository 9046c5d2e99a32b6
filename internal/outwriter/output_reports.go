package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// PrintIngestReport outputs the summary of an ingestion pass.
func PrintIngestReport(report schema.IngestReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"metric", "value"}, func(csvWriter *csv.Writer) error {
				return csvWriter.WriteAll(ingestReportRows(report, false))
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIngestReportTable(w, report)
		}, "Wrote table")
	}
}

// ingestReportRows flattens the report into metric/value pairs.
func ingestReportRows(report schema.IngestReport, human bool) [][]string {
	num := func(n int) string {
		if human {
			return humanize.Comma(int64(n))
		}
		return strconv.Itoa(n)
	}
	duration := report.Duration.String()
	if human {
		duration = formatDuration(report.Duration)
	}
	return [][]string{
		{"Run ID", report.RunID},
		{"Assignment", strconv.FormatInt(report.AssignmentID, 10)},
		{"Sections", num(report.Sections)},
		{"Students", num(report.Students)},
		{"Rubric Comments", num(report.RubricComments)},
		{"Comments", num(report.Comments)},
		{"API Requests", num(report.Stats.Requests)},
		{"API Errors", num(report.Stats.Errors)},
		{"API Exceptions", num(report.Stats.Exceptions)},
		{"Memo Hits", num(report.Stats.MemoHits)},
		{"Duration", duration},
	}
}

func writeIngestReportTable(w io.Writer, report schema.IngestReport) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	if err := table.Bulk(ingestReportRows(report, true)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Cached %s comments of assignment %d\n", humanize.Comma(int64(report.Comments)), report.AssignmentID)
	return err
}

// PrintGradeSummary outputs the average grade of an assignment.
func PrintGradeSummary(summary schema.GradeSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"assignment_id", "submissions", "graded", "average"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return csvWriter.Write([]string{
					strconv.FormatInt(summary.AssignmentID, 10),
					strconv.Itoa(summary.Submissions),
					strconv.Itoa(summary.Graded),
					strconv.FormatFloat(summary.Average, 'f', 4, 64),
				})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "📊 Average grade on assignment %d is %s (%d of %d submissions graded)\n",
				summary.AssignmentID, contract.HeaderColor.Sprintf("%.2f", summary.Average),
				summary.Graded, summary.Submissions)
			return err
		}, "Wrote summary")
	}
}

// AxisInfo describes one axis selector for listings.
type AxisInfo struct {
	Name    schema.Axis `json:"name"`
	Caption string      `json:"caption"`
	FanOut  bool        `json:"fan_out"`
	YAxis   bool        `json:"y_axis"`
}

// AxisInfos lists every axis selector in declaration order.
func AxisInfos() []AxisInfo {
	infos := make([]AxisInfo, 0, len(schema.AllAxes))
	for _, a := range schema.AllAxes {
		infos = append(infos, AxisInfo{Name: a, Caption: a.Caption(), FanOut: a.FanOut(), YAxis: !a.FanOut()})
	}
	return infos
}

// PrintAxes lists every axis selector with its default caption.
func PrintAxes(cfg *contract.Config) error {
	infos := AxisInfos()
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, infos)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "caption", "fan_out", "y_axis"}, func(csvWriter *csv.Writer) error {
				for _, info := range infos {
					if err := csvWriter.Write([]string{
						string(info.Name), info.Caption,
						strconv.FormatBool(info.FanOut), strconv.FormatBool(info.YAxis),
					}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Axis", "Caption", "One per comment", "As --y-axis"})
			data := make([][]string, 0, len(infos))
			for _, info := range infos {
				data = append(data, []string{string(info.Name), info.Caption, yesNo(!info.FanOut), yesNo(info.YAxis)})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
