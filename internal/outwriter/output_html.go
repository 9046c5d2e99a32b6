package outwriter

import (
	"fmt"
	"io"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth      = "1200px"
	minChartHeight  = 400
	pixelsPerColumn = 28
	rotateDegrees   = 45
	labelFontSize   = 10
	innerLabelSize  = 9
)

// heatRamp runs from white for empty cells to dark green for the busiest ones.
var heatRamp = []string{"#ffffff", "#e5f5e0", "#a1d99b", "#41ab5d", "#006d2c"}

// writeHeatmapHTML renders a standalone page with an annotated heatmap chart.
func writeHeatmapHTML(w io.Writer, dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) error {
	hm := newHeatmapChart(dense, cfg, meta)
	if err := hm.Render(w); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	return nil
}

func newHeatmapChart(dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) *charts.HeatMap {
	peak := dense.Max()
	if peak == 0 {
		peak = 1
	}
	height := max(minChartHeight, 200+pixelsPerColumn*len(dense.Columns))

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "codePost Grading Heatmap",
			Subtitle: fmt.Sprintf("Assignment %d: %s by %s", meta.AssignmentID, cfg.YLabel(), cfg.XLabel()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: fmt.Sprintf("%dpx", height),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: cfg.XLabel(), Type: "category", Data: dense.Rows,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Rotate: rotateDegrees, Interval: "0", FontSize: labelFontSize},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: cfg.YLabel(), Type: "category", Data: dense.Columns,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Interval: "0", FontSize: labelFontSize},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: 0, Max: float32(peak),
			InRange: &opts.VisualMapInRange{Color: heatRamp},
			Orient:  "horizontal", Left: "center", Bottom: "2%",
		}),
		charts.WithGridOpts(opts.Grid{
			Left: "30%", Right: "5%", Top: "60", Bottom: "20%",
		}),
	)
	hm.AddSeries(cfg.CountLabel(), heatmapData(dense), charts.WithLabelOpts(opts.Label{
		Show: opts.Bool(true), Position: "inside", Color: "black", FontSize: innerLabelSize,
	}))
	return hm
}

// heatmapData lays every dense cell out as [x index, y index, count].
func heatmapData(dense schema.DenseTable) []opts.HeatMapData {
	data := make([]opts.HeatMapData, 0, len(dense.Rows)*len(dense.Columns))
	for i := range dense.Rows {
		for j := range dense.Columns {
			data = append(data, opts.HeatMapData{Value: []any{i, j, dense.Counts[i][j]}})
		}
	}
	return data
}
