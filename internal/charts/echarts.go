package charts

import (
	"fmt"
	"io"
	"time"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/samber/lo"

	"comparador/internal/dates"
)

// RenderECharts writes spec as a standalone go-echarts page. Shadow traces
// are skipped: ECharts draws its own line emphasis and the shadows carry no
// data.
func RenderECharts(w io.Writer, spec ChartSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	primaries := spec.Primaries()
	if len(primaries) == 0 {
		return ErrEmptySpec
	}

	selected := make(map[string]bool, len(primaries))
	for _, tr := range primaries {
		selected[tr.Name] = bool(tr.Visible)
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.Layout.Title.Text,
			Theme:     types.ThemeChalk,
			Width:     "1200px",
			Height:    fmt.Sprintf("%dpx", spec.Layout.Height),
		}),
		echarts.WithTitleOpts(opts.Title{
			Title: spec.Layout.Title.Text,
		}),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    true,
			Trigger: "axis",
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show:     true,
			Selected: selected,
		}),
		echarts.WithDataZoomOpts(opts.DataZoom{
			Type: "inside",
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Name: spec.Layout.XAxis.Title.Text,
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name: spec.Layout.YAxis.Title.Text,
			Type: "value",
		}),
	)
	// the extended axis is placed on the right
	line.ExtendYAxis(opts.YAxis{
		Name: spec.Layout.YAxis2.Title.Text,
		Type: "value",
	})

	// both slots share the x-axis; the longest series defines the labels
	longest := lo.MaxBy(primaries, func(a, b Trace) bool { return len(a.X) > len(b.X) })
	line.SetXAxis(lo.Map(longest.X, func(t time.Time, _ int) string { return dates.HoverLabel(t) }))

	for _, tr := range primaries {
		axisIndex := 0
		if tr.YAxis == "y2" {
			axisIndex = 1
		}
		data := lo.Map(tr.Y, func(v float64, _ int) opts.LineData { return opts.LineData{Value: v} })
		line.AddSeries(tr.Name, data,
			echarts.WithLineChartOpts(opts.LineChart{YAxisIndex: axisIndex}),
			echarts.WithLineStyleOpts(opts.LineStyle{Color: tr.Line.Color, Width: float32(tr.Line.Width)}),
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: tr.Line.Color}),
		)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render echarts page: %w", err)
	}
	return nil
}
