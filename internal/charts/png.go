package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingVisible is returned by RenderPNG when every trace is legend-only
var ErrNothingVisible = errors.New("no visible trace to export")

var exportBackground = drawing.Color{R: 30, G: 33, B: 48, A: 255}

// RenderPNG writes the chart export image: ToImageButtonOptions width and
// height multiplied by its scale. Only visible traces are drawn, shadows
// first so each primary sits on top.
func RenderPNG(w io.Writer, spec ChartSpec, ro RenderOptions) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	img := ro.ToImageButtonOptions
	scale := img.Scale
	if scale <= 0 {
		scale = 1
	}

	var xTicks []chart.Tick
	for i, v := range spec.Layout.XAxis.TickVals {
		if i < len(spec.Layout.XAxis.TickText) {
			xTicks = append(xTicks, chart.Tick{Value: chart.TimeToFloat64(v), Label: spec.Layout.XAxis.TickText[i]})
		}
	}

	graph := chart.Chart{
		Title: spec.Layout.Title.Text,
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorWhite,
		},
		Width:  int(float64(img.Width) * scale),
		Height: int(float64(img.Height) * scale),
		DPI:    chart.DefaultDPI * scale,
		Background: chart.Style{
			FillColor: exportBackground,
			Padding: chart.Box{
				Top:    spec.Layout.Margin.T,
				Left:   spec.Layout.Margin.L,
				Right:  spec.Layout.Margin.R,
				Bottom: spec.Layout.Margin.B,
			},
		},
		Canvas: chart.Style{FillColor: exportBackground},
		XAxis: chart.XAxis{
			Name:      spec.Layout.XAxis.Title.Text,
			NameStyle: chart.Style{FontColor: drawing.ColorWhite},
			Style:     chart.Style{FontColor: drawing.ColorWhite, StrokeColor: hexColor(gridColor)},
			Ticks:     xTicks,
		},
		YAxis: chart.YAxis{
			Name:           spec.Layout.YAxis.Title.Text,
			NameStyle:      chart.Style{FontColor: parseColor(spec.Layout.YAxis.Title.Font.Color)},
			Style:          chart.Style{FontColor: drawing.ColorWhite},
			ValueFormatter: twoDecimals,
		},
		YAxisSecondary: chart.YAxis{
			Name:           spec.Layout.YAxis2.Title.Text,
			NameStyle:      chart.Style{FontColor: parseColor(spec.Layout.YAxis2.Title.Font.Color)},
			Style:          chart.Style{FontColor: drawing.ColorWhite},
			ValueFormatter: twoDecimals,
		},
	}

	// go-chart needs a series on the primary axis; when slot 1 draws
	// nothing the right-hand series take over the left axis
	secondary := "y2"
	if !drawsOn(spec.Data, "y") {
		secondary = ""
		graph.YAxis.Name = graph.YAxisSecondary.Name
		graph.YAxis.NameStyle = graph.YAxisSecondary.NameStyle
		graph.YAxisSecondary = chart.YAxis{}
	}

	for _, tr := range spec.Data {
		if !drawn(tr) {
			continue
		}
		ts := chart.TimeSeries{
			Name: tr.Name,
			Style: chart.Style{
				StrokeColor: parseColor(tr.Line.Color),
				StrokeWidth: float64(tr.Line.Width) * scale,
			},
			XValues: tr.X,
			YValues: tr.Y,
		}
		if tr.YAxis == secondary {
			ts.YAxis = chart.YAxisSecondary
		}
		graph.Series = append(graph.Series, ts)
	}
	if len(graph.Series) == 0 {
		return ErrNothingVisible
	}
	if secondary == "" {
		graph.YAxis.Range = flatRange(spec.Data, "y2")
	} else {
		graph.YAxis.Range = flatRange(spec.Data, "y")
		graph.YAxisSecondary.Range = flatRange(spec.Data, "y2")
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart export: %w", err)
	}
	return nil
}

func drawn(tr Trace) bool {
	return bool(tr.Visible) && len(tr.Y) > 0
}

func drawsOn(traces []Trace, axis string) bool {
	for _, tr := range traces {
		if drawn(tr) && tr.YAxis == axis {
			return true
		}
	}
	return false
}

// flatRange pads the axis of a constant series, which go-chart rejects as
// a zero-width range. It returns nil when the axis has a real span.
func flatRange(traces []Trace, axis string) chart.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, tr := range traces {
		if !drawn(tr) || tr.YAxis != axis {
			continue
		}
		for _, v := range tr.Y {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) || lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

func twoDecimals(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	return ""
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// parseColor understands the two notations the builder emits: "#rrggbb"
// and "rgba(r, g, b, a)" with a in [0,1].
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return hexColor(s)
	}
	if !strings.HasPrefix(s, "rgba(") || !strings.HasSuffix(s, ")") {
		return drawing.ColorWhite
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, "rgba("), ")"), ",")
	if len(parts) != 4 {
		return drawing.ColorWhite
	}
	var c [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return drawing.ColorWhite
		}
		c[i] = v
	}
	return drawing.Color{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: uint8(c[3]*255 + 0.5)}
}
