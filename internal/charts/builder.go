package charts

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"comparador/internal/dates"
	"comparador/internal/indicators"
	"comparador/internal/logger"
	"comparador/internal/models"
)

// ErrNoData is returned when a payload has nothing to chart
var ErrNoData = models.ErrNoData

// ShadowFactor scales the shadow line just beneath its primary line
const ShadowFactor = 0.995

// MaxTicks bounds the number of labelled x-axis ticks
const MaxTicks = 12

const (
	chartTitle = "Comparação de Indicadores"
	gridColor  = "#333333"
	textColor  = "#ffffff"
	hoverBG    = "rgba(42, 47, 66, 0.9)"

	// day/month/year like dates.HoverLabel, for the unified hover header
	hoverDateFormat = "%d/%m/%Y"

	// fixed %{text} keeps the hover box to our own label; the empty
	// <extra> suppresses the secondary trace-name box
	hoverTemplate = "%{text}<extra></extra>"
)

type slotStyle struct {
	color       string
	shadowColor string
	axis        string
}

var slotStyles = [3]slotStyle{
	1: {color: "#4da6ff", shadowColor: "rgba(77, 166, 255, 0.05)", axis: "y"},
	2: {color: "#50fa7b", shadowColor: "rgba(80, 250, 123, 0.05)", axis: "y2"},
}

// Build turns a /dados payload and the current selection into a chart spec.
// Traces are ordered shadow1, primary1, shadow2, primary2 so each primary
// line is drawn above its shadow.
func Build(payload models.ComparisonPayload, sel models.RefreshRequest) (ChartSpec, error) {
	if err := payload.Validate(); err != nil {
		return ChartSpec{}, err
	}

	x, err := dates.NormalizeAll(payload.Datas)
	if err != nil {
		return ChartSpec{}, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	key1 := selectionKey(sel.Indicador1, payload.Indicador1)
	key2 := selectionKey(sel.Indicador2, payload.Indicador2)

	s1 := series(payload.Indicador1, x, payload.Valores1)
	s2 := series(payload.Indicador2, x, payload.Valores2)

	shadow1, primary1 := slotTraces(1, s1, key1, sel.ShowSeries1)
	shadow2, primary2 := slotTraces(2, s2, key2, sel.ShowSeries2)

	return ChartSpec{
		Data:   []Trace{shadow1, primary1, shadow2, primary2},
		Layout: buildLayout(payload.Indicador1, payload.Indicador2, x),
	}, nil
}

func selectionKey(selected, fallback string) string {
	if selected != "" {
		return selected
	}
	return strings.ToLower(fallback)
}

// series pairs values with the shared x-axis. Indicators can come from
// different upstreams, so a length mismatch pairs by index up to the
// shorter side.
func series(name string, x []time.Time, values []float64) models.IndicatorSeries {
	n := min(len(x), len(values))
	if len(values) != len(x) && len(values) > 0 {
		logger.Component("charts").Warn("series length differs from dates", logger.Fields{
			"indicador": name,
			"datas":     len(x),
			"valores":   len(values),
		})
	}
	return models.IndicatorSeries{Name: name, Dates: x[:n], Values: values[:n]}
}

func slotTraces(slot int, s models.IndicatorSeries, key string, visible bool) (shadow, primary Trace) {
	style := slotStyles[slot]
	hidden := false

	shadow = Trace{
		X:          s.Dates,
		Y:          lo.Map(s.Values, func(v float64, _ int) float64 { return v * ShadowFactor }),
		Name:       s.Name + "_shadow",
		Type:       "scatter",
		Mode:       "lines",
		Visible:    Visibility(visible),
		YAxis:      style.axis,
		Line:       Line{Color: style.shadowColor, Width: 8, Shape: "linear"},
		ShowLegend: &hidden,
		HoverInfo:  "skip",
		Shadow:     true,
		Slot:       slot,
	}

	primary = Trace{
		X:             s.Dates,
		Y:             s.Values,
		Name:          s.Name,
		Type:          "scatter",
		Mode:          "lines",
		Visible:       Visibility(visible),
		YAxis:         style.axis,
		Line:          Line{Color: style.color, Width: 2, Shape: "linear"},
		HoverTemplate: hoverTemplate,
		Text: lo.Map(s.Values, func(v float64, _ int) string {
			return fmt.Sprintf("%s: %s", s.Name, HoverValue(key, v))
		}),
		HoverLabel: &HoverLabel{
			BGColor:     hoverBG,
			BorderColor: indicators.ColorFor(key),
			Font:        Font{Color: textColor, Size: 12},
		},
		Slot: slot,
	}
	return shadow, primary
}

// HoverValue renders v for the hover box: registry formatting for keys
// with a dedicated entry, two decimals for other nominal indicators and a
// percentage for rates.
func HoverValue(key string, v float64) string {
	if indicators.Known(key) || !models.IsNominal(key) {
		return indicators.FormatFloat(indicators.ParseKind(key), v)
	}
	return fmt.Sprintf("%.2f", v)
}

func buildLayout(name1, name2 string, x []time.Time) Layout {
	ticks := dates.Ticks(x, MaxTicks)
	noGrid := false

	return Layout{
		Title:      Title{Text: chartTitle, Font: Font{Color: textColor, Size: 24}},
		ShowLegend: true,
		Height:     700,
		HoverMode:  "x unified",
		XAxis: Axis{
			Title:       Title{Text: "Data", Font: Font{Color: textColor}},
			Type:        "date",
			GridColor:   gridColor,
			LineColor:   gridColor,
			TickFont:    Font{Color: textColor},
			TickVals:    lo.Map(ticks, func(t dates.Tick, _ int) time.Time { return t.Value }),
			TickText:    lo.Map(ticks, func(t dates.Tick, _ int) string { return t.Label }),
			HoverFormat: hoverDateFormat,
		},
		YAxis: Axis{
			Title:     Title{Text: name1, Font: Font{Color: slotStyles[1].color}},
			Side:      "left",
			GridColor: gridColor,
			LineColor: gridColor,
			TickFont:  Font{Color: textColor},
		},
		YAxis2: Axis{
			Title:      Title{Text: name2, Font: Font{Color: slotStyles[2].color}},
			Side:       "right",
			Overlaying: "y",
			ShowGrid:   &noGrid,
			GridColor:  gridColor,
			LineColor:  gridColor,
			TickFont:   Font{Color: textColor},
		},
		PlotBGColor:  "transparent",
		PaperBGColor: "transparent",
		Font:         Font{Color: textColor},
		Margin:       Margin{L: 60, R: 60, T: 80, B: 50},
	}
}
