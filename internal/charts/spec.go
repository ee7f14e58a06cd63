package charts

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrEmptySpec is returned by renderers handed a spec without traces
var ErrEmptySpec = errors.New("chart spec has no traces")

// ChartSpec is the renderer-agnostic description of one comparison chart.
// Its JSON form is what Plotly.newPlot expects for data and layout.
type ChartSpec struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Visibility marshals to true or "legendonly"
type Visibility bool

func (v Visibility) MarshalJSON() ([]byte, error) {
	if v {
		return []byte("true"), nil
	}
	return []byte(`"legendonly"`), nil
}

func (v *Visibility) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*v = true
	case `"legendonly"`, "false":
		*v = false
	default:
		return fmt.Errorf("invalid trace visibility %s", b)
	}
	return nil
}

// Trace is one line series
type Trace struct {
	X             []time.Time `json:"x"`
	Y             []float64   `json:"y"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Mode          string      `json:"mode"`
	Visible       Visibility  `json:"visible"`
	YAxis         string      `json:"yaxis"`
	Line          Line        `json:"line"`
	ShowLegend    *bool       `json:"showlegend,omitempty"`
	HoverInfo     string      `json:"hoverinfo,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	Text          []string    `json:"text,omitempty"`
	HoverLabel    *HoverLabel `json:"hoverlabel,omitempty"`

	// Shadow marks the decorative glow under a primary line; renderers that
	// cannot draw it skip it, and it never carries data of its own.
	Shadow bool `json:"-"`
	// Slot is 1 or 2, the indicator the trace belongs to.
	Slot int `json:"-"`
}

// Line styles a trace
type Line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
	Shape string `json:"shape"`
}

// HoverLabel styles the hover box of a trace
type HoverLabel struct {
	BGColor     string `json:"bgcolor"`
	BorderColor string `json:"bordercolor"`
	Font        Font   `json:"font"`
}

// Font is a color and optional size
type Font struct {
	Color string `json:"color"`
	Size  int    `json:"size,omitempty"`
}

// Title is a text with its font
type Title struct {
	Text string `json:"text"`
	Font Font   `json:"font"`
}

// Axis describes one axis
type Axis struct {
	Title       Title       `json:"title"`
	Type        string      `json:"type,omitempty"`
	Side        string      `json:"side,omitempty"`
	Overlaying  string      `json:"overlaying,omitempty"`
	ShowGrid    *bool       `json:"showgrid,omitempty"`
	GridColor   string      `json:"gridcolor,omitempty"`
	LineColor   string      `json:"linecolor,omitempty"`
	TickFont    Font        `json:"tickfont"`
	TickVals    []time.Time `json:"tickvals,omitempty"`
	TickText    []string    `json:"ticktext,omitempty"`
	HoverFormat string      `json:"hoverformat,omitempty"` // d3 time format of the unified hover header
}

// Margin in pixels
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Layout is the single layout descriptor of a chart
type Layout struct {
	Title        Title  `json:"title"`
	ShowLegend   bool   `json:"showlegend"`
	Height       int    `json:"height"`
	HoverMode    string `json:"hovermode"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	YAxis2       Axis   `json:"yaxis2"`
	PlotBGColor  string `json:"plot_bgcolor"`
	PaperBGColor string `json:"paper_bgcolor"`
	Font         Font   `json:"font"`
	Margin       Margin `json:"margin"`
}

// ImageExport fixes the PNG export produced by the chart toolbar
type ImageExport struct {
	Format   string  `json:"format"`
	Filename string  `json:"filename"`
	Height   int     `json:"height"`
	Width    int     `json:"width"`
	Scale    float64 `json:"scale"`
}

// RenderOptions are the renderer configuration flags passed with every spec
type RenderOptions struct {
	Responsive             bool        `json:"responsive"`
	DisplayModeBar         bool        `json:"displayModeBar"`
	ScrollZoom             bool        `json:"scrollZoom"`
	ModeBarButtonsToRemove []string    `json:"modeBarButtonsToRemove"`
	ToImageButtonOptions   ImageExport `json:"toImageButtonOptions"`
}

// DefaultRenderOptions returns the fixed options used for every render
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Responsive:             true,
		DisplayModeBar:         false,
		ScrollZoom:             true,
		ModeBarButtonsToRemove: []string{"autoScale2d"},
		ToImageButtonOptions: ImageExport{
			Format:   "png",
			Filename: "comparador_indicadores",
			Height:   700,
			Width:    1200,
			Scale:    2,
		},
	}
}

// Validate checks the structural properties every renderer relies on
func (s ChartSpec) Validate() error {
	if len(s.Data) == 0 {
		return ErrEmptySpec
	}
	for i, tr := range s.Data {
		if tr.YAxis != "y" && tr.YAxis != "y2" {
			return fmt.Errorf("trace %d (%s): unknown axis %q", i, tr.Name, tr.YAxis)
		}
		if len(tr.X) != len(tr.Y) {
			return fmt.Errorf("trace %d (%s): %d x values for %d y values", i, tr.Name, len(tr.X), len(tr.Y))
		}
	}
	return nil
}

// Primaries returns the data-carrying traces in order
func (s ChartSpec) Primaries() []Trace {
	var out []Trace
	for _, tr := range s.Data {
		if !tr.Shadow {
			out = append(out, tr)
		}
	}
	return out
}

// MarshalPlotly encodes the spec together with its render options as
// {"data":..,"layout":..,"config":..}
func (s ChartSpec) MarshalPlotly(opts RenderOptions) ([]byte, error) {
	return json.Marshal(struct {
		ChartSpec
		Config RenderOptions `json:"config"`
	}{s, opts})
}
