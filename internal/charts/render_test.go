package charts

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"comparador/internal/models"
)

func TestVisibilityJSON(t *testing.T) {
	tests := []struct {
		in   Visibility
		want string
	}{
		{true, "true"},
		{false, `"legendonly"`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, string(b))

		var back Visibility
		require.NoError(t, json.Unmarshal(b, &back))
		require.Equal(t, tt.in, back)
	}

	var v Visibility
	require.Error(t, json.Unmarshal([]byte(`"maybe"`), &v))
}

func TestValidate(t *testing.T) {
	spec, err := Build(samplePayload(), sampleSelection())
	require.NoError(t, err)

	require.True(t, errors.Is(ChartSpec{}.Validate(), ErrEmptySpec))

	bad := spec
	bad.Data = append([]Trace(nil), spec.Data...)
	bad.Data[1].YAxis = "y3"
	require.Error(t, bad.Validate())

	bad.Data[1].YAxis = "y"
	bad.Data[1].Y = bad.Data[1].Y[:1]
	require.Error(t, bad.Validate())
}

func TestMarshalPlotly(t *testing.T) {
	spec, err := Build(samplePayload(), sampleSelection())
	require.NoError(t, err)

	body, err := spec.MarshalPlotly(DefaultRenderOptions())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Contains(t, decoded, "data")
	require.Contains(t, decoded, "layout")
	require.Contains(t, decoded, "config")

	var cfg RenderOptions
	require.NoError(t, json.Unmarshal(decoded["config"], &cfg))
	require.Equal(t, DefaultRenderOptions(), cfg)
	require.False(t, cfg.DisplayModeBar)
	require.Equal(t, []string{"autoScale2d"}, cfg.ModeBarButtonsToRemove)
	require.Equal(t, "comparador_indicadores", cfg.ToImageButtonOptions.Filename)
}

func TestPlotlySnippet(t *testing.T) {
	spec, err := Build(samplePayload(), sampleSelection())
	require.NoError(t, err)

	snip, err := PlotlySnippet("grafico", spec, DefaultRenderOptions())
	require.NoError(t, err)
	require.Equal(t, "grafico", snip.ID)
	require.Equal(t, `<div id="grafico" style="width:100%;height:700px;"></div>`, snip.Div)
	require.Contains(t, snip.Script, "getElementById('grafico')")
	require.Contains(t, snip.Script, "Plotly.newPlot(el,s.data,s.layout,s.config)")
	require.Contains(t, snip.HTML, PlotlyCDN)
	// the hover template's <extra> tag is escaped inside the script
	require.NotContains(t, snip.Script, "<extra>")

	_, err = PlotlySnippet("x", ChartSpec{}, DefaultRenderOptions())
	require.ErrorIs(t, err, ErrEmptySpec)
}

func TestRenderECharts(t *testing.T) {
	spec, err := Build(samplePayload(), sampleSelection())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderECharts(&buf, spec))

	page := buf.String()
	require.Contains(t, page, "Comparação de Indicadores")
	require.Contains(t, page, "DOLAR")
	require.Contains(t, page, "IBOV")
	require.NotContains(t, page, "_shadow")
}

func TestRenderPNG(t *testing.T) {
	spec, err := Build(samplePayload(), sampleSelection())
	require.NoError(t, err)

	ro := DefaultRenderOptions()
	ro.ToImageButtonOptions.Scale = 1

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, spec, ro))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestRenderPNGSingleAxis(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ComparisonPayload, *models.RefreshRequest)
	}{
		{"only slot 2 shown", func(_ *models.ComparisonPayload, sel *models.RefreshRequest) { sel.ShowSeries1 = false }},
		{"only slot 1 shown", func(_ *models.ComparisonPayload, sel *models.RefreshRequest) { sel.ShowSeries2 = false }},
		{"slot 1 without values", func(p *models.ComparisonPayload, _ *models.RefreshRequest) { p.Valores1 = nil }},
		{"slot 2 without values", func(p *models.ComparisonPayload, _ *models.RefreshRequest) { p.Valores2 = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, sel := samplePayload(), sampleSelection()
			tt.mutate(&p, &sel)
			spec, err := Build(p, sel)
			require.NoError(t, err)

			ro := DefaultRenderOptions()
			ro.ToImageButtonOptions.Scale = 1

			var buf bytes.Buffer
			require.NoError(t, RenderPNG(&buf, spec, ro))
			require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
		})
	}
}

func TestRenderPNGNothingVisible(t *testing.T) {
	sel := sampleSelection()
	sel.ShowSeries1 = false
	sel.ShowSeries2 = false
	spec, err := Build(samplePayload(), sel)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.ErrorIs(t, RenderPNG(&buf, spec, DefaultRenderOptions()), ErrNothingVisible)
}

func TestParseColor(t *testing.T) {
	c := parseColor("#4da6ff")
	require.Equal(t, uint8(0x4d), c.R)
	require.Equal(t, uint8(0xa6), c.G)
	require.Equal(t, uint8(0xff), c.B)

	c = parseColor("rgba(77, 166, 255, 0.05)")
	require.Equal(t, uint8(77), c.R)
	require.Equal(t, uint8(13), c.A)

	require.Equal(t, drawing.ColorWhite, parseColor("nonsense"))
	require.Equal(t, drawing.ColorWhite, parseColor("rgba(1, 2)"))
}

func TestRenderPNGConstantSeries(t *testing.T) {
	p := samplePayload()
	p.Valores1 = []float64{10.5, 10.5, 10.5}

	spec, err := Build(p, sampleSelection())
	require.NoError(t, err)
	require.Nil(t, flatRange(spec.Data, "y2"))

	// without its shadow the first slot spans nothing
	spec.Data[0].Visible = false
	r, ok := flatRange(spec.Data, "y").(*chart.ContinuousRange)
	require.True(t, ok)
	require.Equal(t, 9.5, r.Min)
	require.Equal(t, 11.5, r.Max)

	ro := DefaultRenderOptions()
	ro.ToImageButtonOptions.Scale = 1

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, spec, ro))
}
