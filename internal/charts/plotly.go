package charts

import (
	"fmt"
)

// PlotlyCDN is the script tag loading the Plotly bundle the snippets target
const PlotlyCDN = `<script src="https://cdn.plot.ly/plotly-2.35.2.min.js" charset="utf-8"></script>`

// ChartSnippet is an embeddable chart fragment.
// Div holds the single root <div id="...">, Script the <script> block that
// draws into it, HTML both combined with the library include.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// PlotlySnippet renders spec as a Plotly.newPlot call targeting a div with id
func PlotlySnippet(id string, spec ChartSpec, opts RenderOptions) (ChartSnippet, error) {
	if err := spec.Validate(); err != nil {
		return ChartSnippet{}, err
	}

	// json.Marshal escapes <, > and & so the payload is safe inside <script>
	body, err := spec.MarshalPlotly(opts)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to encode chart spec: %w", err)
	}

	div := fmt.Sprintf(`<div id="%s" style="width:100%%;height:%dpx;"></div>`, id, spec.Layout.Height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var s=%s;Plotly.newPlot(el,s.data,s.layout,s.config);})();</script>`, id, body)

	html := fmt.Sprintf("%s\n<div class=\"chart-container\">\n\t%s\n</div>\n%s", PlotlyCDN, div, script)

	return ChartSnippet{ID: id, Title: spec.Layout.Title.Text, Div: div, Script: script, HTML: html}, nil
}
