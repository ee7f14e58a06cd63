package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"comparador/internal/charts"
	"comparador/internal/config"
	"comparador/internal/logger"
	"comparador/internal/models"
	"comparador/internal/overlay"
	"comparador/internal/refresh"
	"comparador/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
	})
}

// HandleSelection applies a form change and schedules a debounced refresh
func (s *Server) HandleSelection(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Form.Apply(r.PostForm); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.Controller.Trigger()
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"selection": s.Form.Selection(),
	})
}

// HandleRefresh runs a refresh immediately, like a page load
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	err := s.Controller.Refresh(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, s.state())
	case errors.Is(err, refresh.ErrStaleResponse):
		writeJSON(w, http.StatusConflict, s.state())
	default:
		status := http.StatusBadGateway
		if refresh.IsKind(err, refresh.KindRender) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, s.state())
	}
}

type chartState struct {
	Available  bool      `json:"available"`
	Revision   uint64    `json:"revision,omitempty"`
	RenderedAt time.Time `json:"rendered_at,omitempty"`
	Traces     int       `json:"traces,omitempty"`
}

type stateResponse struct {
	State     refresh.State         `json:"state"`
	Overlay   overlay.State         `json:"overlay"`
	Selection models.RefreshRequest `json:"selection"`
	Chart     chartState            `json:"chart"`
	Last      refresh.Result        `json:"last"`
}

func (s *Server) state() stateResponse {
	resp := stateResponse{
		State:     s.Controller.State(),
		Overlay:   s.Panel.Snapshot(),
		Selection: s.Form.Selection(),
		Last:      s.Controller.Last(),
	}
	if c, ok := s.Charts.Latest(); ok {
		resp.Chart = chartState{Available: true, Revision: c.Revision, RenderedAt: c.RenderedAt, Traces: len(c.Spec.Data)}
	}
	return resp
}

// HandleState reports controller, overlay, form and chart state
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) latest(w http.ResponseWriter) (RenderedChart, bool) {
	c, ok := s.Charts.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no chart rendered yet")
	}
	return c, ok
}

// HandleChart serves the chart as Plotly {data, layout, config} JSON
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	c, ok := s.latest(w)
	if !ok {
		return
	}

	body, err := c.Spec.MarshalPlotly(c.Options)
	if err != nil {
		s.log.Error("failed to encode chart", err)
		writeError(w, http.StatusInternalServerError, "failed to encode chart")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// HandleChartHTML serves the embeddable Plotly fragment
func (s *Server) HandleChartHTML(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	c, ok := s.latest(w)
	if !ok {
		return
	}

	snippet, err := charts.PlotlySnippet(ChartDivID, c.Spec, c.Options)
	if err != nil {
		s.log.Error("failed to render chart snippet", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, snippet.HTML)
}

// HandleECharts serves the chart as a standalone ECharts page
func (s *Server) HandleECharts(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	c, ok := s.latest(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderECharts(&buf, c.Spec); err != nil {
		s.log.Error("failed to render echarts page", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleChartPNG serves the image export of the chart
func (s *Server) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	c, ok := s.latest(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderPNG(&buf, c.Spec, c.Options); err != nil {
		if errors.Is(err, charts.ErrNothingVisible) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.log.Error("failed to render chart export", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, c.Options.ToImageButtonOptions.Filename))
	w.Write(buf.Bytes())
}

// HandleExport stores the current chart through the storage client
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}
	c, ok := s.latest(w)
	if !ok {
		return
	}

	files, err := ExportFiles(c)
	if err != nil {
		s.log.Error("failed to build export", err)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	paths, err := storage.StoreExport(r.Context(), s.Storage, time.Now(), files)
	if err != nil {
		s.log.Error("failed to store export", err)
		writeError(w, http.StatusInternalServerError, "failed to store export")
		return
	}

	s.log.Info("chart exported", logger.Fields{"files": len(paths), "revision": c.Revision})
	writeJSON(w, http.StatusCreated, map[string]interface{}{"paths": paths})
}

// ExportFiles renders every export format of c. The PNG is omitted when
// no trace is visible.
func ExportFiles(c RenderedChart) (map[string][]byte, error) {
	body, err := c.Spec.MarshalPlotly(c.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	files := map[string][]byte{"chart.json": body}

	snippet, err := charts.PlotlySnippet(ChartDivID, c.Spec, c.Options)
	if err != nil {
		return nil, err
	}
	files["chart.html"] = []byte(snippet.HTML)

	var png bytes.Buffer
	switch err := charts.RenderPNG(&png, c.Spec, c.Options); {
	case err == nil:
		files["chart.png"] = png.Bytes()
	case !errors.Is(err, charts.ErrNothingVisible):
		return nil, err
	}
	return files, nil
}

// HandleListExports lists stored exports
func (s *Server) HandleListExports(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	files, err := s.Storage.ListDir(r.Context(), "", true)
	if err != nil {
		s.log.Error("failed to list exports", err)
		writeError(w, http.StatusInternalServerError, "failed to list exports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files":     files,
		"count":     len(files),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves a stored export file
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" || strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	exists, err := s.Storage.FileExists(r.Context(), filePath)
	if err != nil {
		s.log.Error("failed to check export file", err, logger.Fields{"path": filePath})
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	data, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		s.log.Error("failed to read export file", err, logger.Fields{"path": filePath})
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}

// Browsers omit unchecked checkboxes, so each one is preceded by a hidden
// "false" that Form.Apply overrides with the later "true" when checked.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Comparador de Indicadores</title>
{{.PlotlyCDN}}
</head>
<body>
<form id="selecao" method="post" action="/selection">
  <input id="indicador1" name="indicador1" value="{{.Selection.Indicador1}}">
  <input id="indicador2" name="indicador2" value="{{.Selection.Indicador2}}">
  <input id="periodo" name="periodo" value="{{.Selection.Periodo}}">
  <input type="hidden" name="check1" value="false">
  <input id="check1" name="check1" type="checkbox" value="true"{{if .Selection.ShowSeries1}} checked{{end}}>
  <input type="hidden" name="check2" value="false">
  <input id="check2" name="check2" type="checkbox" value="true"{{if .Selection.ShowSeries2}} checked{{end}}>
</form>
<div id="carregando" class="loading"{{if not .Overlay.Loading}} hidden{{end}}>{{.Overlay.Loading}}</div>
<div id="erro" class="error"{{if not .Overlay.Error}} hidden{{end}}>{{.Overlay.Error}}</div>
<div id="grafico-container" class="chart-container" style="opacity:{{.Overlay.Opacity}}">
{{if .Chart}}{{.Chart}}{{else}}<div id="grafico" style="width:100%;height:700px;"></div>{{end}}
</div>
<script>
(function(){
  var form = document.getElementById('selecao');
  var revision = {{.Revision}};
  var timer = null;

  function overlay(o) {
    var l = document.getElementById('carregando'), e = document.getElementById('erro');
    l.textContent = o.loading || ''; l.hidden = !o.loading;
    e.textContent = o.error || ''; e.hidden = !o.error;
    document.getElementById('grafico-container').style.opacity = o.opacity;
  }

  function poll() {
    fetch('/state').then(function(r){ return r.json(); }).then(function(st){
      overlay(st.overlay);
      if (st.chart.available && st.chart.revision !== revision) {
        revision = st.chart.revision;
        fetch('/chart').then(function(r){ return r.json(); }).then(function(c){
          Plotly.react('grafico', c.data, c.layout, c.config);
        });
      }
      if (st.state === 'loading' || st.overlay.error) {
        timer = setTimeout(poll, 250);
      }
    });
  }

  form.addEventListener('change', function(){
    fetch('/selection', {method: 'POST', body: new URLSearchParams(new FormData(form))}).then(function(){
      clearTimeout(timer);
      timer = setTimeout(poll, 400);
    });
  });
  form.addEventListener('submit', function(ev){ ev.preventDefault(); });
})();
</script>
</body>
</html>
`))

// HandleRoot serves the dashboard page
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allow(w, r, http.MethodGet) {
		return
	}

	data := struct {
		PlotlyCDN template.HTML
		Selection models.RefreshRequest
		Overlay   overlay.State
		Chart     template.HTML
		Revision  uint64
	}{PlotlyCDN: template.HTML(charts.PlotlyCDN), Selection: s.Form.Selection(), Overlay: s.Panel.Snapshot()}

	if c, ok := s.Charts.Latest(); ok {
		if snippet, err := charts.PlotlySnippet(ChartDivID, c.Spec, c.Options); err == nil {
			data.Chart = template.HTML(snippet.Div + "\n" + snippet.Script)
			data.Revision = c.Revision
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Error("failed to render page", err)
	}
}
