// Package dashboard is the HTTP surface of the comparison view: the
// selection form, the chart container and the overlay, served as JSON,
// HTML fragments and image exports.
package dashboard

import (
	"context"
	"net/http"

	"comparador/internal/config"
	"comparador/internal/fetchers"
	"comparador/internal/logger"
	"comparador/internal/mocks"
	"comparador/internal/overlay"
	"comparador/internal/refresh"
	"comparador/internal/storage"
)

// ChartDivID is the id of the chart container element
const ChartDivID = "grafico"

// Server represents the dashboard server
type Server struct {
	Config     *config.Config
	Form       *Form
	Panel      *overlay.Panel
	Charts     *ChartStore
	Controller *refresh.Controller
	Storage    storage.StorageClient

	log *logger.Logger
}

// NewFetcher picks the payload source: fixture files in mockup mode, the
// /dados backend otherwise
func NewFetcher(cfg *config.Config) refresh.Fetcher {
	if cfg.MockupMode {
		logger.Component("dashboard").Info("mockup mode enabled", logger.Fields{"mocks_dir": cfg.MocksDir})
		return mocks.NewMockService(cfg.MocksDir)
	}
	return fetchers.NewDadosFetcher(fetchers.Options{
		BaseURL:    cfg.DadosBaseURL,
		Timeout:    cfg.DadosTimeout,
		RetryCount: cfg.DadosRetryCount,
	})
}

// NewServer wires the form, overlay, chart container and refresh
// controller. store may be nil, which disables exports.
func NewServer(cfg *config.Config, fetcher refresh.Fetcher, store storage.StorageClient) *Server {
	s := &Server{
		Config:  cfg,
		Form:    NewForm(cfg.DefaultIndicador1, cfg.DefaultIndicador2, cfg.DefaultPeriodo),
		Panel:   overlay.NewPanel(),
		Charts:  NewChartStore(),
		Storage: store,
		log:     logger.Component("dashboard"),
	}
	s.Controller = refresh.NewController(fetcher, s.Charts, s.Form, s.Panel, refresh.Options{
		Debounce:     cfg.DebounceWindow,
		ErrorDismiss: cfg.ErrorDismissDelay,
	})
	return s
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/selection", s.HandleSelection)
	mux.HandleFunc("/refresh", s.HandleRefresh)
	mux.HandleFunc("/state", s.HandleState)
	mux.HandleFunc("/chart", s.HandleChart)
	mux.HandleFunc("/chart.html", s.HandleChartHTML)
	mux.HandleFunc("/chart/echarts", s.HandleECharts)
	mux.HandleFunc("/chart.png", s.HandleChartPNG)
	mux.HandleFunc("/export", s.HandleExport)
	mux.HandleFunc("/exports", s.HandleListExports)
	mux.HandleFunc("/files/", s.HandleFileProxy)

	// Handle root path last (catch-all)
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Start runs the page-load refresh, without debounce
func (s *Server) Start(ctx context.Context) error {
	s.Controller.SetContext(ctx)
	return s.Controller.Refresh(ctx)
}

// Close stops pending refreshes and releases the storage client
func (s *Server) Close() error {
	s.Controller.Stop()
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
