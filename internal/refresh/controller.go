// Package refresh runs the fetch, build and render cycle of the comparison
// view and drives the overlay while it is in flight.
package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"comparador/internal/charts"
	"comparador/internal/fetchers"
	"comparador/internal/logger"
	"comparador/internal/models"
)

const (
	// DefaultDebounce is the quiet period after the last selection change
	DefaultDebounce = 300 * time.Millisecond
	// DefaultErrorDismiss is how long the error overlay stays up
	DefaultErrorDismiss = 3 * time.Second

	LoadingText   = "Carregando..."
	ErrorMessage  = "Erro ao carregar os dados"
	DimmedOpacity = 0.5
)

// State of the controller
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
)

// Fetcher retrieves the comparison payload for a selection
type Fetcher interface {
	FetchComparison(ctx context.Context, req models.RefreshRequest) (models.ComparisonPayload, error)
}

// Renderer receives every successfully built chart
type Renderer interface {
	Render(ctx context.Context, spec charts.ChartSpec, opts charts.RenderOptions) error
}

// SelectionSource yields the form values at refresh time
type SelectionSource interface {
	Selection() models.RefreshRequest
}

// Overlay is the set of transient indicators a refresh drives
type Overlay interface {
	ShowLoading(text string)
	ClearLoading()
	ShowError(message string)
	ClearError()
	Dim(opacity float64)
	Restore()
}

// Options tunes the controller timings
type Options struct {
	Debounce     time.Duration
	ErrorDismiss time.Duration
}

// DefaultOptions returns the production timings
func DefaultOptions() Options {
	return Options{Debounce: DefaultDebounce, ErrorDismiss: DefaultErrorDismiss}
}

// Result describes the last settled refresh
type Result struct {
	RequestID  string    `json:"request_id"`
	Generation uint64    `json:"generation"`
	Settled    time.Time `json:"settled"`
	Error      string    `json:"error,omitempty"`
	Kind       string    `json:"kind,omitempty"`
}

// Controller owns the refresh cycle
type Controller struct {
	fetcher  Fetcher
	renderer Renderer
	form     SelectionSource
	panel    Overlay
	opts     Options
	render   charts.RenderOptions
	log      *logger.Logger

	debouncer *Debouncer

	mu         sync.Mutex
	generation uint64
	inFlight   int
	last       Result
	background context.Context
}

// NewController wires a controller. Zero timings fall back to the defaults.
func NewController(f Fetcher, r Renderer, form SelectionSource, panel Overlay, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ErrorDismiss <= 0 {
		opts.ErrorDismiss = DefaultErrorDismiss
	}

	c := &Controller{
		fetcher:    f,
		renderer:   r,
		form:       form,
		panel:      panel,
		opts:       opts,
		render:     charts.DefaultRenderOptions(),
		log:        logger.Component("refresh"),
		background: context.Background(),
	}
	c.debouncer = NewDebouncer(opts.Debounce, c.debounced)
	return c
}

// Trigger schedules a refresh once selection changes have settled
func (c *Controller) Trigger() {
	c.debouncer.Trigger()
}

// Stop cancels a pending debounced refresh
func (c *Controller) Stop() {
	c.debouncer.Stop()
}

// SetContext sets the context handed to debounced refreshes
func (c *Controller) SetContext(ctx context.Context) {
	c.mu.Lock()
	c.background = ctx
	c.mu.Unlock()
}

func (c *Controller) debounced() {
	c.mu.Lock()
	ctx := c.background
	c.mu.Unlock()

	// errors are already logged and shown on the overlay
	_ = c.Refresh(ctx)
}

// State reports whether any refresh is in flight
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight > 0 {
		return StateLoading
	}
	return StateIdle
}

// Last returns the outcome of the most recent settled, non-stale refresh
func (c *Controller) Last() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Refresh runs one full cycle for the current selection. It returns nil on
// success, a *Error on failure and ErrStaleResponse when a newer refresh
// superseded it.
func (c *Controller) Refresh(ctx context.Context) error {
	req := c.form.Selection()
	gen := c.begin()
	defer c.end()

	id := uuid.NewString()
	log := c.log.With(logger.Fields{
		"request_id": id,
		"generation": gen,
		"indicador1": req.Indicador1,
		"indicador2": req.Indicador2,
		"periodo":    req.Periodo,
	})

	c.panel.ClearError()
	c.panel.Dim(DimmedOpacity)
	c.panel.ShowLoading(LoadingText)

	start := time.Now()
	payload, err := c.fetcher.FetchComparison(ctx, req)

	if !c.current(gen) {
		log.Debug("discarding stale response", logger.Fields{"duration_ms": time.Since(start).Milliseconds()})
		return ErrStaleResponse
	}

	c.panel.ClearLoading()
	c.panel.Restore()

	if err == nil {
		err = c.draw(ctx, payload, req)
	} else {
		err = classifyFetch(err)
	}

	c.settle(Result{RequestID: id, Generation: gen, Settled: time.Now()}, err)

	if err != nil {
		var rerr *Error
		errors.As(err, &rerr)
		log.Error("refresh failed", err, logger.Fields{"kind": rerr.Kind.String()})
		c.panel.ShowError(ErrorMessage)
		// never cancelled: a later refresh's error may be cleared early
		time.AfterFunc(c.opts.ErrorDismiss, c.panel.ClearError)
		return err
	}

	log.Info("chart refreshed", logger.Fields{
		"points1":     len(payload.Valores1),
		"points2":     len(payload.Valores2),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (c *Controller) draw(ctx context.Context, payload models.ComparisonPayload, req models.RefreshRequest) error {
	spec, err := charts.Build(payload, req)
	if err != nil {
		return wrap(KindInvalidPayload, err)
	}
	if err := c.renderer.Render(ctx, spec, c.render); err != nil {
		return wrap(KindRender, err)
	}
	return nil
}

func classifyFetch(err error) error {
	if errors.Is(err, fetchers.ErrInvalidPayload) {
		return wrap(KindInvalidPayload, err)
	}
	return wrap(KindNetwork, err)
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.inFlight++
	return c.generation
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

func (c *Controller) settle(r Result, err error) {
	var rerr *Error
	if errors.As(err, &rerr) {
		r.Error = err.Error()
		r.Kind = rerr.Kind.String()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = r
}
