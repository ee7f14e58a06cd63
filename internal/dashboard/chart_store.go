package dashboard

import (
	"context"
	"sync"
	"time"

	"comparador/internal/charts"
)

// RenderedChart is the chart currently on screen
type RenderedChart struct {
	Spec       charts.ChartSpec
	Options    charts.RenderOptions
	RenderedAt time.Time
	Revision   uint64
}

// ChartStore is the chart container: it keeps the most recent chart handed
// over by the refresh controller and serves it to the chart endpoints.
type ChartStore struct {
	mu      sync.RWMutex
	current *RenderedChart
	rev     uint64
}

// NewChartStore returns an empty container
func NewChartStore() *ChartStore {
	return &ChartStore{}
}

// Render replaces the displayed chart
func (c *ChartStore) Render(ctx context.Context, spec charts.ChartSpec, opts charts.RenderOptions) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	c.current = &RenderedChart{Spec: spec, Options: opts, RenderedAt: time.Now().UTC(), Revision: c.rev}
	return nil
}

// Latest returns the displayed chart, if any
func (c *ChartStore) Latest() (RenderedChart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return RenderedChart{}, false
	}
	return *c.current, true
}
