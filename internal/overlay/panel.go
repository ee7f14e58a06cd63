// Package overlay keeps the transient UI indicators of the comparison view:
// the loading message, the error message and the chart dimming.
package overlay

import "sync"

// Opaque is the chart container's resting opacity
const Opaque = 1.0

// State is a consistent copy of everything shown by a Panel
type State struct {
	Loading  string  `json:"loading,omitempty"`
	Error    string  `json:"error,omitempty"`
	Opacity  float64 `json:"opacity"`
	Revision uint64  `json:"revision"`
}

// Panel holds at most one loading indicator and one error indicator.
// Showing either replaces the previous one of the same kind.
type Panel struct {
	mu    sync.Mutex
	state State
}

// NewPanel returns an empty panel at full opacity
func NewPanel() *Panel {
	return &Panel{state: State{Opacity: Opaque}}
}

func (p *Panel) update(fn func(*State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.state)
	p.state.Revision++
}

// ShowLoading displays text as the loading indicator
func (p *Panel) ShowLoading(text string) {
	p.update(func(s *State) { s.Loading = text })
}

// ClearLoading removes the loading indicator, if any
func (p *Panel) ClearLoading() {
	p.update(func(s *State) { s.Loading = "" })
}

// ShowError displays message as the error indicator
func (p *Panel) ShowError(message string) {
	p.update(func(s *State) { s.Error = message })
}

// ClearError removes the error indicator, if any
func (p *Panel) ClearError() {
	p.update(func(s *State) { s.Error = "" })
}

// Dim sets the chart container opacity
func (p *Panel) Dim(opacity float64) {
	p.update(func(s *State) { s.Opacity = opacity })
}

// Restore puts the chart container back to full opacity
func (p *Panel) Restore() {
	p.Dim(Opaque)
}

// Snapshot returns the current state
func (p *Panel) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
