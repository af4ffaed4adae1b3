// Package charts renders the overview charts and tracks their lifecycle.
//
// Renderers hand out a Handle per rendered chart. Re-rendering a target
// without destroying the previous handle leaks the old instance, so the
// Deck owns the handles and always destroys them before drawing again.
package charts

import (
	"fmt"
	"sync"

	"spendlog/internal/core"
)

// Well-known render targets on the overview page.
const (
	TargetBar   = "chart-bar"
	TargetTrend = "chart-trend"
	TargetPie   = "chart-pie"
)

// Handle represents one rendered chart instance.
type Handle struct {
	target string

	mu        sync.Mutex
	destroyed bool
	destroy   func()
}

// NewHandle wraps a renderer-provided teardown function. destroy may be nil.
func NewHandle(target string, destroy func()) *Handle {
	return &Handle{target: target, destroy: destroy}
}

// Target returns the render target this handle belongs to.
func (h *Handle) Target() string {
	return h.target
}

// Destroy releases the chart instance. Calling it more than once is a no-op.
func (h *Handle) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.destroyed {
		return
	}
	h.destroyed = true
	if h.destroy != nil {
		h.destroy()
	}
}

// Destroyed reports whether the handle has been released.
func (h *Handle) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// Renderer draws the three overview charts.
type Renderer interface {
	RenderBar(target string, labels []string, totals []core.Money) (*Handle, error)
	RenderLine(target string, dates []core.Date, totals []core.Money) (*Handle, error)
	RenderPie(target string, labels []string, totals []core.Money) (*Handle, error)
}

// Deck owns the live chart handles for the overview page.
type Deck struct {
	renderer Renderer

	mu      sync.Mutex
	handles []*Handle
}

// NewDeck creates a deck drawing through the given renderer.
func NewDeck(renderer Renderer) *Deck {
	return &Deck{renderer: renderer}
}

// Render destroys any previously rendered charts, then draws the bar,
// trend and pie charts from the series. On error the deck holds whatever
// handles were created before the failure, so a later Render or Destroy
// still cleans them up.
func (d *Deck) Render(series core.ChartSeries) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.destroyLocked()

	bar, err := d.renderer.RenderBar(TargetBar, series.CategoryLabels, series.CategoryTotals)
	if err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	d.handles = append(d.handles, bar)

	line, err := d.renderer.RenderLine(TargetTrend, series.TrendDates, series.TrendTotals)
	if err != nil {
		return fmt.Errorf("render trend chart: %w", err)
	}
	d.handles = append(d.handles, line)

	pie, err := d.renderer.RenderPie(TargetPie, series.CategoryLabels, series.CategoryTotals)
	if err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	d.handles = append(d.handles, pie)

	return nil
}

// Destroy releases all live chart handles.
func (d *Deck) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyLocked()
}

// Live returns the number of handles currently held.
func (d *Deck) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handles)
}

func (d *Deck) destroyLocked() {
	for _, h := range d.handles {
		h.Destroy()
	}
	d.handles = nil
}
