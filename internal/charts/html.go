package charts

import (
	"fmt"
	"html/template"
	"strings"
	"sync"

	"spendlog/internal/core"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// HTMLRenderer draws charts as HTML fragments keyed by target. Handlers
// pull the fragments out with Fragment after the deck has rendered.
type HTMLRenderer struct {
	mu        sync.Mutex
	fragments map[string]template.HTML
}

// NewHTMLRenderer creates an empty HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{fragments: make(map[string]template.HTML)}
}

// Fragment returns the rendered fragment for a target, if any.
func (r *HTMLRenderer) Fragment(target string) (template.HTML, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	frag, ok := r.fragments[target]
	return frag, ok
}

func (r *HTMLRenderer) store(target string, frag template.HTML) *Handle {
	r.mu.Lock()
	r.fragments[target] = frag
	r.mu.Unlock()

	return NewHandle(target, func() {
		r.mu.Lock()
		delete(r.fragments, target)
		r.mu.Unlock()
	})
}

// RenderBar draws horizontal bars scaled against the largest total.
func (r *HTMLRenderer) RenderBar(target string, labels []string, totals []core.Money) (*Handle, error) {
	if len(labels) != len(totals) {
		return nil, fmt.Errorf("bar chart: %d labels for %d totals", len(labels), len(totals))
	}

	var maxCents int64
	for _, t := range totals {
		if t.Cents > maxCents {
			maxCents = t.Cents
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="chart chart--bar">`)
	for i, label := range labels {
		percent := 0
		if maxCents > 0 {
			percent = int((totals[i].Cents * 100) / maxCents)
		}
		fmt.Fprintf(&b,
			`<div class="chart__row"><span class="chart__label">%s</span>`+
				`<span class="chart__bar" style="width: %d%%"></span>`+
				`<span class="chart__amount">%s</span></div>`,
			template.HTMLEscapeString(label), percent, totals[i])
	}
	b.WriteString(`</div>`)

	return r.store(target, template.HTML(b.String())), nil
}

// RenderLine draws the daily trend as a unicode sparkline.
func (r *HTMLRenderer) RenderLine(target string, dates []core.Date, totals []core.Money) (*Handle, error) {
	if len(dates) != len(totals) {
		return nil, fmt.Errorf("trend chart: %d dates for %d totals", len(dates), len(totals))
	}

	var b strings.Builder
	b.WriteString(`<div class="chart chart--trend">`)
	fmt.Fprintf(&b, `<span class="chart__spark">%s</span>`, sparkline(totals))
	if n := len(dates); n > 0 {
		fmt.Fprintf(&b, `<div class="chart__range"><span>%s</span><span>%s</span></div>`, dates[0], dates[n-1])
	}
	b.WriteString(`</div>`)

	return r.store(target, template.HTML(b.String())), nil
}

// RenderPie draws a legend listing each category's share of the total.
func (r *HTMLRenderer) RenderPie(target string, labels []string, totals []core.Money) (*Handle, error) {
	if len(labels) != len(totals) {
		return nil, fmt.Errorf("pie chart: %d labels for %d totals", len(labels), len(totals))
	}

	var totalCents int64
	for _, t := range totals {
		totalCents += t.Cents
	}

	var b strings.Builder
	b.WriteString(`<ul class="chart chart--pie">`)
	for i, label := range labels {
		percent := 0
		if totalCents > 0 {
			percent = int((totals[i].Cents * 100) / totalCents)
		}
		fmt.Fprintf(&b,
			`<li class="chart__slice"><span class="chart__label">%s</span>`+
				`<span class="chart__percent">%d%%</span></li>`,
			template.HTMLEscapeString(label), percent)
	}
	b.WriteString(`</ul>`)

	return r.store(target, template.HTML(b.String())), nil
}

// sparkline maps totals to unicode block characters scaled by the peak value.
func sparkline(totals []core.Money) string {
	if len(totals) == 0 {
		return ""
	}

	peak := totals[0].Cents
	for _, t := range totals[1:] {
		if t.Cents > peak {
			peak = t.Cents
		}
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	b.Grow(len(totals) * 3)
	for _, t := range totals {
		idx := int(t.Cents * int64(len(sparkBlocks)-1) / peak)
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
