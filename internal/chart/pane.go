// Package chart owns the per-instance chart state: the bar history ring,
// mock events and anchors, the live/replay mode, hover/selection, and the
// memoized geometry/indicator/projection recomputation that feeds the render
// and interaction layers.
//
// Replay and projection support are feature flags on Options rather than
// separate pane types.
package chart

import (
	"sync"

	"chart-systemv1/internal/feed"
	"chart-systemv1/internal/geometry"
	"chart-systemv1/internal/indicator"
	"chart-systemv1/internal/interact"
	"chart-systemv1/internal/model"
	"chart-systemv1/internal/projection"
	"chart-systemv1/internal/render"
)

// Options are the pane's feature flags.
type Options struct {
	// Replay enables the replay-mode state machine and cursor.
	Replay bool

	// Projections enables the forward projection layer.
	Projections bool

	// HistoryMax caps the owned bar history; the oldest bars are evicted
	// past it. Defaults to 500.
	HistoryMax int
}

// Pane is one chart instance. All entities hang off it exclusively; nothing
// is shared across instances.
type Pane struct {
	mu sync.Mutex

	opts    Options
	history []model.Bar
	version uint64 // bumped on every history change

	events  []model.ChartEvent
	anchors []model.ReasoningAnchor

	width  float64
	height float64

	replay *interact.Replay
	hover  *interact.Hit
	sel    *interact.Hit

	memo memoEntry
}

// memoEntry caches one derived-layer computation, keyed by everything that
// feeds it. UI-only state changes (hover, selection) reuse it untouched.
type memoEntry struct {
	valid   bool
	version uint64
	width   float64
	height  float64
	cursor  int64

	window []model.Bar
	geo    *geometry.Geometry
	ind    *indicator.Set
	proj   *projection.Envelope
}

// NewPane creates a pane seeded with the given bars. Empty or invalid input
// is replaced wholesale by the deterministic synthetic seed series, so the
// pane always starts with a renderable history.
func NewPane(bars []model.Bar, opts Options) *Pane {
	if opts.HistoryMax <= 0 {
		opts.HistoryMax = 500
	}

	clean := model.SanitizeBars(bars)
	if len(clean) == 0 {
		clean = feed.SeedBars(120)
	}
	if len(clean) > opts.HistoryMax {
		clean = clean[len(clean)-opts.HistoryMax:]
	}

	p := &Pane{
		opts:    opts,
		history: clean,
		version: 1,
		replay:  interact.NewReplay(),
	}
	p.rebuildAnnotations()
	return p
}

// AppendBar is the feed entry point: validates and appends one bar, evicting
// the oldest past HistoryMax. Out-of-order or invalid bars are dropped.
func (p *Pane) AppendBar(b model.Bar) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !b.Valid() {
		return false
	}
	if n := len(p.history); n > 0 && b.Time <= p.history[n-1].Time {
		return false
	}

	p.history = append(p.history, b)
	if len(p.history) > p.opts.HistoryMax {
		p.history = p.history[len(p.history)-p.opts.HistoryMax:]
	}
	p.version++
	p.rebuildAnnotations()
	return true
}

// Resize sets the pixel viewport.
func (p *Pane) Resize(width, height float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = width, height
}

// Scene recomputes (or reuses) the derived layers for the current inputs
// and returns the frame's render inputs. Geometry, indicators, and
// projection always reflect the same bar window, so a frame never pairs stale
// and fresh layers. Scene is nil-geometry-safe: the render pipeline treats
// that as "nothing to paint".
func (p *Pane) Scene() *render.Scene {
	p.mu.Lock()
	defer p.mu.Unlock()

	m := p.derivedLocked()
	return &render.Scene{
		Bars:            m.window,
		Geo:             m.geo,
		Ind:             m.ind,
		Proj:            m.proj,
		Events:          p.visibleEvents(m.window),
		Anchors:         p.visibleAnchors(m.window),
		CursorTime:      p.replay.Cursor(),
		ShowProjections: p.opts.Projections,
	}
}

// PointerMove resolves the hover state for a pointer position. In replay
// mode with a drag in progress the caller uses SetCursorFromX instead.
func (p *Pane) PointerMove(x, y float64) *interact.Hit {
	sc := p.Scene()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.hover = interact.HitTest(x, y, sc)
	return p.hover
}

// PointerLeave clears hover/tooltip state. Selection survives.
func (p *Pane) PointerLeave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hover = nil
}

// Click promotes the current hover to the selection.
func (p *Pane) Click() *interact.Hit {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sel = p.hover
	return p.sel
}

// Hover returns the current hover hit (nil when none).
func (p *Pane) Hover() *interact.Hit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hover
}

// Selection returns the current selection (nil when none).
func (p *Pane) Selection() *interact.Hit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel
}

// SetMode switches live↔replay. Entering live clears the cursor and all
// hover/tooltip state.
func (p *Pane) SetMode(m interact.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.opts.Replay && m == interact.ModeReplay {
		return
	}
	switch m {
	case interact.ModeReplay:
		p.replay.EnterReplay(p.history)
	case interact.ModeLive:
		p.replay.ExitReplay()
		p.hover = nil
	}
}

// Mode returns the current playback mode.
func (p *Pane) Mode() interact.Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.replay.Mode()
}

// SetCursor moves the replay cursor to an absolute time (clamped).
func (p *Pane) SetCursor(t int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replay.SetCursor(t, p.history)
}

// SetCursorFromX scrubs the replay cursor from a pointer x position using
// the full-history geometry, so dragging covers all of history even when
// the visible window is truncated.
func (p *Pane) SetCursorFromX(x float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	g := geometry.Compute(p.history, p.width, p.height)
	p.replay.SetCursorFromX(x, g, p.history)
}

// Wheel steps the replay cursor by bars.
func (p *Pane) Wheel(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replay.Wheel(delta, p.history)
}

// Version returns the history revision counter, bumped on every accepted
// append. Frame IDs embed it.
func (p *Pane) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// History returns a copy of the full owned history.
func (p *Pane) History() []model.Bar {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Bar(nil), p.history...)
}

// derivedLocked recomputes geometry/indicators/projection when the memo key
// changed, otherwise reuses the cached entry. Caller holds p.mu.
func (p *Pane) derivedLocked() *memoEntry {
	cursor := p.replay.Cursor()
	m := &p.memo
	if m.valid && m.version == p.version && m.width == p.width &&
		m.height == p.height && m.cursor == cursor {
		return m
	}

	window := p.replay.Window(p.history)
	ind := indicator.Compute(window)

	*m = memoEntry{
		valid:   true,
		version: p.version,
		width:   p.width,
		height:  p.height,
		cursor:  cursor,
		window:  window,
		geo:     geometry.Compute(window, p.width, p.height),
		ind:     ind,
		proj:    projection.Compute(window, ind),
	}
	return m
}

// rebuildAnnotations re-derives mock events and anchors from the full
// history. Caller holds p.mu.
func (p *Pane) rebuildAnnotations() {
	p.events = feed.DeriveEvents(p.history)
	p.anchors = feed.DeriveAnchors(p.events, p.history)
}

// visibleEvents filters events to the effective window's time range, so
// replay hides the future.
func (p *Pane) visibleEvents(window []model.Bar) []model.ChartEvent {
	if len(window) == 0 {
		return nil
	}
	maxTime := window[len(window)-1].Time
	out := make([]model.ChartEvent, 0, len(p.events))
	for _, ev := range p.events {
		if ev.Time <= maxTime {
			out = append(out, ev)
		}
	}
	return out
}

func (p *Pane) visibleAnchors(window []model.Bar) []model.ReasoningAnchor {
	if len(window) == 0 {
		return nil
	}
	maxTime := window[len(window)-1].Time
	out := make([]model.ReasoningAnchor, 0, len(p.anchors))
	for _, a := range p.anchors {
		if a.Time <= maxTime {
			out = append(out, a)
		}
	}
	return out
}
