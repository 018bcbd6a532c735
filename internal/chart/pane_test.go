package chart

import (
	"math"
	"testing"
	"time"

	"chart-systemv1/internal/interact"
	"chart-systemv1/internal/model"
)

// ────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────

var testBase = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).UnixMilli()

func paneBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + 0.1*float64(i)
		bars[i] = model.Bar{
			Time: testBase + int64(i)*60_000,
			Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		}
	}
	return bars
}

func replayPane(n int) *Pane {
	p := NewPane(paneBars(n), Options{Replay: true, Projections: true, HistoryMax: n + 50})
	p.Resize(1280, 860)
	return p
}

// ────────────────────────────────────────────────────────────
// Construction and history
// ────────────────────────────────────────────────────────────

func TestNewPane_EmptyInput_SeedsSyntheticHistory(t *testing.T) {
	p := NewPane(nil, Options{})
	if got := len(p.History()); got != 120 {
		t.Errorf("empty input seeded %d bars, want 120", got)
	}
}

func TestNewPane_TrimsToHistoryMax(t *testing.T) {
	bars := paneBars(100)
	p := NewPane(bars, Options{HistoryMax: 40})
	h := p.History()
	if len(h) != 40 {
		t.Fatalf("history %d bars, want 40", len(h))
	}
	if h[len(h)-1].Time != bars[99].Time {
		t.Error("trim dropped the newest bars instead of the oldest")
	}
}

func TestAppendBar_RejectsInvalidAndOutOfOrder(t *testing.T) {
	p := replayPane(60)
	h := p.History()
	last := h[len(h)-1]

	bad := model.Bar{Time: last.Time + 60_000, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1}
	bad.Close = math.NaN()
	if p.AppendBar(bad) {
		t.Error("accepted a bar with a NaN close")
	}
	if p.AppendBar(last) {
		t.Error("accepted a duplicate timestamp")
	}
	stale := last
	stale.Time -= 60_000
	if p.AppendBar(stale) {
		t.Error("accepted an out-of-order bar")
	}
	if len(p.History()) != 60 {
		t.Error("rejected bars still changed the history")
	}
}

func TestVersion_BumpsOnAcceptedAppendOnly(t *testing.T) {
	p := replayPane(60)
	h := p.History()
	last := h[len(h)-1]
	v0 := p.Version()

	next := last
	next.Time += 60_000
	if !p.AppendBar(next) {
		t.Fatal("in-order bar rejected")
	}
	if p.Version() != v0+1 {
		t.Errorf("version %d after append, want %d", p.Version(), v0+1)
	}

	if p.AppendBar(next) {
		t.Fatal("duplicate timestamp accepted")
	}
	if p.Version() != v0+1 {
		t.Error("rejected append bumped the version")
	}
}

func TestAppendBar_EvictsPastHistoryMax(t *testing.T) {
	bars := paneBars(30)
	p := NewPane(bars, Options{HistoryMax: 30})

	next := model.Bar{
		Time: bars[29].Time + 60_000,
		Open: 103, High: 104, Low: 102, Close: 103, Volume: 1000,
	}
	if !p.AppendBar(next) {
		t.Fatal("valid bar rejected")
	}

	h := p.History()
	if len(h) != 30 {
		t.Fatalf("history %d bars after eviction, want 30", len(h))
	}
	if h[0].Time != bars[1].Time {
		t.Error("eviction did not drop the oldest bar")
	}
	if h[29].Time != next.Time {
		t.Error("appended bar missing from history")
	}
}

// ────────────────────────────────────────────────────────────
// Derived scene and memoization
// ────────────────────────────────────────────────────────────

func TestScene_LayersComputedAgainstSameWindow(t *testing.T) {
	p := replayPane(80)
	sc := p.Scene()

	if sc.Geo == nil || sc.Ind == nil || sc.Proj == nil {
		t.Fatal("scene missing derived layers")
	}
	if len(sc.Ind.RSI14) != len(sc.Bars) {
		t.Errorf("indicators over %d bars, scene window has %d", len(sc.Ind.RSI14), len(sc.Bars))
	}
	if sc.Geo.MaxTime != sc.Bars[len(sc.Bars)-1].Time {
		t.Error("geometry computed against a different window than the scene bars")
	}
}

func TestScene_MemoReusedUntilInputsChange(t *testing.T) {
	p := replayPane(80)

	a := p.Scene()
	b := p.Scene()
	if a.Geo != b.Geo || a.Ind != b.Ind || a.Proj != b.Proj {
		t.Error("unchanged inputs recomputed the derived layers")
	}

	// A pointer move is UI-only state; the memo must survive it.
	p.PointerMove(300, 300)
	c := p.Scene()
	if a.Geo != c.Geo {
		t.Error("pointer move invalidated the derived-layer memo")
	}

	h := p.History()
	p.AppendBar(model.Bar{
		Time: h[len(h)-1].Time + 60_000,
		Open: 108, High: 109, Low: 107, Close: 108, Volume: 1000,
	})
	d := p.Scene()
	if a.Geo == d.Geo {
		t.Error("append did not invalidate the derived-layer memo")
	}

	p.Resize(800, 600)
	e := p.Scene()
	if d.Geo == e.Geo {
		t.Error("resize did not invalidate the derived-layer memo")
	}
}

// ────────────────────────────────────────────────────────────
// Replay windowing
// ────────────────────────────────────────────────────────────

func TestReplayCursor_TruncatesEveryLayer(t *testing.T) {
	p := replayPane(100)
	h := p.History()

	p.SetMode(interact.ModeReplay)
	p.SetCursor(h[50].Time)

	sc := p.Scene()
	if len(sc.Bars) != 51 {
		t.Fatalf("window %d bars, want 51", len(sc.Bars))
	}
	if len(sc.Ind.RSI14) != 51 {
		t.Errorf("indicators over %d bars, want the truncated 51", len(sc.Ind.RSI14))
	}
	if sc.Geo.MaxTime != h[50].Time {
		t.Errorf("geometry max time %d, want cursor bar %d", sc.Geo.MaxTime, h[50].Time)
	}
	if sc.Proj == nil {
		t.Fatal("projection missing in replay")
	}
	if sc.CursorTime != h[50].Time {
		t.Errorf("scene cursor %d, want %d", sc.CursorTime, h[50].Time)
	}

	// Events and anchors from the hidden future must not leak in.
	for _, ev := range sc.Events {
		if ev.Time > h[50].Time {
			t.Errorf("future event %s at %d visible in replay", ev.ID, ev.Time)
		}
	}
	for _, a := range sc.Anchors {
		if a.Time > h[50].Time {
			t.Errorf("future anchor %s at %d visible in replay", a.ID, a.Time)
		}
	}
}

func TestSetMode_ReplayGatedByOptions(t *testing.T) {
	p := NewPane(paneBars(60), Options{Replay: false})
	p.Resize(1280, 860)

	p.SetMode(interact.ModeReplay)
	if p.Mode() != interact.ModeLive {
		t.Error("replay entered despite the option being off")
	}
}

func TestSetMode_BackToLive_ClearsCursorAndHover(t *testing.T) {
	p := replayPane(60)
	p.SetMode(interact.ModeReplay)
	p.SetCursor(p.History()[30].Time)
	p.PointerMove(300, 300)

	p.SetMode(interact.ModeLive)
	if p.Mode() != interact.ModeLive {
		t.Fatal("did not return to live")
	}
	if p.Hover() != nil {
		t.Error("hover survived the switch to live")
	}
	sc := p.Scene()
	if sc.CursorTime != 0 {
		t.Errorf("live scene cursor %d, want 0", sc.CursorTime)
	}
	if len(sc.Bars) != 60 {
		t.Errorf("live window %d bars, want full 60", len(sc.Bars))
	}
}

func TestWheel_MovesCursorByOneBar(t *testing.T) {
	p := replayPane(60)
	h := p.History()
	p.SetMode(interact.ModeReplay)
	p.SetCursor(h[30].Time)

	p.Wheel(-1)
	if got := p.Scene().CursorTime; got != h[29].Time {
		t.Errorf("wheel -1: cursor %d, want bar 29", got)
	}
	p.Wheel(5)
	if got := p.Scene().CursorTime; got != h[34].Time {
		t.Errorf("wheel +5: cursor %d, want bar 34", got)
	}
}

func TestSetCursorFromX_ScrubsOverFullHistory(t *testing.T) {
	p := replayPane(100)
	h := p.History()
	p.SetMode(interact.ModeReplay)

	// Far left of the plot lands on the earliest bar even though the
	// pre-scrub window showed all of history.
	p.SetCursorFromX(0)
	if got := p.Scene().CursorTime; got != h[0].Time {
		t.Errorf("scrub to left edge: cursor %d, want first bar %d", got, h[0].Time)
	}
}

// ────────────────────────────────────────────────────────────
// Hover and selection
// ────────────────────────────────────────────────────────────

func TestClick_PromotesHoverToSelection(t *testing.T) {
	p := replayPane(60)

	hit := p.PointerMove(300, 300)
	if hit == nil {
		t.Fatal("pointer inside the plot resolved to nothing")
	}
	if sel := p.Click(); sel != hit {
		t.Error("click did not promote the hover hit")
	}

	// Leaving clears the hover but keeps the selection.
	p.PointerLeave()
	if p.Hover() != nil {
		t.Error("hover survived PointerLeave")
	}
	if p.Selection() == nil {
		t.Error("selection did not survive PointerLeave")
	}
}
