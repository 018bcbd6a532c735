package interact

import (
	"chart-systemv1/internal/geometry"
	"chart-systemv1/internal/model"
)

// Mode is the chart's playback state.
type Mode string

const (
	ModeLive   Mode = "live"
	ModeReplay Mode = "replay"
)

// WheelBarStep is how many bars one wheel notch moves the replay cursor.
const WheelBarStep = 1

// Replay is the live↔replay state machine. In replay mode a cursor time
// scopes every downstream computation to the bars at or before it; the full
// history stays untouched.
type Replay struct {
	mode   Mode
	cursor int64 // epoch ms; 0 when live
}

// NewReplay starts in live mode.
func NewReplay() *Replay {
	return &Replay{mode: ModeLive}
}

// Mode returns the current mode.
func (r *Replay) Mode() Mode { return r.mode }

// Cursor returns the cursor time, 0 in live mode.
func (r *Replay) Cursor() int64 {
	if r.mode != ModeReplay {
		return 0
	}
	return r.cursor
}

// EnterReplay switches to replay mode with the cursor at the end of history.
func (r *Replay) EnterReplay(bars []model.Bar) {
	r.mode = ModeReplay
	if len(bars) > 0 {
		r.cursor = bars[len(bars)-1].Time
	}
}

// ExitReplay returns to live mode and clears the cursor.
func (r *Replay) ExitReplay() {
	r.mode = ModeLive
	r.cursor = 0
}

// SetCursor moves the cursor, clamped to the full history's time range.
// No-op in live mode.
func (r *Replay) SetCursor(t int64, bars []model.Bar) {
	if r.mode != ModeReplay || len(bars) == 0 {
		return
	}
	min, max := bars[0].Time, bars[len(bars)-1].Time
	if t < min {
		t = min
	}
	if t > max {
		t = max
	}
	r.cursor = t
}

// SetCursorFromX maps a pointer x through the full-history geometry to a
// cursor time (drag-to-scrub).
func (r *Replay) SetCursorFromX(x float64, g *geometry.Geometry, bars []model.Bar) {
	if g == nil {
		return
	}
	r.SetCursor(g.XToTime(x), bars)
}

// Wheel steps the cursor by WheelBarStep bars per notch; positive delta
// moves forward in time.
func (r *Replay) Wheel(delta int, bars []model.Bar) {
	if r.mode != ModeReplay || len(bars) == 0 {
		return
	}

	idx := cursorIndex(bars, r.cursor)
	idx += delta * WheelBarStep
	if idx < 0 {
		idx = 0
	}
	if idx >= len(bars) {
		idx = len(bars) - 1
	}
	r.cursor = bars[idx].Time
}

// Window returns the effective bar window for the current mode: all bars
// with time ≤ cursor in replay, the full slice in live. The result aliases
// the input; callers must not mutate it.
func (r *Replay) Window(bars []model.Bar) []model.Bar {
	if r.mode != ModeReplay || r.cursor == 0 {
		return bars
	}
	return TruncateBars(bars, r.cursor)
}

// TruncateBars returns the prefix of bars with time ≤ cursor.
func TruncateBars(bars []model.Bar, cursor int64) []model.Bar {
	// Bars are time-ascending; binary search for the cut point.
	lo, hi := 0, len(bars)
	for lo < hi {
		mid := (lo + hi) / 2
		if bars[mid].Time <= cursor {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return bars[:lo]
}

// cursorIndex finds the index of the last bar at or before the cursor.
func cursorIndex(bars []model.Bar, cursor int64) int {
	n := len(TruncateBars(bars, cursor))
	if n == 0 {
		return 0
	}
	return n - 1
}
