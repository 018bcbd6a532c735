// Package interact resolves pointer positions against the rendered scene
// (the hit-test cascade behind the tooltip) and owns the live/replay mode
// state machine.
//
// It only reads the geometry/indicator/projection outputs; it never writes
// state back into them.
package interact

import (
	"math"

	"chart-systemv1/internal/geometry"
	"chart-systemv1/internal/indicator"
	"chart-systemv1/internal/projection"
	"chart-systemv1/internal/render"
)

// Hit-test pixel thresholds. The cascade tries each class in priority order
// and stops at the first match.
const (
	markerHitRadius   = 12.0
	scenarioHitRadius = 9.0
	fibHitBand        = 6.0
)

// HitKind classifies what the pointer resolved to.
type HitKind string

const (
	HitEvent    HitKind = "event"
	HitAnchor   HitKind = "anchor"
	HitScenario HitKind = "scenario"
	HitFib      HitKind = "fib"
	HitBar      HitKind = "bar"
)

// Hit is the single resolved hover target for a pointer position. Exactly
// one tooltip derives from it at a time.
type Hit struct {
	Kind HitKind

	// Snap position for the tooltip.
	X float64
	Y float64

	EventID  string
	AnchorID string

	Scenario      projection.ScenarioKind
	Step          int     // forward step index for scenario hits
	ConfidencePct float64 // headline confidence at that step

	FibRatio float64
	FibPrice float64

	BarIndex int
	Panel    geometry.Panel
	Values   map[string]float64 // panel indicator readings at BarIndex
}

// HitTest resolves the pointer to at most one hit. Returns nil when the
// scene has no geometry or the pointer is outside every target and the plot.
func HitTest(x, y float64, sc *render.Scene) *Hit {
	if sc == nil || sc.Geo == nil {
		return nil
	}

	if h := hitEvents(x, y, sc); h != nil {
		return h
	}
	if h := hitAnchors(x, y, sc); h != nil {
		return h
	}
	if h := hitScenario(x, y, sc); h != nil {
		return h
	}
	if h := hitFib(x, y, sc); h != nil {
		return h
	}
	return hitBarPanel(x, y, sc)
}

// hitEvents finds the nearest event marker within the hit radius. Only a
// strictly smaller distance displaces the current best, so the first marker
// found in slice order wins an exact tie.
func hitEvents(x, y float64, sc *render.Scene) *Hit {
	best := markerHitRadius * markerHitRadius
	var hit *Hit

	for _, ev := range sc.Events {
		ex, ey := sc.EventXY(ev)
		d := sqDist(x, y, ex, ey)
		if d < best {
			best = d
			hit = &Hit{Kind: HitEvent, X: ex, Y: ey, EventID: ev.ID}
		}
	}
	return hit
}

func hitAnchors(x, y float64, sc *render.Scene) *Hit {
	best := markerHitRadius * markerHitRadius
	var hit *Hit

	for _, a := range sc.Anchors {
		ax, ay := sc.AnchorXY(a)
		d := sqDist(x, y, ax, ay)
		if d < best {
			best = d
			hit = &Hit{Kind: HitAnchor, X: ax, Y: ay, AnchorID: a.ID, EventID: a.EventID}
		}
	}
	return hit
}

// hitScenario projects the pointer onto the active scenario polyline and its
// confidence-band edges, segment by segment with t clamped to [0,1].
func hitScenario(x, y float64, sc *render.Scene) *Hit {
	if !sc.ShowProjections || sc.Proj == nil || len(sc.Bars) == 0 {
		return nil
	}
	env := sc.Proj
	active := env.Active()
	if len(active.Path) == 0 {
		return nil
	}

	g := sc.Geo
	lastBar := sc.Bars[len(sc.Bars)-1]
	startX := g.TimeToX(lastBar.Time)
	startY := g.PriceToY(lastBar.Close)

	paths := [3][]float64{active.Path, nil, nil}
	upper := make([]float64, len(active.Confidence))
	lower := make([]float64, len(active.Confidence))
	for i, cs := range active.Confidence {
		upper[i] = cs.Upper
		lower[i] = cs.Lower
	}
	paths[1], paths[2] = upper, lower

	best := scenarioHitRadius * scenarioHitRadius
	var hit *Hit

	for _, path := range paths {
		px, py := startX, startY
		for i, price := range path {
			nx := g.TimeToX(env.Steps[i].Time)
			ny := g.PriceToY(price)

			cx, cy := closestOnSegment(x, y, px, py, nx, ny)
			if d := sqDist(x, y, cx, cy); d < best {
				best = d
				hit = &Hit{
					Kind:          HitScenario,
					X:             cx,
					Y:             cy,
					Scenario:      active.Kind,
					Step:          i,
					ConfidencePct: active.Confidence[i].ConfidencePct,
				}
			}
			px, py = nx, ny
		}
	}
	return hit
}

// hitFib matches horizontal fibonacci levels within a vertical band, only
// inside each level's time range. Retracements take priority over
// extensions.
func hitFib(x, y float64, sc *render.Scene) *Hit {
	fib := sc.Ind.Fib
	if !fib.Valid {
		return nil
	}
	g := sc.Geo

	for _, group := range [2][]indicator.FibLevel{fib.Retracement, fib.Extension} {
		for _, lv := range group {
			ly := g.PriceToY(lv.Price)
			if math.Abs(y-ly) > fibHitBand {
				continue
			}
			if x < g.TimeToX(lv.FromTime) || x > g.TimeToX(lv.ToTime) {
				continue
			}
			return &Hit{Kind: HitFib, X: x, Y: ly, FibRatio: lv.Ratio, FibPrice: lv.Price}
		}
	}
	return nil
}

// hitBarPanel is the fallback: map x to the nearest bar, branch on the panel
// under y, and report that panel's indicator readings at the bar.
func hitBarPanel(x, y float64, sc *render.Scene) *Hit {
	g := sc.Geo
	panel := g.PanelAt(y)
	if panel < 0 {
		return nil
	}

	idx := nearestBarIndex(sc, g.XToTime(x))
	if idx < 0 {
		return nil
	}
	b := sc.Bars[idx]

	hit := &Hit{
		Kind:     HitBar,
		X:        g.TimeToX(b.Time),
		Y:        y,
		BarIndex: idx,
		Panel:    panel,
		Values:   map[string]float64{},
	}

	ind := sc.Ind
	switch panel {
	case geometry.PanelPrice:
		hit.Values["open"] = b.Open
		hit.Values["high"] = b.High
		hit.Values["low"] = b.Low
		hit.Values["close"] = b.Close
		putReading(hit.Values, "ema20", ind.EMA20, idx)
		putReading(hit.Values, "ema50", ind.EMA50, idx)
		putReading(hit.Values, "vwap", ind.VWAP, idx)
	case geometry.PanelVolume:
		hit.Values["volume"] = b.Volume
		putReading(hit.Values, "obv", ind.OBV, idx)
	case geometry.PanelRSI:
		putReading(hit.Values, "rsi", ind.RSI14, idx)
	case geometry.PanelMACD:
		putReading(hit.Values, "macd", ind.MACD.Line, idx)
		putReading(hit.Values, "signal", ind.MACD.Signal, idx)
		putReading(hit.Values, "histogram", ind.MACD.Histogram, idx)
	case geometry.PanelStoch:
		putReading(hit.Values, "k", ind.StochK, idx)
		putReading(hit.Values, "d", ind.StochD, idx)
	case geometry.PanelMFI:
		putReading(hit.Values, "mfi", ind.MFI14, idx)
	case geometry.PanelFlow:
		putReading(hit.Values, "volosc", ind.VolumeOsc, idx)
		putReading(hit.Values, "ad", ind.AD, idx)
	}
	return hit
}

// putReading copies one indicator reading into the tooltip map, skipping
// warm-up NaNs (which would also break JSON encoding of the hit).
func putReading(values map[string]float64, key string, series []float64, i int) {
	v := at(series, i)
	if math.IsNaN(v) {
		return
	}
	values[key] = v
}

// ── small helpers ──────────────────────────────────────────

func sqDist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

// closestOnSegment returns the point on segment (x1,y1)-(x2,y2) closest to
// (px,py), with the parameter t clamped to [0,1].
func closestOnSegment(px, py, x1, y1, x2, y2 float64) (float64, float64) {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return x1, y1
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return x1 + t*dx, y1 + t*dy
}

// nearestBarIndex finds the bar whose timestamp is closest to t.
func nearestBarIndex(sc *render.Scene, t int64) int {
	if len(sc.Bars) == 0 {
		return -1
	}
	bestIdx := 0
	bestDiff := absInt64(sc.Bars[0].Time - t)
	for i, b := range sc.Bars {
		if d := absInt64(b.Time - t); d < bestDiff {
			bestDiff = d
			bestIdx = i
		}
	}
	return bestIdx
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func at(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return math.NaN()
	}
	return series[i]
}
