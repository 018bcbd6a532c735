package render

import (
	"github.com/fogleman/gg"

	"chart-systemv1/internal/model"
)

// markerRadius is the visual radius of event markers; the hit-test radius is
// larger and lives in the interact package.
const markerRadius = 5.0

// eventLayer paints trade-event markers: triangles pointing up for buys,
// down for sells.
type eventLayer struct{}

func (eventLayer) Name() string { return "events" }

func (eventLayer) Draw(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	for _, ev := range sc.Events {
		if ev.Time < sc.Geo.MinTime || ev.Time > sc.Geo.MaxTime {
			continue
		}
		x, y := sc.EventXY(ev)

		color := th.EventSell
		if ev.Side == model.SideBuy {
			color = th.EventBuy
		}
		dc.SetHexColor(color)

		if ev.Side == model.SideBuy {
			dc.MoveTo(x, y-markerRadius)
			dc.LineTo(x-markerRadius, y+markerRadius)
			dc.LineTo(x+markerRadius, y+markerRadius)
		} else {
			dc.MoveTo(x, y+markerRadius)
			dc.LineTo(x-markerRadius, y-markerRadius)
			dc.LineTo(x+markerRadius, y-markerRadius)
		}
		dc.ClosePath()
		dc.Fill()
	}
}

// anchorLayer paints reasoning anchors as rings above their event, ring
// weight scaling with confidence.
type anchorLayer struct{}

func (anchorLayer) Name() string { return "anchors" }

func (anchorLayer) Draw(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	for _, a := range sc.Anchors {
		if a.Time < sc.Geo.MinTime || a.Time > sc.Geo.MaxTime {
			continue
		}
		x, y := sc.AnchorXY(a)

		width := 1.0
		switch a.Confidence {
		case model.ConfidenceMedium:
			width = 1.6
		case model.ConfidenceHigh:
			width = 2.4
		}

		dc.SetHexColor(th.Anchor)
		dc.SetLineWidth(width)
		dc.DrawCircle(x, y, markerRadius-1)
		dc.Stroke()
	}
}

// cursorLayer paints the replay cursor as a dashed vertical line across the
// whole plot.
type cursorLayer struct{}

func (cursorLayer) Name() string { return "cursor" }

func (cursorLayer) Draw(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	if sc.CursorTime == 0 {
		return
	}
	g := sc.Geo
	x := g.TimeToX(sc.CursorTime)

	dc.SetHexColor(th.Cursor)
	dc.SetLineWidth(1)
	dc.SetDash(5, 3)
	dc.DrawLine(x, 0, x, g.Height)
	dc.Stroke()
	dc.SetDash()
}
