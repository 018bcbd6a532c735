package render

import (
	"github.com/fogleman/gg"
)

// projectionLayer paints the forward cone: risk band, base envelope,
// scenario paths, and the active scenario's confidence band.
type projectionLayer struct{}

func (projectionLayer) Name() string { return "projection" }

func (projectionLayer) Draw(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	if !sc.ShowProjections || sc.Proj == nil || len(sc.Proj.Steps) == 0 || len(sc.Bars) == 0 {
		return
	}

	g := sc.Geo
	env := sc.Proj
	lastBar := sc.Bars[len(sc.Bars)-1]
	startX := g.TimeToX(lastBar.Time)
	startY := g.PriceToY(lastBar.Close)

	xs := make([]float64, len(env.Steps))
	for i, st := range env.Steps {
		xs[i] = g.TimeToX(st.Time)
	}

	// Risk band (widest, painted first).
	dc.SetHexColor(th.RiskBand)
	dc.MoveTo(startX, startY)
	for i, st := range env.Steps {
		dc.LineTo(xs[i], g.PriceToY(st.RiskUpper))
	}
	for i := len(env.Steps) - 1; i >= 0; i-- {
		dc.LineTo(xs[i], g.PriceToY(env.Steps[i].RiskLower))
	}
	dc.ClosePath()
	dc.Fill()

	// Base envelope.
	dc.SetHexColor(th.ProjectionFill)
	dc.MoveTo(startX, startY)
	for i, st := range env.Steps {
		dc.LineTo(xs[i], g.PriceToY(st.Upper))
	}
	for i := len(env.Steps) - 1; i >= 0; i-- {
		dc.LineTo(xs[i], g.PriceToY(env.Steps[i].Lower))
	}
	dc.ClosePath()
	dc.Fill()

	// Active scenario confidence band.
	active := env.Active()
	dc.SetHexColor(th.ProjectionFill)
	dc.MoveTo(startX, startY)
	for i, cs := range active.Confidence {
		dc.LineTo(xs[i], g.PriceToY(cs.Upper))
	}
	for i := len(active.Confidence) - 1; i >= 0; i-- {
		dc.LineTo(xs[i], g.PriceToY(active.Confidence[i].Lower))
	}
	dc.ClosePath()
	dc.Fill()

	// Base centerline, dashed.
	dc.SetHexColor(th.ProjectionBase)
	dc.SetLineWidth(1)
	dc.SetDash(4, 3)
	dc.MoveTo(startX, startY)
	for i, st := range env.Steps {
		dc.LineTo(xs[i], g.PriceToY(st.Base))
	}
	dc.Stroke()
	dc.SetDash()

	// Scenario paths.
	colors := [3]string{th.Continuation, th.Reversion, th.RangeScenario}
	for s, scen := range env.Scenarios {
		dc.SetHexColor(colors[s])
		dc.SetLineWidth(1.4)
		dc.MoveTo(startX, startY)
		for i, price := range scen.Path {
			dc.LineTo(xs[i], g.PriceToY(price))
		}
		dc.Stroke()
	}
}
