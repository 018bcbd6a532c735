package render

import (
	"math"

	"github.com/fogleman/gg"

	"chart-systemv1/internal/geometry"
)

// indicatorLayer paints the price-panel overlays (moving averages, VWAP,
// Bollinger bands, Ichimoku cloud, fibonacci levels) and the five oscillator
// panels.
type indicatorLayer struct{}

func (indicatorLayer) Name() string { return "indicators" }

func (indicatorLayer) Draw(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	if sc.Ind == nil {
		return
	}

	drawPriceOverlays(dc, sc, th)
	drawFib(dc, sc, th)

	drawRSIPanel(dc, sc, th)
	drawMACDPanel(dc, sc, th)
	drawStochPanel(dc, sc, th)
	drawMFIPanel(dc, sc, th)
	drawFlowPanel(dc, sc, th)
}

func drawPriceOverlays(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	ind := sc.Ind

	// Ichimoku cloud between senkou A and B.
	fillBetween(dc, sc, ind.Ichimoku.SenkouA, ind.Ichimoku.SenkouB, th.Ichimoku)

	// Bollinger band fill and edges.
	fillBetween(dc, sc, ind.Bollinger.Upper, ind.Bollinger.Lower, th.BandFill)
	strokePriceSeries(dc, sc, ind.Bollinger.Upper, th.BandEdge, 1)
	strokePriceSeries(dc, sc, ind.Bollinger.Lower, th.BandEdge, 1)

	strokePriceSeries(dc, sc, ind.SMA20, th.SMA, 1)
	strokePriceSeries(dc, sc, ind.EMA20, th.EMA20, 1.2)
	strokePriceSeries(dc, sc, ind.EMA50, th.EMA50, 1.2)
	strokePriceSeries(dc, sc, ind.VWAP, th.VWAP, 1)
}

func drawFib(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	g := sc.Geo
	fib := sc.Ind.Fib
	if !fib.Valid {
		return
	}

	dc.SetHexColor(th.FibLevel)
	dc.SetLineWidth(1)
	dc.SetDash(3, 3)
	for _, lv := range fib.Retracement {
		y := g.PriceToY(lv.Price)
		dc.DrawLine(g.TimeToX(lv.FromTime), y, g.TimeToX(lv.ToTime), y)
		dc.Stroke()
	}
	for _, lv := range fib.Extension {
		y := g.PriceToY(lv.Price)
		dc.DrawLine(g.TimeToX(lv.FromTime), y, g.TimeToX(lv.ToTime), y)
		dc.Stroke()
	}
	for _, fan := range fib.Fan {
		dc.DrawLine(g.TimeToX(fan.FromTime), g.PriceToY(fan.FromPrice),
			g.TimeToX(fan.ToTime), g.PriceToY(fan.ToPrice))
		dc.Stroke()
	}
	dc.SetDash()
}

func drawRSIPanel(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	drawGuides(dc, sc, geometry.PanelRSI, []float64{30, 70}, 0, 100, th)
	strokePanelSeries(dc, sc, geometry.PanelRSI, sc.Ind.RSI14, 0, 100, th.Oscillator, 1.2)
}

func drawMACDPanel(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	ind := sc.Ind
	lo, hi := finiteRange(ind.MACD.Line, ind.MACD.Signal, ind.MACD.Histogram)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	g := sc.Geo
	bw := candleWidth(sc)
	zeroY := g.ValueToY(geometry.PanelMACD, 0, lo, hi)

	for i, b := range sc.Bars {
		if i >= len(ind.MACD.Histogram) {
			break
		}
		v := ind.MACD.Histogram[i]
		if math.IsNaN(v) {
			continue
		}
		color := th.HistogramDown
		if v >= 0 {
			color = th.HistogramUp
		}
		y := g.ValueToY(geometry.PanelMACD, v, lo, hi)
		dc.SetHexColor(color)
		dc.DrawRectangle(g.TimeToX(b.Time)-bw/2, math.Min(y, zeroY), bw, math.Abs(y-zeroY))
		dc.Fill()
	}

	strokePanelSeries(dc, sc, geometry.PanelMACD, ind.MACD.Line, lo, hi, th.Oscillator, 1.2)
	strokePanelSeries(dc, sc, geometry.PanelMACD, ind.MACD.Signal, lo, hi, th.Signal, 1)
}

func drawStochPanel(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	drawGuides(dc, sc, geometry.PanelStoch, []float64{20, 80}, 0, 100, th)
	strokePanelSeries(dc, sc, geometry.PanelStoch, sc.Ind.StochK, 0, 100, th.Oscillator, 1.2)
	strokePanelSeries(dc, sc, geometry.PanelStoch, sc.Ind.StochD, 0, 100, th.Signal, 1)
}

func drawMFIPanel(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	drawGuides(dc, sc, geometry.PanelMFI, []float64{20, 80}, 0, 100, th)
	strokePanelSeries(dc, sc, geometry.PanelMFI, sc.Ind.MFI14, 0, 100, th.Oscillator, 1.2)
}

// drawFlowPanel shows the volume oscillator with OBV normalized onto the
// same band for context.
func drawFlowPanel(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	ind := sc.Ind
	lo, hi := finiteRange(ind.VolumeOsc)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	drawGuides(dc, sc, geometry.PanelFlow, []float64{0}, lo, hi, th)
	strokePanelSeries(dc, sc, geometry.PanelFlow, ind.VolumeOsc, lo, hi, th.Oscillator, 1.2)

	obvLo, obvHi := finiteRange(ind.OBV)
	if obvLo == obvHi {
		obvHi = obvLo + 1
	}
	strokePanelSeries(dc, sc, geometry.PanelFlow, ind.OBV, obvLo, obvHi, th.Signal, 1)
}

// ── helpers ──────────────────────────────────────────────

// strokePriceSeries draws a series as a polyline in the price panel,
// breaking at NaN gaps.
func strokePriceSeries(dc *gg.Context, sc *Scene, series []float64, color string, width float64) {
	g := sc.Geo
	dc.SetHexColor(color)
	dc.SetLineWidth(width)

	started := false
	for i, b := range sc.Bars {
		if i >= len(series) {
			break
		}
		v := series[i]
		if math.IsNaN(v) {
			if started {
				dc.Stroke()
				started = false
			}
			continue
		}
		x, y := g.TimeToX(b.Time), g.PriceToY(v)
		if !started {
			dc.MoveTo(x, y)
			started = true
		} else {
			dc.LineTo(x, y)
		}
	}
	if started {
		dc.Stroke()
	}
}

// strokePanelSeries draws a series as a polyline inside an oscillator panel
// with value range [lo, hi], breaking at NaN gaps.
func strokePanelSeries(dc *gg.Context, sc *Scene, p geometry.Panel, series []float64, lo, hi float64, color string, width float64) {
	g := sc.Geo
	dc.SetHexColor(color)
	dc.SetLineWidth(width)

	started := false
	for i, b := range sc.Bars {
		if i >= len(series) {
			break
		}
		v := series[i]
		if math.IsNaN(v) {
			if started {
				dc.Stroke()
				started = false
			}
			continue
		}
		x, y := g.TimeToX(b.Time), g.ValueToY(p, v, lo, hi)
		if !started {
			dc.MoveTo(x, y)
			started = true
		} else {
			dc.LineTo(x, y)
		}
	}
	if started {
		dc.Stroke()
	}
}

// fillBetween fills the area between two price-panel series where both are
// finite.
func fillBetween(dc *gg.Context, sc *Scene, upper, lower []float64, color string) {
	g := sc.Geo
	n := len(sc.Bars)
	if len(upper) < n || len(lower) < n {
		return
	}

	dc.SetHexColor(color)
	i := 0
	for i < n {
		// Find the next finite run.
		for i < n && (math.IsNaN(upper[i]) || math.IsNaN(lower[i])) {
			i++
		}
		start := i
		for i < n && !math.IsNaN(upper[i]) && !math.IsNaN(lower[i]) {
			i++
		}
		if i-start < 2 {
			continue
		}

		for j := start; j < i; j++ {
			x, y := g.TimeToX(sc.Bars[j].Time), g.PriceToY(upper[j])
			if j == start {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		for j := i - 1; j >= start; j-- {
			dc.LineTo(g.TimeToX(sc.Bars[j].Time), g.PriceToY(lower[j]))
		}
		dc.ClosePath()
		dc.Fill()
	}
}

func drawGuides(dc *gg.Context, sc *Scene, p geometry.Panel, levels []float64, lo, hi float64, th *ThemeTokens) {
	g := sc.Geo
	dc.SetHexColor(th.Grid)
	dc.SetLineWidth(0.5)
	for _, lv := range levels {
		y := g.ValueToY(p, lv, lo, hi)
		dc.DrawLine(geometry.PadLeft, y, g.Width-geometry.PadRight, y)
		dc.Stroke()
	}
}

// finiteRange returns the min/max over all finite values of the given
// series; (0, 0) when nothing is finite.
func finiteRange(series ...[]float64) (lo, hi float64) {
	first := true
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
