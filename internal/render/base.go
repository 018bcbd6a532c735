package render

import (
	"fmt"
	"math"
	"time"

	"github.com/fogleman/gg"

	"chart-systemv1/internal/geometry"
)

// baseLayer paints the background, panel frames, grid, candlesticks, volume
// bars, and axis labels.
type baseLayer struct{}

func (baseLayer) Name() string { return "base" }

func (baseLayer) Draw(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	g := sc.Geo

	dc.SetHexColor(th.Background)
	dc.Clear()

	// Panel fills and frames.
	plotW := g.Width - geometry.PadLeft - geometry.PadRight
	for p := geometry.PanelPrice; p < geometry.PanelCount; p++ {
		sec := g.Sections[p]
		dc.SetHexColor(th.PanelFill)
		dc.DrawRectangle(geometry.PadLeft, sec.Top, plotW, sec.Height)
		dc.Fill()
		dc.SetHexColor(th.Grid)
		dc.SetLineWidth(1)
		dc.DrawRectangle(geometry.PadLeft, sec.Top, plotW, sec.Height)
		dc.Stroke()

		dc.SetHexColor(th.AxisText)
		dc.DrawString(p.String(), geometry.PadLeft+4, sec.Top+10)
	}

	drawPriceAxis(dc, sc, th)
	drawTimeAxis(dc, sc, th)
	drawCandles(dc, sc, th)
	drawVolume(dc, sc, th)
}

func drawCandles(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	g := sc.Geo
	bw := candleWidth(sc)

	for _, b := range sc.Bars {
		x := g.TimeToX(b.Time)
		up := b.Close >= b.Open
		color := th.CandleDown
		if up {
			color = th.CandleUp
		}

		// Wick
		dc.SetHexColor(color)
		dc.SetLineWidth(1)
		dc.DrawLine(x, g.PriceToY(b.High), x, g.PriceToY(b.Low))
		dc.Stroke()

		// Body
		yo, yc := g.PriceToY(b.Open), g.PriceToY(b.Close)
		top := math.Min(yo, yc)
		h := math.Abs(yo - yc)
		if h < 1 {
			h = 1
		}
		dc.DrawRectangle(x-bw/2, top, bw, h)
		dc.Fill()
	}
}

func drawVolume(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	g := sc.Geo
	if g.MaxVolume <= 0 {
		return
	}
	sec := g.Sections[geometry.PanelVolume]
	bw := candleWidth(sc)

	dc.SetHexColor(th.Volume)
	for _, b := range sc.Bars {
		x := g.TimeToX(b.Time)
		h := b.Volume / g.MaxVolume * sec.Height
		dc.DrawRectangle(x-bw/2, sec.Top+sec.Height-h, bw, h)
		dc.Fill()
	}
}

func drawPriceAxis(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	g := sc.Geo
	const ticks = 5

	for i := 0; i <= ticks; i++ {
		frac := float64(i) / ticks
		price := g.MinPrice + frac*(g.MaxPrice-g.MinPrice)
		y := g.PriceToY(price)

		dc.SetHexColor(th.Grid)
		dc.SetLineWidth(0.5)
		dc.DrawLine(geometry.PadLeft, y, g.Width-geometry.PadRight, y)
		dc.Stroke()

		dc.SetHexColor(th.AxisText)
		dc.DrawString(fmt.Sprintf("%.2f", price), g.Width-geometry.PadRight+4, y+4)
	}
}

func drawTimeAxis(dc *gg.Context, sc *Scene, th *ThemeTokens) {
	g := sc.Geo
	const ticks = 4

	for i := 0; i <= ticks; i++ {
		frac := float64(i) / ticks
		t := g.MinTime + int64(frac*float64(g.MaxTime-g.MinTime))
		x := g.TimeToX(t)
		label := time.UnixMilli(t).Format("15:04")

		dc.SetHexColor(th.AxisText)
		dc.DrawStringAnchored(label, x, g.Height-geometry.PadBottom+14, 0.5, 0.5)
	}
}

// candleWidth spaces candles at 70% of the per-bar pixel budget.
func candleWidth(sc *Scene) float64 {
	g := sc.Geo
	n := len(sc.Bars)
	if n == 0 {
		return 1
	}
	w := (g.Width - geometry.PadLeft - geometry.PadRight) / float64(n) * 0.7
	if w < 1 {
		w = 1
	}
	return w
}
