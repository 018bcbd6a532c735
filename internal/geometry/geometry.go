// Package geometry maps a bar window and a pixel viewport onto the fixed
// 7-panel chart layout and provides the bidirectional time↔x and price↔y
// coordinate mappings.
//
// Geometry values are stateless and recomputed per (bars, width, height)
// input; nothing here is mutated after Compute returns.
package geometry

import (
	"chart-systemv1/internal/model"
)

// Panel indexes into Geometry.Sections. The order is fixed and the layout
// invariant section[i].Top + section[i].Height + gap == section[i+1].Top
// holds for every adjacent pair.
type Panel int

const (
	PanelPrice Panel = iota
	PanelVolume
	PanelRSI
	PanelMACD
	PanelStoch
	PanelMFI
	PanelFlow

	PanelCount
)

var panelNames = [PanelCount]string{"price", "volume", "rsi", "macd", "stoch", "mfi", "flow"}

// String returns the lowercase panel name.
func (p Panel) String() string {
	if p < 0 || p >= PanelCount {
		return "unknown"
	}
	return panelNames[p]
}

// Layout constants. Padding is fixed; panels below the price panel share one
// scale factor so they shrink and grow together.
const (
	PadTop    = 8.0
	PadRight  = 64.0
	PadBottom = 36.0
	PadLeft   = 12.0
	PanelGap  = 8.0

	priceRatio        = 0.42
	priceRatioCramped = 0.36
	minPanelScale     = 0.5
)

// panelBaselines are the pre-scale pixel heights of the non-price panels,
// in panel order starting at PanelVolume.
var panelBaselines = [PanelCount - 1]float64{64, 72, 72, 72, 72, 72}

// Section is one horizontal band of the chart.
type Section struct {
	Top    float64
	Height float64
}

// Geometry is the derived layout for one (bars, width, height) triple.
type Geometry struct {
	Width  float64
	Height float64

	Sections [PanelCount]Section

	MinTime   int64
	MaxTime   int64
	MinPrice  float64
	MaxPrice  float64
	MaxVolume float64
}

// Compute derives the panel layout and coordinate ranges for the visible bar
// window. It returns nil when bars is empty, either pixel dimension is
// non-positive, or the padded plot area collapses; callers treat nil as
// "nothing to render this frame".
func Compute(bars []model.Bar, width, height float64) *Geometry {
	if len(bars) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	plotW := width - PadLeft - PadRight
	plotH := height - PadTop - PadBottom
	if plotW <= 0 || plotH <= 0 {
		return nil
	}

	g := &Geometry{Width: width, Height: height}

	g.MinTime = bars[0].Time
	g.MaxTime = bars[len(bars)-1].Time
	g.MinPrice = bars[0].Low
	g.MaxPrice = bars[0].High
	for _, b := range bars {
		if b.Low < g.MinPrice {
			g.MinPrice = b.Low
		}
		if b.High > g.MaxPrice {
			g.MaxPrice = b.High
		}
		if b.Volume > g.MaxVolume {
			g.MaxVolume = b.Volume
		}
	}

	var baselineTotal float64
	for _, h := range panelBaselines {
		baselineTotal += h
	}
	gaps := float64(PanelCount-1) * PanelGap

	priceH := priceRatio * plotH
	if priceH+baselineTotal+gaps > plotH {
		priceH = priceRatioCramped * plotH
	}

	remaining := plotH - priceH - gaps
	scale := remaining / baselineTotal
	if scale < minPanelScale {
		scale = minPanelScale
	}

	g.Sections[PanelPrice] = Section{Top: PadTop, Height: priceH}
	top := PadTop + priceH + PanelGap
	for i, base := range panelBaselines {
		h := base * scale
		g.Sections[Panel(i+1)] = Section{Top: top, Height: h}
		top += h + PanelGap
	}

	return g
}

// TimeToX maps an epoch-ms timestamp to a pixel x coordinate.
func (g *Geometry) TimeToX(t int64) float64 {
	span := float64(g.MaxTime - g.MinTime)
	if span == 0 {
		span = 1
	}
	return PadLeft + float64(t-g.MinTime)/span*(g.Width-PadLeft-PadRight)
}

// XToTime is the inverse of TimeToX.
func (g *Geometry) XToTime(x float64) int64 {
	plotW := g.Width - PadLeft - PadRight
	if plotW == 0 {
		plotW = 1
	}
	frac := (x - PadLeft) / plotW
	return g.MinTime + int64(frac*float64(g.MaxTime-g.MinTime)+0.5)
}

// PriceToY maps a price to a pixel y coordinate inside the price panel.
func (g *Geometry) PriceToY(p float64) float64 {
	span := g.MaxPrice - g.MinPrice
	if span == 0 {
		span = 1
	}
	sec := g.Sections[PanelPrice]
	return sec.Top + (1-(p-g.MinPrice)/span)*sec.Height
}

// YToPrice is the inverse of PriceToY.
func (g *Geometry) YToPrice(y float64) float64 {
	sec := g.Sections[PanelPrice]
	h := sec.Height
	if h == 0 {
		h = 1
	}
	frac := 1 - (y-sec.Top)/h
	return g.MinPrice + frac*(g.MaxPrice-g.MinPrice)
}

// ValueToY maps a value in [lo, hi] to a y coordinate inside a panel. Used
// by the oscillator panels, which each carry their own value range.
func (g *Geometry) ValueToY(p Panel, v, lo, hi float64) float64 {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	sec := g.Sections[p]
	return sec.Top + (1-(v-lo)/span)*sec.Height
}

// PanelAt returns the panel containing the y coordinate, or -1 when y falls
// in a gap or outside the plot.
func (g *Geometry) PanelAt(y float64) Panel {
	for p := PanelPrice; p < PanelCount; p++ {
		sec := g.Sections[p]
		if y >= sec.Top && y <= sec.Top+sec.Height {
			return p
		}
	}
	return -1
}
