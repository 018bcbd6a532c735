package render

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"
)

// maxDPR caps the device-pixel-ratio scale.
const maxDPR = 2.0

// Layer paints one z-slice of the chart. Draw must be idempotent: a full
// clear-and-redraw that is a pure function of the scene and theme.
type Layer interface {
	Name() string
	Draw(dc *gg.Context, sc *Scene, th *ThemeTokens)
}

// Pipeline owns the ordered layer stack and composites frames.
type Pipeline struct {
	theme  ThemeTokens
	dpr    float64
	layers []Layer
}

// NewPipeline builds the fixed z-order stack: base → indicators →
// projections → events → anchors → cursor.
func NewPipeline(theme ThemeTokens, dpr float64) *Pipeline {
	if dpr <= 0 {
		dpr = 1
	}
	if dpr > maxDPR {
		dpr = maxDPR
	}
	return &Pipeline{
		theme: theme,
		dpr:   dpr,
		layers: []Layer{
			baseLayer{},
			indicatorLayer{},
			projectionLayer{},
			eventLayer{},
			anchorLayer{},
			cursorLayer{},
		},
	}
}

// Frame renders the scene into a single composited RGBA image. Returns nil
// without touching any canvas when the scene's geometry is nil ("nothing to
// render this frame").
func (p *Pipeline) Frame(sc *Scene) *image.RGBA {
	if sc == nil || sc.Geo == nil {
		return nil
	}

	w := int(sc.Geo.Width * p.dpr)
	h := int(sc.Geo.Height * p.dpr)
	if w <= 0 || h <= 0 {
		return nil
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for _, layer := range p.layers {
		dc := gg.NewContext(w, h)
		dc.Scale(p.dpr, p.dpr)
		layer.Draw(dc, sc, &p.theme)
		draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Over)
	}
	return out
}

// Theme returns the pipeline's theme tokens.
func (p *Pipeline) Theme() ThemeTokens { return p.theme }

// DPR returns the effective (capped) device pixel ratio.
func (p *Pipeline) DPR() float64 { return p.dpr }
