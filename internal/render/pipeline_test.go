package render

import (
	"image/color"
	"testing"
	"time"

	"chart-systemv1/internal/geometry"
	"chart-systemv1/internal/indicator"
	"chart-systemv1/internal/model"
	"chart-systemv1/internal/projection"
)

// ────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────

var testBase = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).UnixMilli()

func frameScene(n int) *Scene {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + 0.1*float64(i)
		bars[i] = model.Bar{
			Time: testBase + int64(i)*60_000,
			Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		}
	}
	ind := indicator.Compute(bars)
	return &Scene{
		Bars:            bars,
		Geo:             geometry.Compute(bars, 640, 480),
		Ind:             ind,
		Proj:            projection.Compute(bars, ind),
		ShowProjections: true,
	}
}

// ────────────────────────────────────────────────────────────
// Frame compositing
// ────────────────────────────────────────────────────────────

func TestFrame_NilGeometry_Nil(t *testing.T) {
	p := NewPipeline(DarkTheme(), 1)
	if img := p.Frame(nil); img != nil {
		t.Error("nil scene produced an image")
	}
	if img := p.Frame(&Scene{}); img != nil {
		t.Error("scene without geometry produced an image")
	}
}

func TestFrame_DimensionsScaleWithDPR(t *testing.T) {
	sc := frameScene(60)

	img := NewPipeline(DarkTheme(), 1).Frame(sc)
	if img == nil {
		t.Fatal("nil frame for a renderable scene")
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("dpr=1 frame %dx%d, want 640x480", b.Dx(), b.Dy())
	}

	img = NewPipeline(DarkTheme(), 2).Frame(sc)
	if b := img.Bounds(); b.Dx() != 1280 || b.Dy() != 960 {
		t.Errorf("dpr=2 frame %dx%d, want 1280x960", b.Dx(), b.Dy())
	}
}

func TestNewPipeline_ClampsDPR(t *testing.T) {
	if got := NewPipeline(DarkTheme(), 3.5).DPR(); got != 2 {
		t.Errorf("dpr 3.5 clamped to %.1f, want 2", got)
	}
	if got := NewPipeline(DarkTheme(), 0).DPR(); got != 1 {
		t.Errorf("dpr 0 defaulted to %.1f, want 1", got)
	}
	if got := NewPipeline(DarkTheme(), -1).DPR(); got != 1 {
		t.Errorf("negative dpr defaulted to %.1f, want 1", got)
	}
}

func TestFrame_PaintsBackground(t *testing.T) {
	sc := frameScene(60)
	img := NewPipeline(DarkTheme(), 1).Frame(sc)
	if img == nil {
		t.Fatal("nil frame")
	}

	// The base layer fills the canvas, so no pixel stays fully transparent.
	corners := [][2]int{{0, 0}, {639, 0}, {0, 479}, {639, 479}}
	for _, c := range corners {
		_, _, _, a := img.At(c[0], c[1]).RGBA()
		if a == 0 {
			t.Errorf("corner (%d,%d) is transparent; background not painted", c[0], c[1])
		}
	}
}

func TestFrame_ThemesDiffer(t *testing.T) {
	sc := frameScene(60)
	dark := NewPipeline(DarkTheme(), 1).Frame(sc)
	light := NewPipeline(LightTheme(), 1).Frame(sc)

	if colorsEqual(dark.At(2, 2), light.At(2, 2)) {
		t.Error("dark and light frames share the same background pixel")
	}
}

func TestFrame_Idempotent(t *testing.T) {
	sc := frameScene(60)
	p := NewPipeline(DarkTheme(), 1)

	a := p.Frame(sc)
	b := p.Frame(sc)
	if len(a.Pix) != len(b.Pix) {
		t.Fatal("frame sizes differ across identical renders")
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("identical scenes rendered different pixels")
		}
	}
}

// ────────────────────────────────────────────────────────────
// Themes
// ────────────────────────────────────────────────────────────

func TestThemeByName(t *testing.T) {
	if th := ThemeByName("light"); th != LightTheme() {
		t.Error("light lookup did not return the light theme")
	}
	if th := ThemeByName("dark"); th != DarkTheme() {
		t.Error("dark lookup did not return the dark theme")
	}
	// Unknown names fall back to dark.
	if th := ThemeByName("solarized"); th != DarkTheme() {
		t.Error("unknown theme name did not fall back to dark")
	}
}

func colorsEqual(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
