package render

import (
	"chart-systemv1/internal/geometry"
	"chart-systemv1/internal/indicator"
	"chart-systemv1/internal/model"
	"chart-systemv1/internal/projection"
)

// Scene is the full set of inputs for one frame: the visible bar window, the
// derived layers computed against it, and the transient UI state. The pane
// guarantees that Geo/Ind/Proj were all computed against Bars in the same
// update cycle, so a frame never mixes stale and fresh layers.
type Scene struct {
	Bars    []model.Bar
	Geo     *geometry.Geometry
	Ind     *indicator.Set
	Proj    *projection.Envelope
	Events  []model.ChartEvent
	Anchors []model.ReasoningAnchor

	// CursorTime is the replay cursor position (epoch ms); 0 means live mode
	// with no cursor line.
	CursorTime int64

	// ShowProjections gates the projection layer.
	ShowProjections bool
}

// EventXY returns the pixel position of an event marker.
func (s *Scene) EventXY(ev model.ChartEvent) (x, y float64) {
	return s.Geo.TimeToX(ev.Time), s.Geo.PriceToY(ev.Price)
}

// AnchorXY returns the pixel position of a reasoning anchor. Anchors sit
// slightly above their event so the two stay individually hoverable.
func (s *Scene) AnchorXY(a model.ReasoningAnchor) (x, y float64) {
	return s.Geo.TimeToX(a.Time), s.Geo.PriceToY(a.Price) - anchorLift
}

// anchorLift is the vertical pixel offset between an anchor and its event.
const anchorLift = 18.0
