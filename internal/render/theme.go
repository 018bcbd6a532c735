// Package render paints the chart as a stack of raster layers: base
// candles/volume/axes, indicator overlays and oscillator panels, the
// projection cone, event markers, reasoning anchors, and the replay cursor.
//
// Each layer is a pure function of its inputs and redraws from scratch every
// frame; the pipeline composites the layers back-to-front into one image.
package render

// ThemeTokens is the injected color configuration for the render pipeline.
// Callers resolve colors up front and pass the full table in, so color
// resolution happens nowhere in the computational core.
// All values are #rrggbb / #rrggbbaa hex strings.
type ThemeTokens struct {
	Background string
	PanelFill  string
	Grid       string
	AxisText   string

	CandleUp   string
	CandleDown string
	Volume     string

	SMA           string
	EMA20         string
	EMA50         string
	VWAP          string
	BandEdge      string
	BandFill      string
	Ichimoku      string
	FibLevel      string
	Oscillator    string
	Signal        string
	HistogramUp   string
	HistogramDown string

	ProjectionBase string
	ProjectionFill string
	RiskBand       string
	Continuation   string
	Reversion      string
	RangeScenario  string

	EventBuy  string
	EventSell string
	Anchor    string
	Cursor    string
}

// DarkTheme is the complete dark fallback table.
func DarkTheme() ThemeTokens {
	return ThemeTokens{
		Background: "#0d1117",
		PanelFill:  "#161b22",
		Grid:       "#21262d",
		AxisText:   "#8b949e",

		CandleUp:   "#3fb950",
		CandleDown: "#f85149",
		Volume:     "#30363d",

		SMA:           "#d29922",
		EMA20:         "#58a6ff",
		EMA50:         "#bc8cff",
		VWAP:          "#39c5cf",
		BandEdge:      "#388bfd",
		BandFill:      "#388bfd22",
		Ichimoku:      "#7ee78766",
		FibLevel:      "#d2992299",
		Oscillator:    "#58a6ff",
		Signal:        "#f0883e",
		HistogramUp:   "#3fb95088",
		HistogramDown: "#f8514988",

		ProjectionBase: "#8b949e",
		ProjectionFill: "#58a6ff1f",
		RiskBand:       "#f0883e26",
		Continuation:   "#3fb950",
		Reversion:      "#f85149",
		RangeScenario:  "#d29922",

		EventBuy:  "#3fb950",
		EventSell: "#f85149",
		Anchor:    "#bc8cff",
		Cursor:    "#f0883e",
	}
}

// LightTheme is the complete light fallback table.
func LightTheme() ThemeTokens {
	return ThemeTokens{
		Background: "#ffffff",
		PanelFill:  "#f6f8fa",
		Grid:       "#d0d7de",
		AxisText:   "#57606a",

		CandleUp:   "#1a7f37",
		CandleDown: "#cf222e",
		Volume:     "#d0d7de",

		SMA:           "#9a6700",
		EMA20:         "#0969da",
		EMA50:         "#8250df",
		VWAP:          "#1b7c83",
		BandEdge:      "#218bff",
		BandFill:      "#218bff22",
		Ichimoku:      "#2da44e55",
		FibLevel:      "#9a670099",
		Oscillator:    "#0969da",
		Signal:        "#bc4c00",
		HistogramUp:   "#1a7f3788",
		HistogramDown: "#cf222e88",

		ProjectionBase: "#57606a",
		ProjectionFill: "#0969da1f",
		RiskBand:       "#bc4c0026",
		Continuation:   "#1a7f37",
		Reversion:      "#cf222e",
		RangeScenario:  "#9a6700",

		EventBuy:  "#1a7f37",
		EventSell: "#cf222e",
		Anchor:    "#8250df",
		Cursor:    "#bc4c00",
	}
}

// ThemeByName resolves "light"/"dark"; anything else falls back to dark.
func ThemeByName(name string) ThemeTokens {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}
