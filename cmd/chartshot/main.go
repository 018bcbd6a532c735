// cmd/chartshot renders a single chart frame to a PNG file, either from the
// deterministic synthetic feed or from a recorded SQLite bar history. Useful
// for eyeballing layout, themes, and projection output without a browser.
//
// Usage:
//
//	go run ./cmd/chartshot --bars=200 --theme=light -o frame.png
//	go run ./cmd/chartshot --db=data/bars.db --cursor=1700003000000 -o replay.png
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"chart-systemv1/internal/chart"
	"chart-systemv1/internal/feed"
	"chart-systemv1/internal/interact"
	"chart-systemv1/internal/model"
	"chart-systemv1/internal/render"
	sqlitestore "chart-systemv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	// Flags
	nBars := flag.Int("bars", 200, "Number of synthetic bars to seed (ignored with --db)")
	width := flag.Float64("width", 1280, "Canvas width in CSS pixels")
	height := flag.Float64("height", 860, "Canvas height in CSS pixels")
	dpr := flag.Float64("dpr", 1, "Device pixel ratio (capped at 2)")
	themeName := flag.String("theme", "dark", "Theme: dark or light")
	cursor := flag.Int64("cursor", 0, "Replay cursor in epoch ms (0=live frame)")
	dbPath := flag.String("db", "", "SQLite bar database to load instead of the synthetic feed")
	out := flag.String("o", "chart.png", "Output PNG path")
	flag.Parse()

	bars := loadBars(*dbPath, *nBars)

	pane := chart.NewPane(bars, chart.Options{
		Replay:      true,
		Projections: true,
		HistoryMax:  len(bars) + 1,
	})
	pane.Resize(*width, *height)

	if *cursor > 0 {
		pane.SetMode(interact.ModeReplay)
		pane.SetCursor(*cursor)
	}

	pipeline := render.NewPipeline(render.ThemeByName(*themeName), *dpr)
	img := pipeline.Frame(pane.Scene())
	if img == nil {
		log.Fatal("[chartshot] degenerate frame: no renderable geometry")
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("[chartshot] create %s: %v", *out, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("[chartshot] png encode: %v", err)
	}

	b := img.Bounds()
	fmt.Printf("[chartshot] wrote %s (%dx%d, %d bars, mode=%s)\n",
		*out, b.Dx(), b.Dy(), len(pane.History()), pane.Mode())
}

func loadBars(dbPath string, n int) []model.Bar {
	if dbPath == "" {
		return feed.SeedBars(n)
	}
	rec, err := sqlitestore.Open(dbPath)
	if err != nil {
		log.Fatalf("[chartshot] sqlite open failed: %v", err)
	}
	defer rec.Close()

	bars, err := rec.ReadBars(0)
	if err != nil {
		log.Fatalf("[chartshot] sqlite read failed: %v", err)
	}
	if len(bars) == 0 {
		log.Printf("[chartshot] %s holds no bars, falling back to synthetic feed", dbPath)
		return feed.SeedBars(n)
	}
	return bars
}
