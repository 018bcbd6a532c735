// cmd/chartd runs the chart engine as a service: a synthetic bar feed drives
// one chart pane, and a WebSocket gateway streams rendered frames and
// tooltip state to clients while accepting their pointer/replay commands.
//
// Usage:
//
//	LISTEN_ADDR=:8080 METRICS_ADDR=:9090 go run ./cmd/chartd
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chart-systemv1/config"
	"chart-systemv1/internal/chart"
	"chart-systemv1/internal/feed"
	"chart-systemv1/internal/gateway"
	"chart-systemv1/internal/logger"
	"chart-systemv1/internal/metrics"
	"chart-systemv1/internal/model"
	"chart-systemv1/internal/render"
	"chart-systemv1/internal/ringbuf"
	redisstore "chart-systemv1/internal/store/redis"
	sqlitestore "chart-systemv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	slogger := logger.Init("chartd", slog.LevelInfo)

	cfg := config.Load()
	slogger.Info("starting",
		slog.String("listen", cfg.ListenAddr),
		slog.Int("seed_bars", cfg.SeedBars),
		slog.Int("feed_interval_ms", cfg.FeedIntervalMS))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slogger.Info("shutdown signal received")
		cancel()
	}()

	met := metrics.NewMetrics()
	health := metrics.NewHealthStatus()
	metSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metSrv.Start()
	defer func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutCancel()
		metSrv.Stop(shutCtx)
	}()

	// Optional warm-start from Redis; a fresh seed otherwise.
	gen := feed.NewGenerator(42)
	seed := gen.Seed(cfg.SeedBars)

	var cache *redisstore.Cache
	if cfg.RedisAddr != "" {
		var err error
		cache, err = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.HistoryMax)
		if err != nil {
			slogger.Warn("redis unavailable, continuing without cache", slog.String("err", err.Error()))
		} else {
			defer cache.Close()
			if cached, err := cache.LoadRecent(ctx, cfg.HistoryMax); err == nil && len(cached) > len(seed) {
				slogger.Info("warm-starting from redis", slog.Int("bars", len(cached)))
				seed = cached
			}
		}
	}

	var recorder *sqlitestore.Recorder
	if cfg.SQLitePath != "" {
		var err error
		recorder, err = sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			slogger.Warn("sqlite unavailable, continuing without recorder", slog.String("err", err.Error()))
		} else {
			defer recorder.Close()
			for _, b := range seed {
				recorder.Append(b)
			}
			go recorder.Run(ctx, 5*time.Second)
		}
	}

	pane := chart.NewPane(seed, chart.Options{
		Replay:      true,
		Projections: true,
		HistoryMax:  cfg.HistoryMax,
	})
	pane.Resize(cfg.CanvasW, cfg.CanvasH)

	// Feed → ring → pane.
	ring := ringbuf.New(256)
	runner := feed.NewRunner(gen, ring, time.Duration(cfg.FeedIntervalMS)*time.Millisecond)
	runner.OnBar = func(b model.Bar) {
		if recorder != nil {
			recorder.Append(b)
		}
		if cache != nil {
			if err := cache.Append(ctx, b); err != nil {
				slogger.Warn("redis append failed", slog.String("err", err.Error()))
			}
		}
	}
	health.SetFeedRunning(true)
	go func() {
		runner.Run(ctx)
		health.SetFeedRunning(false)
	}()
	go drainRing(ctx, ring, pane, met, health)

	pipeline := render.NewPipeline(render.ThemeByName(cfg.Theme), cfg.DPR)
	hub := gateway.NewHub(pane, pipeline, met)
	go hub.RunFrames(ctx, time.Duration(cfg.FrameIntervalMS)*time.Millisecond)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutCancel()
		srv.Shutdown(shutCtx)
	}()

	slogger.Info("gateway listening", slog.String("addr", cfg.ListenAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[chartd] server error: %v", err)
	}
	slogger.Info("stopped")
}

// drainRing moves bars from the feed ring into the pane.
func drainRing(ctx context.Context, ring *ringbuf.Ring, pane *chart.Pane, met *metrics.Metrics, health *metrics.HealthStatus) {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	var lastOverflow uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				b, ok := ring.Pop()
				if !ok {
					break
				}
				if pane.AppendBar(b) {
					met.BarsAppended.Inc()
					health.SetLastBar(time.UnixMilli(b.Time), len(pane.History()))
				} else {
					met.BarsDropped.Inc()
				}
			}
			if ov := ring.Overflow(); ov > lastOverflow {
				met.RingOverflow.Add(float64(ov - lastOverflow))
				lastOverflow = ov
			}
		}
	}
}
