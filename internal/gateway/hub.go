// Package gateway serves the chart over WebSocket: it streams rendered
// frames plus mode/cursor state to clients and applies their pointer, wheel,
// and mode commands to the pane.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"log"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chart-systemv1/internal/chart"
	"chart-systemv1/internal/interact"
	"chart-systemv1/internal/logger"
	"chart-systemv1/internal/metrics"
	"chart-systemv1/internal/render"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub manages WebSocket clients for one chart pane.
type Hub struct {
	pane     *chart.Pane
	pipeline *render.Pipeline
	met      *metrics.Metrics

	mu      sync.RWMutex
	clients map[*Client]bool
	seq     int64
}

// NewHub creates a hub serving pane frames rendered through pipeline.
func NewHub(pane *chart.Pane, pipeline *render.Pipeline, met *metrics.Metrics) *Hub {
	return &Hub{
		pane:     pane,
		pipeline: pipeline,
		met:      met,
		clients:  make(map[*Client]bool),
	}
}

// HandleWS upgrades an HTTP connection and registers the client.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  h,
	}
	conn.EnableWriteCompression(true)

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	if h.met != nil {
		h.met.WSClients.Set(float64(count))
	}
	log.Printf("[gateway] ws client connected (%d total)", count)

	go client.writePump()
	go client.readPump()
}

// RemoveClient removes a client from the hub.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	if h.met != nil {
		h.met.WSClients.Set(float64(count))
	}
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RunFrames renders and broadcasts a frame on every tick. Blocks until ctx
// is cancelled. Skipping is cheap: with no clients connected nothing is
// rendered.
func (h *Hub) RunFrames(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.ClientCount() == 0 {
				continue
			}
			h.broadcastFrame()
		}
	}
}

func (h *Hub) broadcastFrame() {
	computeStart := time.Now()
	sc := h.pane.Scene()
	if h.met != nil {
		h.met.ComputeDur.Observe(time.Since(computeStart).Seconds())
	}

	renderStart := time.Now()
	img := h.pipeline.Frame(sc)
	if img == nil {
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Printf("[gateway] png encode failed: %v", err)
		return
	}

	if h.met != nil {
		h.met.RenderDur.Observe(time.Since(renderStart).Seconds())
		h.met.FramesTotal.Inc()
	}

	h.mu.Lock()
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	var lastBarTime int64
	if n := len(sc.Bars); n > 0 {
		lastBarTime = sc.Bars[n-1].Time
	}
	frameID := logger.GenerateFrameID(h.pane.Version(), lastBarTime)
	ctx := logger.WithFrameID(context.Background(), frameID)

	envelope, _ := json.Marshal(map[string]interface{}{
		"type":     "frame",
		"seq":      seq,
		"frame_id": frameID,
		"png":      base64.StdEncoding.EncodeToString(buf.Bytes()),
		"mode":     h.pane.Mode(),
		"cursor":   sc.CursorTime,
		"bars":     len(sc.Bars),
		"ts":       time.Now().Format(time.RFC3339Nano),
	})

	slog.Debug("frame broadcast",
		append([]any{slog.Int64("seq", seq), slog.Int("bars", len(sc.Bars))},
			logger.LogWithFrame(ctx)...)...)

	h.broadcast(envelope)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// slow client: drop the frame rather than block the hub
		}
	}
}

// applyCommand executes one client command against the pane and returns the
// reply envelope to send back (nil when no direct reply is needed).
func (h *Hub) applyCommand(msg clientMsg) []byte {
	switch msg.Type {
	case "POINTER_MOVE":
		hit := h.pane.PointerMove(msg.X, msg.Y)
		if h.met != nil && hit != nil {
			h.met.HitTestsTotal.WithLabelValues(string(hit.Kind)).Inc()
		}
		reply, _ := json.Marshal(map[string]interface{}{
			"type": "tooltip",
			"hit":  hit,
		})
		return reply

	case "POINTER_LEAVE":
		h.pane.PointerLeave()

	case "CLICK":
		sel := h.pane.Click()
		reply, _ := json.Marshal(map[string]interface{}{
			"type":      "selection",
			"selection": sel,
		})
		return reply

	case "WHEEL":
		h.pane.Wheel(msg.Delta)

	case "SET_MODE":
		h.pane.SetMode(interact.Mode(msg.Mode))
		if h.met != nil {
			h.met.ReplayToggles.Inc()
		}

	case "SET_CURSOR":
		h.pane.SetCursorFromX(msg.X)

	default:
		log.Printf("[gateway] unknown command type %q", msg.Type)
	}
	return nil
}

// clientMsg is the union of all inbound command payloads.
type clientMsg struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta int     `json:"delta"`
	Mode  string  `json:"mode"`
}
