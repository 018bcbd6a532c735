package gateway

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"chart-systemv1/internal/chart"
	"chart-systemv1/internal/feed"
	"chart-systemv1/internal/interact"
	"chart-systemv1/internal/logger"
	"chart-systemv1/internal/metrics"
	"chart-systemv1/internal/render"
)

func testHub() *Hub {
	pane := chart.NewPane(feed.SeedBars(120), chart.Options{Replay: true, Projections: true})
	pane.Resize(640, 480)
	return NewHub(pane, render.NewPipeline(render.DarkTheme(), 1), nil)
}

func TestApplyCommand_PointerMoveRepliesTooltip(t *testing.T) {
	h := testHub()

	reply := h.applyCommand(clientMsg{Type: "POINTER_MOVE", X: 200, Y: 100})
	if reply == nil {
		t.Fatal("no tooltip reply")
	}
	var env struct {
		Type string          `json:"type"`
		Hit  json.RawMessage `json:"hit"`
	}
	if err := json.Unmarshal(reply, &env); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if env.Type != "tooltip" {
		t.Errorf("reply type %q, want tooltip", env.Type)
	}
	if string(env.Hit) == "null" {
		t.Error("pointer inside the plot produced a null hit")
	}
}

func TestApplyCommand_ClickRepliesSelection(t *testing.T) {
	h := testHub()
	h.applyCommand(clientMsg{Type: "POINTER_MOVE", X: 200, Y: 100})

	reply := h.applyCommand(clientMsg{Type: "CLICK"})
	if reply == nil {
		t.Fatal("no selection reply")
	}
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(reply, &env); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if env.Type != "selection" {
		t.Errorf("reply type %q, want selection", env.Type)
	}
}

func TestApplyCommand_ModeAndWheel(t *testing.T) {
	h := testHub()

	h.applyCommand(clientMsg{Type: "SET_MODE", Mode: "replay"})
	if h.pane.Mode() != interact.ModeReplay {
		t.Fatal("SET_MODE replay did not switch the pane")
	}

	before := h.pane.Scene().CursorTime
	h.applyCommand(clientMsg{Type: "WHEEL", Delta: -1})
	after := h.pane.Scene().CursorTime
	if after >= before {
		t.Errorf("wheel -1 moved cursor %d → %d, want backwards", before, after)
	}

	h.applyCommand(clientMsg{Type: "SET_MODE", Mode: "live"})
	if h.pane.Mode() != interact.ModeLive {
		t.Error("SET_MODE live did not switch back")
	}
}

func TestBroadcastFrame_TaggedWithFrameID(t *testing.T) {
	h := testHub()
	c := &Client{send: make(chan []byte, 1)}
	h.clients[c] = true

	h.broadcastFrame()

	var msg []byte
	select {
	case msg = <-c.send:
	default:
		t.Fatal("no frame broadcast")
	}

	var env struct {
		Type    string `json:"type"`
		FrameID string `json:"frame_id"`
		Bars    int    `json:"bars"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("unmarshal frame envelope: %v", err)
	}
	if env.Type != "frame" {
		t.Fatalf("envelope type %q, want frame", env.Type)
	}

	hist := h.pane.History()
	want := logger.GenerateFrameID(h.pane.Version(), hist[len(hist)-1].Time)
	if env.FrameID != want {
		t.Errorf("frame_id %q, want %q", env.FrameID, want)
	}
	if env.Bars != len(hist) {
		t.Errorf("bars %d, want %d", env.Bars, len(hist))
	}
}

func TestBroadcastFrame_ObservesComputeAndRender(t *testing.T) {
	h := testHub()
	h.met = metrics.NewMetrics() // once per test binary
	c := &Client{send: make(chan []byte, 1)}
	h.clients[c] = true

	h.broadcastFrame()

	if got := testutil.CollectAndCount(h.met.ComputeDur); got != 1 {
		t.Errorf("ComputeDur observations: %d, want 1", got)
	}
	if got := testutil.CollectAndCount(h.met.RenderDur); got != 1 {
		t.Errorf("RenderDur observations: %d, want 1", got)
	}
	if got := testutil.ToFloat64(h.met.FramesTotal); got != 1 {
		t.Errorf("FramesTotal %v, want 1", got)
	}
}

func TestBroadcast_DropsForSlowClients(t *testing.T) {
	h := testHub()

	slow := &Client{send: make(chan []byte)} // no reader, zero buffer
	fast := &Client{send: make(chan []byte, 4)}
	h.clients[slow] = true
	h.clients[fast] = true

	// Must not block on the slow client.
	h.broadcast([]byte("frame-1"))

	select {
	case msg := <-fast.send:
		if string(msg) != "frame-1" {
			t.Errorf("fast client got %q", msg)
		}
	default:
		t.Error("fast client did not receive the frame")
	}
	select {
	case <-slow.send:
		t.Error("slow client unexpectedly received a frame")
	default:
	}
}

func TestClientCount(t *testing.T) {
	h := testHub()
	if h.ClientCount() != 0 {
		t.Fatalf("fresh hub has %d clients", h.ClientCount())
	}
	c := &Client{send: make(chan []byte, 1)}
	h.clients[c] = true
	if h.ClientCount() != 1 {
		t.Errorf("count %d, want 1", h.ClientCount())
	}
	h.RemoveClient(c)
	if h.ClientCount() != 0 {
		t.Errorf("count after remove %d, want 0", h.ClientCount())
	}
}
