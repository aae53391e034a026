package api_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"playmaker/internal/api"
)

func TestHub_PublishRouting(t *testing.T) {
	h := api.NewHub()
	t1, cancel1 := h.Subscribe("t1")
	defer cancel1()
	all, cancelAll := h.Subscribe(api.AllTactics)
	defer cancelAll()

	h.Emit(context.Background(), "tactic:saved", "t1")
	h.Emit(context.Background(), "board:shapes-changed", map[string]any{"tacticId": "t2"})

	var ev api.Event
	if err := json.Unmarshal(<-t1, &ev); err != nil || ev.Type != "tactic:saved" || ev.TacticID != "t1" {
		t.Errorf("t1 got %+v (%v)", ev, err)
	}
	select {
	case msg := <-t1:
		t.Errorf("t1 received event for another tactic: %s", msg)
	default:
	}
	if len(all) != 2 {
		t.Errorf("all-tactics subscriber got %d events, want 2", len(all))
	}
}

func TestHub_DropsWhenSlow(t *testing.T) {
	h := api.NewHub()
	ch, cancel := h.Subscribe("t1")
	defer cancel()
	for i := 0; i < 100; i++ {
		h.Publish(api.Event{Type: "x", TacticID: "t1"})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffer = %d/%d", len(ch), cap(ch))
	}
}

func TestHub_CancelRemovesSubscriber(t *testing.T) {
	h := api.NewHub()
	_, cancel := h.Subscribe("t1")
	if h.Subscribers("t1") != 1 {
		t.Fatal("subscriber not registered")
	}
	cancel()
	cancel()
	if h.Subscribers("t1") != 0 {
		t.Error("subscriber not removed")
	}
}

func TestHub_WebsocketFeed(t *testing.T) {
	h := api.NewHub()
	srv := api.NewServer(nil, nil, h)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/tactics/t1/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	h.Emit(context.Background(), "tactic:saved", "t1")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev api.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != "tactic:saved" || ev.TacticID != "t1" {
		t.Errorf("event = %+v", ev)
	}
}

func TestHub_Topics(t *testing.T) {
	h := api.NewHub()
	_, c1 := h.Subscribe("t1")
	defer c1()
	_, c2 := h.Subscribe(api.AllTactics)
	defer c2()
	if got := h.Topics(); len(got) != 1 || got[0] != "t1" {
		t.Errorf("topics = %v", got)
	}
}
