package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// AllTactics subscribes to events of every tactic.
const AllTactics = "*"

type Event struct {
	Type     string `json:"type"`
	TacticID string `json:"tacticId,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

// Hub fans board events out to websocket subscribers keyed by tactic id.
// Slow subscribers drop messages instead of blocking publishers.
type Hub struct {
	mu       sync.RWMutex
	subs     map[string]map[chan []byte]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// boards are shown on LAN screens opened from any origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Hub) Subscribe(tacticID string) (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)
	h.mu.Lock()
	if h.subs[tacticID] == nil {
		h.subs[tacticID] = make(map[chan []byte]struct{})
	}
	h.subs[tacticID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.subs[tacticID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subs, tacticID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers counts the subscriptions for a tactic id.
func (h *Hub) Subscribers(tacticID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[tacticID])
}

// Topics lists tactic ids with at least one subscriber.
func (h *Hub) Topics() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.subs))
	for id := range h.subs {
		if id != AllTactics {
			out = append(out, id)
		}
	}
	return out
}

func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[HUB] Dropping %s: %v", ev.Type, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, key := range []string{ev.TacticID, AllTactics} {
		for ch := range h.subs[key] {
			select {
			case ch <- data:
			default:
			}
		}
	}
}

// Emit lets the hub host service events. The tactic id is taken from a
// string payload or a "tacticId" map entry; other events go to AllTactics
// subscribers only.
func (h *Hub) Emit(_ context.Context, event string, data any) {
	ev := Event{Type: event, Payload: data}
	switch v := data.(type) {
	case string:
		ev.TacticID = v
	case map[string]any:
		if id, ok := v["tacticId"].(string); ok {
			ev.TacticID = id
		}
	}
	h.Publish(ev)
}

const (
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

// ServeWS upgrades the request and streams events for tacticID until the
// client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, tacticID string) {
	// subscribe before the handshake completes so no event is missed
	ch, cancel := h.Subscribe(tacticID)
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HUB] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// the feed is one-way; the reader only notices the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
