package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"playmaker/internal/domain"
	"playmaker/internal/service"
	"playmaker/internal/wire"
)

// Topics lists the tactic ids someone is watching.
type Topics interface {
	Topics() []string
}

// tacticWatcher polls the store for tactics that have live subscribers,
// detecting writes from other processes (e.g. the standalone MCP server
// sharing the sqlite file) and emitting "tactic:updated" or
// "tactic:deleted".
type tacticWatcher struct {
	store    domain.TacticStore
	topics   Topics
	emitter  service.EventEmitter
	interval time.Duration

	mu     sync.Mutex
	last   map[string]string // tactic id → updated_at fingerprint
	stopCh chan struct{}
	done   chan struct{}
}

func newTacticWatcher(store domain.TacticStore, topics Topics, emitter service.EventEmitter, interval time.Duration) *tacticWatcher {
	return &tacticWatcher{
		store:    store,
		topics:   topics,
		emitter:  emitter,
		interval: interval,
		last:     map[string]string{},
	}
}

// Start begins the polling loop. Should be called once.
func (w *tacticWatcher) Start(ctx context.Context) {
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.pollLoop(ctx)
}

// Stop terminates the polling loop and waits for it to exit.
func (w *tacticWatcher) Stop() {
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	<-w.done
	w.stopCh = nil
}

func (w *tacticWatcher) pollLoop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *tacticWatcher) check(ctx context.Context) {
	watched := map[string]bool{}
	for _, id := range w.topics.Topics() {
		watched[id] = true
		w.checkTactic(ctx, id)
	}

	// forget tactics nobody watches any more
	w.mu.Lock()
	for id := range w.last {
		if !watched[id] {
			delete(w.last, id)
		}
	}
	w.mu.Unlock()
}

func (w *tacticWatcher) checkTactic(ctx context.Context, id string) {
	t, err := w.store.GetTactic(id)
	fingerprint := ""
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fingerprint = "deleted"
	case err != nil:
		return
	default:
		fingerprint = fmt.Sprintf("%d", t.UpdatedAt.UnixNano())
	}

	w.mu.Lock()
	prev, seen := w.last[id]
	w.last[id] = fingerprint
	w.mu.Unlock()

	// the first sighting only records a baseline
	if !seen || prev == fingerprint {
		return
	}
	if t == nil {
		w.emitter.Emit(ctx, "tactic:deleted", id)
		return
	}
	payload, err := wire.FromDomain(t)
	if err != nil {
		return
	}
	w.emitter.Emit(ctx, "tactic:updated", map[string]any{"tacticId": id, "tactic": payload})
}
