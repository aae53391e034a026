package service

import (
	"context"
	"sync"
)

// saveGuard tracks the saves in flight, keyed by tactic id. A second save
// of the same tactic is refused instead of queued, so the caller can tell
// the user a save is already running.
type saveGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

// begin claims the save slot of tacticID, reporting false when taken.
func (g *saveGuard) begin(tacticID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[tacticID]; busy {
		return false
	}
	if g.inFlight == nil {
		g.inFlight = make(map[string]struct{})
	}
	g.inFlight[tacticID] = struct{}{}
	g.wg.Add(1)
	return true
}

// end releases the slot claimed by begin, whatever the save's outcome.
func (g *saveGuard) end(tacticID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[tacticID]; !busy {
		return
	}
	delete(g.inFlight, tacticID)
	g.wg.Done()
}

func (g *saveGuard) saving(tacticID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[tacticID]
	return busy
}

// wait returns once no save is in flight or ctx is done, so a host can
// let a final save reach the backend before exiting.
func (g *saveGuard) wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
