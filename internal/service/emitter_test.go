package service_test

import (
	"context"
	"testing"

	"playmaker/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Emitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_RecordsEvents(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "board:shapes-changed", 1)
	m.Emit(ctx, "tactic:saved", "t1")
	m.Emit(ctx, "board:shapes-changed", 2)

	if len(m.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(m.Events))
	}
	if got := m.Named("board:shapes-changed"); len(got) != 2 || got[1].Data != 2 {
		t.Errorf("Named = %+v", got)
	}
}

func TestMultiEmitter_FansOut(t *testing.T) {
	a, b := &service.MockEmitter{}, &service.MockEmitter{}
	multi := service.MultiEmitter{a, nil, b}
	multi.Emit(context.Background(), "x", nil)
	if len(a.Events) != 1 || len(b.Events) != 1 {
		t.Errorf("a=%d b=%d", len(a.Events), len(b.Events))
	}
}
