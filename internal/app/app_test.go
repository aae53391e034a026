package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"playmaker/internal/config"
	"playmaker/internal/domain"
	"playmaker/internal/service"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.New()
	cfg.Store.DSN = filepath.Join(t.TempDir(), "playmaker.db")
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew_LocalStore(t *testing.T) {
	a := newTestApp(t)
	if _, ok := a.TacticPort().(service.StorePort); !ok {
		t.Errorf("port = %T, want StorePort", a.TacticPort())
	}
	if a.RosterService(nopEmitter{}) != nil {
		t.Error("roster service without a source")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := config.New()
	cfg.Store.Driver = "oracle"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestExport(t *testing.T) {
	a := newTestApp(t)
	err := a.Tactics().SaveTactic(&domain.Tactic{
		ID:         "t1",
		ShapesJSON: `[{"type":"person","id":"p1","x":10,"y":10,"size":32}]`,
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "t1.svg")
	if err := a.Export(context.Background(), "t1", out); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || !strings.Contains(string(data), `id="p1"`) {
		t.Errorf("svg = %s (%v)", data, err)
	}

	if err := a.Export(context.Background(), "t1", filepath.Join(dir, "t1.gif")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if err := a.Export(context.Background(), "missing", filepath.Join(dir, "m.svg")); err == nil {
		t.Error("expected error for missing tactic")
	}
}

type staticTopics []string

func (s staticTopics) Topics() []string { return s }

func TestTacticWatcher(t *testing.T) {
	a := newTestApp(t)
	store := a.Tactics()
	if err := store.SaveTactic(&domain.Tactic{ID: "t1", ShapesJSON: "[]"}); err != nil {
		t.Fatal(err)
	}

	emitter := &service.MockEmitter{}
	w := newTacticWatcher(store, staticTopics{"t1"}, emitter, time.Hour)
	ctx := context.Background()

	w.check(ctx)
	if len(emitter.Events) != 0 {
		t.Fatalf("baseline emitted %v", emitter.Events)
	}

	time.Sleep(2 * time.Millisecond)
	if err := store.SaveTactic(&domain.Tactic{ID: "t1", Name: "changed", ShapesJSON: "[]"}); err != nil {
		t.Fatal(err)
	}
	w.check(ctx)
	if got := emitter.Named("tactic:updated"); len(got) != 1 {
		t.Fatalf("updated events = %d", len(got))
	}

	w.check(ctx)
	if got := emitter.Named("tactic:updated"); len(got) != 1 {
		t.Errorf("unchanged tactic re-emitted: %d", len(got))
	}

	if err := store.DeleteTactic("t1"); err != nil {
		t.Fatal(err)
	}
	w.check(ctx)
	if got := emitter.Named("tactic:deleted"); len(got) != 1 || got[0].Data != "t1" {
		t.Errorf("deleted events = %+v", got)
	}
}

func TestTacticWatcher_StartStop(t *testing.T) {
	a := newTestApp(t)
	w := newTacticWatcher(a.Tactics(), staticTopics{}, &service.MockEmitter{}, time.Millisecond)
	w.Start(context.Background())
	time.Sleep(5 * time.Millisecond)
	w.Stop()
	w.Stop()
}
