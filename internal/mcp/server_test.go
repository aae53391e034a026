package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"playmaker/internal/service"
	"playmaker/internal/storage"
	"playmaker/internal/wire"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "playmaker.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rosterPath := filepath.Join(dir, "roster.json")
	if err := os.WriteFile(rosterPath, []byte(`{"team-a":[{"id":"m9","name":"Bea","number":9}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	store := storage.NewTacticStore(db)
	emitter := &service.MockEmitter{}
	return New(Deps{
		Tactics: service.NewTacticService(service.StorePort{Store: store}, emitter),
		Roster:  service.NewRosterService(service.FileRoster{Path: rosterPath}, storage.NewRosterStore(db), emitter),
		Store:   store,
	})
}

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h handler, args map[string]any) string {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text
}

func callErr(t *testing.T, h handler, args map[string]any) error {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	_, err := h(context.Background(), req)
	return err
}

func listShapes(t *testing.T, s *Server) []wire.Shape {
	t.Helper()
	var shapes []wire.Shape
	if err := json.Unmarshal([]byte(call(t, s.handleListShapes, nil)), &shapes); err != nil {
		t.Fatalf("decode shapes: %v", err)
	}
	return shapes
}

func TestPlace_ArrowTakesTwoTaps(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleSetTool, map[string]any{"tool": "person"})
	call(t, s.handlePlace, map[string]any{"x": 100.0, "y": 100.0, "id": "p1"})

	call(t, s.handleSetTool, map[string]any{"tool": "arrow"})
	out := call(t, s.handlePlace, map[string]any{"x": 104.0, "y": 98.0})
	if !strings.Contains(out, "Arrow start placed") {
		t.Fatalf("first tap: %q", out)
	}
	call(t, s.handlePlace, map[string]any{"x": 300.0, "y": 120.0})

	shapes := listShapes(t, s)
	if len(shapes) != 2 || shapes[1].Type != "arrow" {
		t.Fatalf("shapes = %+v", shapes)
	}
	// the start snapped onto the marker
	if shapes[1].From.ID != "p1" || shapes[1].From.X != 100 {
		t.Errorf("arrow from = %+v", shapes[1].From)
	}
}

func TestSetTool_Invalid(t *testing.T) {
	s := newTestServer(t)
	if err := callErr(t, s.handleSetTool, map[string]any{"tool": "cone"}); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestAddPerson_AutoPlace(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleAddPerson, nil)
	call(t, s.handleAddPerson, nil)
	shapes := listShapes(t, s)
	if len(shapes) != 2 {
		t.Fatalf("shapes = %d", len(shapes))
	}
	if *shapes[0].X == *shapes[1].X && *shapes[0].Y == *shapes[1].Y {
		t.Error("auto-placed markers overlap")
	}
}

func TestAddFormationAndArrowBetweenMarkers(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleAddFormation, map[string]any{"count": 3.0})
	shapes := listShapes(t, s)
	if len(shapes) != 3 {
		t.Fatalf("formation added %d markers", len(shapes))
	}

	out := call(t, s.handleAddArrow, map[string]any{"fromId": shapes[0].ID, "toId": shapes[2].ID})
	var arrow wire.Shape
	if err := json.Unmarshal([]byte(out), &arrow); err != nil {
		t.Fatal(err)
	}
	if arrow.From.ID != shapes[0].ID || arrow.To.ID != shapes[2].ID {
		t.Errorf("arrow = %+v", arrow)
	}

	if err := callErr(t, s.handleAddArrow, map[string]any{"fromId": arrow.ID, "toX": 1.0, "toY": 1.0}); err == nil {
		t.Error("expected error anchoring to an arrow")
	}
	if err := callErr(t, s.handleAddFormation, map[string]any{"count": 0.0}); err == nil {
		t.Error("expected error for empty formation")
	}
}

func TestSelectDeleteUndo(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleAddPerson, map[string]any{"x": 10.0, "y": 10.0})
	call(t, s.handleAddPerson, map[string]any{"x": 200.0, "y": 10.0})
	call(t, s.handleAddPerson, map[string]any{"x": 400.0, "y": 10.0})
	ids := []string{}
	for _, sh := range listShapes(t, s) {
		ids = append(ids, sh.ID)
	}

	call(t, s.handleSelectShape, map[string]any{"id": ids[0]})
	// undo removes the last shape regardless of the selection
	call(t, s.handleUndo, nil)
	shapes := listShapes(t, s)
	if len(shapes) != 2 || shapes[1].ID != ids[1] {
		t.Fatalf("after undo: %+v", shapes)
	}

	call(t, s.handleDeleteSelected, nil)
	shapes = listShapes(t, s)
	if len(shapes) != 1 || shapes[0].ID != ids[1] {
		t.Fatalf("after delete: %+v", shapes)
	}
	if out := call(t, s.handleDeleteSelected, nil); !strings.Contains(out, "nothing changed") {
		t.Errorf("delete without selection: %q", out)
	}

	call(t, s.handleUndo, nil)
	if len(listShapes(t, s)) != 0 {
		t.Error("undo did not remove the last shape")
	}
	if err := callErr(t, s.handleSelectShape, map[string]any{"id": "missing"}); err == nil {
		t.Error("expected error selecting a missing shape")
	}
}

func TestMoveAndAssociate(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleAddPerson, map[string]any{"x": 10.0, "y": 10.0})
	id := listShapes(t, s)[0].ID

	call(t, s.handleMoveShape, map[string]any{"id": id, "x": 50.0, "y": 60.0})
	call(t, s.handleAssociatePlayer, map[string]any{"personId": id, "playerId": "m9"})

	got := listShapes(t, s)[0]
	if *got.X != 50 || *got.Y != 60 || got.AssociatedPlayerID != "m9" {
		t.Errorf("shape = %+v", got)
	}
	if err := callErr(t, s.handleMoveShape, map[string]any{"id": "nope", "x": 1.0, "y": 1.0}); err == nil {
		t.Error("expected error moving a missing shape")
	}
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleNewTactic, map[string]any{"teamId": "team-a", "name": "Corner"})

	if out := call(t, s.handleSaveTactic, nil); out != service.ErrNothingToSave.Error() {
		t.Errorf("empty save: %q", out)
	}

	call(t, s.handleAddPerson, map[string]any{"x": 10.0, "y": 10.0, "playerId": "m9"})
	out := call(t, s.handleSaveTactic, nil)
	if !strings.HasPrefix(out, "Saved tactic") {
		t.Fatalf("save: %q", out)
	}
	id := s.tactics.Snapshot().Tactic.ID

	var list []struct {
		ID     string `json:"id"`
		Shapes int    `json:"shapes"`
	}
	if err := json.Unmarshal([]byte(call(t, s.handleListTactics, map[string]any{"teamId": "team-a"})), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Shapes != 1 {
		t.Errorf("list = %+v", list)
	}

	call(t, s.handleResetBoard, nil)
	call(t, s.handleOpenTactic, map[string]any{"id": id})
	if len(listShapes(t, s)) != 1 {
		t.Error("open did not restore the board")
	}

	// the roster was attached, so the marker renders a label
	render := call(t, s.handleRenderBoard, nil)
	if !strings.Contains(render, `"text": "Bea"`) {
		t.Errorf("render missing roster label:\n%s", render)
	}
}

func TestExportBoard(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleAddPerson, map[string]any{"x": 10.0, "y": 10.0})

	svg := call(t, s.handleExportBoard, map[string]any{"format": "svg"})
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("svg = %q", svg)
	}

	if err := callErr(t, s.handleExportBoard, map[string]any{"format": "png"}); err == nil {
		t.Error("expected error for png without path")
	}

	path := filepath.Join(t.TempDir(), "board.pdf")
	call(t, s.handleExportBoard, map[string]any{"format": "pdf", "path": path})
	data, err := os.ReadFile(path)
	if err != nil || !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("pdf not written: %v", err)
	}
}

func TestResources(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleNewTactic, map[string]any{"teamId": "team-a", "name": "Press"})

	contents, err := s.handleBoardResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	board := contents[0].(mcp.TextResourceContents)
	if board.URI != boardURI || !strings.Contains(board.Text, `"name": "Press"`) {
		t.Errorf("board resource = %+v", board)
	}

	contents, err = s.handleRosterResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if text := contents[0].(mcp.TextResourceContents).Text; !strings.Contains(text, "Bea") {
		t.Errorf("roster resource = %s", text)
	}
}

func TestNewTacticWithoutTeamDropsRosterLabels(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleNewTactic, map[string]any{"teamId": "team-a"})
	call(t, s.handleAddPerson, map[string]any{"x": 10.0, "y": 10.0, "playerId": "m9"})
	if render := call(t, s.handleRenderBoard, nil); !strings.Contains(render, `"text": "Bea"`) {
		t.Fatalf("expected roster label:\n%s", render)
	}

	call(t, s.handleNewTactic, nil)
	call(t, s.handleAddPerson, map[string]any{"x": 10.0, "y": 10.0, "playerId": "m9"})
	if render := call(t, s.handleRenderBoard, nil); strings.Contains(render, "Bea") {
		t.Errorf("previous team's roster still labels markers:\n%s", render)
	}
}

func TestOpenTacticWithUnavailableRoster(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "playmaker.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := storage.NewTacticStore(db)
	emitter := &service.MockEmitter{}
	missing := service.FileRoster{Path: filepath.Join(t.TempDir(), "missing.json")}
	s := New(Deps{
		Tactics: service.NewTacticService(service.StorePort{Store: store}, emitter),
		Roster:  service.NewRosterService(missing, nil, emitter),
		Store:   store,
	})

	call(t, s.handleNewTactic, map[string]any{"teamId": "team-z", "name": "Kickoff"})
	call(t, s.handleAddPerson, map[string]any{"x": 10.0, "y": 10.0, "playerId": "m1"})
	call(t, s.handleSaveTactic, nil)
	id := s.tactics.Snapshot().Tactic.ID
	call(t, s.handleResetBoard, nil)

	var opened struct {
		ID          string       `json:"id"`
		Shapes      []wire.Shape `json:"shapes"`
		RosterError string       `json:"rosterError"`
	}
	if err := json.Unmarshal([]byte(call(t, s.handleOpenTactic, map[string]any{"id": id})), &opened); err != nil {
		t.Fatal(err)
	}
	if opened.ID != id || len(opened.Shapes) != 1 {
		t.Errorf("opened = %+v", opened)
	}
	if opened.RosterError == "" {
		t.Error("expected the roster failure to be reported")
	}
	if len(listShapes(t, s)) != 1 {
		t.Error("open did not restore the board")
	}
}
