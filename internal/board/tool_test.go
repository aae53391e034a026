package board_test

import (
	"testing"

	"playmaker/internal/board"
	"playmaker/internal/domain"
)

func TestPersonCreate(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Point
		want domain.Person
	}{
		{"origin", domain.Point{ID: "0"}, domain.Person{ID: "0", Size: 32}},
		{"negative", domain.Point{ID: "neg", X: -10, Y: -20}, domain.Person{ID: "neg", X: -10, Y: -20, Size: 32}},
		{"fractional", domain.Point{ID: "f", X: 1.25, Y: -0.5}, domain.Person{ID: "f", X: 1.25, Y: -0.5, Size: 32}},
	}
	create := board.Lookup(board.ToolPerson).Create
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := create(tt.in)
			p, ok := got.(domain.Person)
			if !ok {
				t.Fatalf("expected Person, got %T", got)
			}
			if p != tt.want {
				t.Errorf("got %+v, want %+v", p, tt.want)
			}
			if p.Type() != domain.ShapeTypePerson {
				t.Errorf("type = %q", p.Type())
			}
		})
	}
}

func TestNonPlacingToolsCreateNothing(t *testing.T) {
	points := []domain.Point{{}, {ID: "x", X: 5, Y: 5}, {X: -1, Y: 3.5}}
	for _, tool := range []board.Tool{board.ToolSelect, board.ToolArrow} {
		for _, p := range points {
			if s := board.Lookup(tool).Create(p); s != nil {
				t.Errorf("%s.Create(%+v) = %+v, want nil", tool, p, s)
			}
		}
	}
}

func TestRegistryTypes(t *testing.T) {
	want := map[board.Tool]domain.ShapeType{
		board.ToolSelect: domain.ShapeTypeSelect,
		board.ToolPerson: domain.ShapeTypePerson,
		board.ToolArrow:  domain.ShapeTypeArrow,
	}
	for tool, typ := range want {
		if got := board.Lookup(tool).Type; got != typ {
			t.Errorf("Lookup(%s).Type = %q, want %q", tool, got, typ)
		}
	}
}

func TestParseTool(t *testing.T) {
	for _, name := range []string{"select", "person", "arrow"} {
		tool, err := board.ParseTool(name)
		if err != nil {
			t.Fatalf("ParseTool(%q): %v", name, err)
		}
		if tool.String() != name {
			t.Errorf("round trip %q -> %q", name, tool.String())
		}
	}
	if _, err := board.ParseTool("circle"); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := board.NewID()
		if id == "" || seen[id] {
			t.Fatalf("bad id %q", id)
		}
		seen[id] = true
	}
}
