package board

import (
	"fmt"

	"github.com/google/uuid"

	"playmaker/internal/domain"
)

type Tool int

const (
	ToolSelect Tool = iota
	ToolPerson
	ToolArrow
	numTools
)

var toolNames = [numTools]string{
	ToolSelect: "select",
	ToolPerson: "person",
	ToolArrow:  "arrow",
}

func (t Tool) String() string {
	if t < 0 || t >= numTools {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool maps a tool name to its Tool.
func ParseTool(name string) (Tool, error) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", name)
}

// ToolEntry creates the shape a tool places at a point. A nil result means
// the tool does not place geometry from a single point.
type ToolEntry struct {
	Type   domain.ShapeType
	Create func(p domain.Point) domain.Shape
}

var registry = [numTools]ToolEntry{
	ToolSelect: {
		Type:   domain.ShapeTypeSelect,
		Create: func(domain.Point) domain.Shape { return nil },
	},
	ToolPerson: {
		Type: domain.ShapeTypePerson,
		Create: func(p domain.Point) domain.Shape {
			return domain.Person{ID: p.ID, X: p.X, Y: p.Y, Size: domain.DefaultPersonSize}
		},
	},
	// Arrows need a second point; the editor's drag state assembles them.
	ToolArrow: {
		Type:   domain.ShapeTypeArrow,
		Create: func(domain.Point) domain.Shape { return nil },
	},
}

// Lookup returns the registry entry for t. It panics on an out-of-range tool.
func Lookup(t Tool) ToolEntry {
	return registry[t]
}

// NewID returns a fresh shape id.
func NewID() string {
	return uuid.New().String()
}
