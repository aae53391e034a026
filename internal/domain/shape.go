package domain

type ShapeType string

const (
	ShapeTypeSelect ShapeType = "select"
	ShapeTypePerson ShapeType = "person"
	ShapeTypeArrow  ShapeType = "arrow"
)

const (
	DefaultPersonSize  = 32.0
	FallbackPersonSize = 28.0
)

// Point is a board coordinate. ID optionally names the shape the point was
// taken from (e.g. the marker an arrow is dragged out of).
type Point struct {
	ID string  `json:"id,omitempty"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Anchor is an arrow endpoint. When ID is set the endpoint follows the
// position of the shape with that id.
type Anchor struct {
	ID string  `json:"id,omitempty"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (a Anchor) Point() Point { return Point{ID: a.ID, X: a.X, Y: a.Y} }

// Shape is the closed set of board entities: Select, Person and Arrow.
type Shape interface {
	ShapeID() string
	Type() ShapeType
	isShape()
}

// Select is the "no drawing tool" marker. It never lives in a shape collection.
type Select struct{}

func (Select) ShapeID() string { return "" }
func (Select) Type() ShapeType { return ShapeTypeSelect }
func (Select) isShape()        {}

type Person struct {
	ID                 string  `json:"id"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
	Size               float64 `json:"size"`
	AssociatedPlayerID string  `json:"associatedPlayerId,omitempty"`
}

func (p Person) ShapeID() string { return p.ID }
func (Person) Type() ShapeType   { return ShapeTypePerson }
func (Person) isShape()          {}

// Center returns the person's position as a point carrying its id.
func (p Person) Center() Point { return Point{ID: p.ID, X: p.X, Y: p.Y} }

type Arrow struct {
	ID   string  `json:"id"`
	From *Anchor `json:"from,omitempty"`
	To   *Anchor `json:"to,omitempty"`
}

func (a Arrow) ShapeID() string { return a.ID }
func (Arrow) Type() ShapeType   { return ShapeTypeArrow }
func (Arrow) isShape()          {}

// Valid reports whether both endpoints are present. Invalid arrows are
// neither rendered nor serialized.
func (a Arrow) Valid() bool { return a.From != nil && a.To != nil }

// FindShape returns the shape with the given id and its index, or -1.
func FindShape(shapes []Shape, id string) (Shape, int) {
	if id == "" {
		return nil, -1
	}
	for i, s := range shapes {
		if s != nil && s.ShapeID() == id {
			return s, i
		}
	}
	return nil, -1
}
