// Package wire converts board shapes to and from the backend save format.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"playmaker/internal/domain"
)

var ErrMalformed = errors.New("malformed shape")

// Point is an arrow endpoint. ID is carried verbatim when the endpoint was
// anchored to a shape.
type Point struct {
	ID string  `json:"id,omitempty"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Shape is one entry of the save payload:
//
//	{ type: "arrow", id, from: {x,y}, to: {x,y} }
//	{ type: "person", id, x, y, size, associatedPlayerId? }
type Shape struct {
	Type               domain.ShapeType `json:"type"`
	ID                 string           `json:"id"`
	X                  *float64         `json:"x,omitempty"`
	Y                  *float64         `json:"y,omitempty"`
	Size               *float64         `json:"size,omitempty"`
	AssociatedPlayerID string           `json:"associatedPlayerId,omitempty"`
	From               *Point           `json:"from,omitempty"`
	To                 *Point           `json:"to,omitempty"`
}

// Tactic is the save payload for one board.
type Tactic struct {
	ID        string     `json:"id,omitempty"`
	TeamID    string     `json:"teamId,omitempty"`
	Name      string     `json:"name,omitempty"`
	Shapes    []Shape    `json:"shapes"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func f64(v float64) *float64 { return &v }

// Encode maps the collection to wire shapes in order. Select entries and
// arrows missing an endpoint are left out.
func Encode(shapes []domain.Shape) []Shape {
	out := make([]Shape, 0, len(shapes))
	for _, s := range shapes {
		switch v := s.(type) {
		case domain.Person:
			out = append(out, Shape{
				Type:               domain.ShapeTypePerson,
				ID:                 v.ID,
				X:                  f64(v.X),
				Y:                  f64(v.Y),
				Size:               f64(v.Size),
				AssociatedPlayerID: v.AssociatedPlayerID,
			})
		case domain.Arrow:
			if !v.Valid() {
				continue
			}
			out = append(out, Shape{
				Type: domain.ShapeTypeArrow,
				ID:   v.ID,
				From: &Point{ID: v.From.ID, X: v.From.X, Y: v.From.Y},
				To:   &Point{ID: v.To.ID, X: v.To.X, Y: v.To.Y},
			})
		}
	}
	return out
}

// Decode seeds a collection from persisted wire shapes. Select entries and
// arrows missing an endpoint are dropped; a missing or non-positive person
// size falls back to the creation default. Unknown types, missing ids or
// coordinates, and duplicate ids are errors.
func Decode(in []Shape) ([]domain.Shape, error) {
	out := make([]domain.Shape, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, w := range in {
		if w.Type == domain.ShapeTypeSelect {
			continue
		}
		if w.ID == "" {
			return nil, fmt.Errorf("decode shape %d: %w: missing id", i, ErrMalformed)
		}
		if _, dup := seen[w.ID]; dup {
			return nil, fmt.Errorf("decode shape %q: %w: duplicate id", w.ID, ErrMalformed)
		}

		switch w.Type {
		case domain.ShapeTypePerson:
			if w.X == nil || w.Y == nil {
				return nil, fmt.Errorf("decode person %q: %w: missing coordinates", w.ID, ErrMalformed)
			}
			size := domain.DefaultPersonSize
			if w.Size != nil && *w.Size > 0 {
				size = *w.Size
			}
			out = append(out, domain.Person{
				ID:                 w.ID,
				X:                  *w.X,
				Y:                  *w.Y,
				Size:               size,
				AssociatedPlayerID: w.AssociatedPlayerID,
			})
		case domain.ShapeTypeArrow:
			if w.From == nil || w.To == nil {
				continue
			}
			out = append(out, domain.Arrow{
				ID:   w.ID,
				From: &domain.Anchor{ID: w.From.ID, X: w.From.X, Y: w.From.Y},
				To:   &domain.Anchor{ID: w.To.ID, X: w.To.X, Y: w.To.Y},
			})
		default:
			return nil, fmt.Errorf("decode shape %q: %w: unknown type %q", w.ID, ErrMalformed, w.Type)
		}
		seen[w.ID] = struct{}{}
	}
	return out, nil
}

// Marshal encodes the collection as a JSON array.
func Marshal(shapes []domain.Shape) ([]byte, error) {
	data, err := json.Marshal(Encode(shapes))
	if err != nil {
		return nil, fmt.Errorf("marshal shapes: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON array of wire shapes. Empty input is an empty board.
func Unmarshal(data []byte) ([]domain.Shape, error) {
	if len(data) == 0 {
		return []domain.Shape{}, nil
	}
	var in []Shape
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("unmarshal shapes: %w", err)
	}
	return Decode(in)
}

// FromDomain converts a stored tactic to its payload.
func FromDomain(t *domain.Tactic) (*Tactic, error) {
	var shapes []Shape
	if t.ShapesJSON != "" {
		if err := json.Unmarshal([]byte(t.ShapesJSON), &shapes); err != nil {
			return nil, fmt.Errorf("tactic %s: unmarshal shapes: %w", t.ID, err)
		}
	}
	if shapes == nil {
		shapes = []Shape{}
	}
	out := &Tactic{ID: t.ID, TeamID: t.TeamID, Name: t.Name, Shapes: shapes}
	if !t.UpdatedAt.IsZero() {
		ts := t.UpdatedAt
		out.UpdatedAt = &ts
	}
	return out, nil
}

// ToDomain converts a payload to a storable tactic.
func (t *Tactic) ToDomain() (*domain.Tactic, error) {
	shapes := t.Shapes
	if shapes == nil {
		shapes = []Shape{}
	}
	data, err := json.Marshal(shapes)
	if err != nil {
		return nil, fmt.Errorf("tactic %s: marshal shapes: %w", t.ID, err)
	}
	return &domain.Tactic{ID: t.ID, TeamID: t.TeamID, Name: t.Name, ShapesJSON: string(data)}, nil
}
