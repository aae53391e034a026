package board

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"playmaker/internal/domain"
)

var (
	ErrShapeNotFound = errors.New("shape not found")
	ErrDuplicateID   = errors.New("duplicate shape id")
	ErrNotPerson     = errors.New("shape is not a person marker")
)

// ── Drag state ──────────────────────────────────────────────

// DragState is the in-progress two-point arrow interaction.
type DragState interface{ isDrag() }

// DragIdle means no arrow is being drawn.
type DragIdle struct{}

// ArrowStartPlaced holds the first point of an arrow awaiting its tip.
type ArrowStartPlaced struct {
	From domain.Point
}

func (DragIdle) isDrag()         {}
func (ArrowStartPlaced) isDrag() {}

// ── Editor ──────────────────────────────────────────────────

type EditorOption func(*Editor)

// WithIDGenerator replaces NewID for shapes placed without an id.
func WithIDGenerator(fn func() string) EditorOption {
	return func(e *Editor) { e.newID = fn }
}

func WithRendererOptions(opts ...RendererOption) EditorOption {
	return func(e *Editor) { e.renderOpts = append(e.renderOpts, opts...) }
}

// Editor owns one board: the shape collection, the selection, the active
// tool and the arrow drag state. It is not safe for concurrent use.
type Editor struct {
	shapes     []domain.Shape
	selected   Selection
	tool       Tool
	drag       DragState
	newID      func() string
	renderer   *Renderer
	renderOpts []RendererOption
	listeners  []func([]domain.Shape)
}

func NewEditor(opts ...EditorOption) *Editor {
	e := &Editor{
		shapes: []domain.Shape{},
		tool:   ToolSelect,
		drag:   DragIdle{},
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.renderer = NewRenderer(e.selectShape, e.renderOpts...)
	return e
}

// OnShapesChange registers fn to run after every change of the collection.
// fn must not modify the slice it receives.
func (e *Editor) OnShapesChange(fn func([]domain.Shape)) {
	e.listeners = append(e.listeners, fn)
}

// Shapes returns a copy of the collection in append order.
func (e *Editor) Shapes() []domain.Shape { return slices.Clone(e.shapes) }

func (e *Editor) Len() int             { return len(e.shapes) }
func (e *Editor) Selection() Selection { return e.selected }
func (e *Editor) Tool() Tool           { return e.tool }
func (e *Editor) Drag() DragState      { return e.drag }
func (e *Editor) Renderer() *Renderer  { return e.renderer }

func (e *Editor) SetRoster(r domain.Roster) { e.renderer.SetRoster(r) }

// Load replaces the collection with a persisted one. Listeners are not
// notified since the loaded state is the new baseline.
func (e *Editor) Load(shapes []domain.Shape) error {
	seen := make(map[string]struct{}, len(shapes))
	next := make([]domain.Shape, 0, len(shapes))
	for _, s := range shapes {
		if s == nil || s.Type() == domain.ShapeTypeSelect {
			continue
		}
		if _, dup := seen[s.ShapeID()]; dup {
			return fmt.Errorf("load shapes: %w: %q", ErrDuplicateID, s.ShapeID())
		}
		seen[s.ShapeID()] = struct{}{}
		next = append(next, s)
	}
	e.shapes = next
	e.selected = NoSelection
	e.drag = DragIdle{}
	return nil
}

// SetTool switches the active tool and abandons any half-drawn arrow.
func (e *Editor) SetTool(t Tool) {
	e.tool = t
	e.drag = DragIdle{}
}

// CancelDrag drops a pending arrow start.
func (e *Editor) CancelDrag() { e.drag = DragIdle{} }

// Place applies the active tool at p. The person tool adds a marker with
// id p.ID (generated when empty). The arrow tool records the start on the
// first call and appends the arrow on the second; endpoints landing on a
// marker are anchored to it. The select tool presses whatever is under p,
// clearing the selection when nothing is.
func (e *Editor) Place(p domain.Point) (domain.Shape, error) {
	switch e.tool {
	case ToolPerson:
		if p.ID == "" {
			p.ID = e.newID()
		}
		return e.add(Lookup(ToolPerson).Create(p))
	case ToolArrow:
		p = e.anchorAt(p)
		switch d := e.drag.(type) {
		case ArrowStartPlaced:
			e.drag = DragIdle{}
			return e.AddArrow(e.newID(), d.From, p)
		default:
			if s := Lookup(ToolArrow).Create(p); s != nil {
				return e.add(s)
			}
			e.drag = ArrowStartPlaced{From: p}
			return nil, nil
		}
	default:
		if !e.PressAt(Vec{p.X, p.Y}) {
			e.selected = NoSelection
		}
		return nil, nil
	}
}

// AddPerson appends a marker using the person factory.
func (e *Editor) AddPerson(p domain.Point) (domain.Person, error) {
	if p.ID == "" {
		p.ID = e.newID()
	}
	s, err := e.add(Lookup(ToolPerson).Create(p))
	if err != nil {
		return domain.Person{}, err
	}
	return s.(domain.Person), nil
}

// AddArrow appends an arrow between two points. Points carrying an id are
// kept as anchors to that shape.
func (e *Editor) AddArrow(id string, from, to domain.Point) (domain.Shape, error) {
	if id == "" {
		id = e.newID()
	}
	return e.add(domain.Arrow{
		ID:   id,
		From: &domain.Anchor{ID: from.ID, X: from.X, Y: from.Y},
		To:   &domain.Anchor{ID: to.ID, X: to.X, Y: to.Y},
	})
}

func (e *Editor) add(s domain.Shape) (domain.Shape, error) {
	if s == nil {
		return nil, nil
	}
	if _, i := domain.FindShape(e.shapes, s.ShapeID()); i >= 0 {
		return nil, fmt.Errorf("add %s: %w: %q", s.Type(), ErrDuplicateID, s.ShapeID())
	}
	next := make([]domain.Shape, len(e.shapes), len(e.shapes)+1)
	copy(next, e.shapes)
	e.setShapes(append(next, s))
	return s, nil
}

// anchorAt snaps a bare point onto the topmost marker under it.
func (e *Editor) anchorAt(p domain.Point) domain.Point {
	if p.ID != "" {
		if s, _ := domain.FindShape(e.shapes, p.ID); s != nil {
			if person, ok := s.(domain.Person); ok {
				return person.Center()
			}
		}
		return p
	}
	g, ok := HitTest(e.Render(), Vec{p.X, p.Y})
	if !ok || g.Type != domain.ShapeTypePerson {
		return p
	}
	if s, _ := domain.FindShape(e.shapes, g.ShapeID); s != nil {
		return s.(domain.Person).Center()
	}
	return p
}

// ── Selection ───────────────────────────────────────────────

func (e *Editor) selectShape(id string) { e.selected = Selected(id) }

// Render returns the groups for the current collection and selection.
func (e *Editor) Render() iter.Seq[Group] {
	return e.renderer.Render(e.shapes, e.selected)
}

// PressAt presses the topmost group under p.
func (e *Editor) PressAt(p Vec) bool {
	g, ok := HitTest(e.Render(), p)
	if !ok {
		return false
	}
	g.Press()
	return true
}

// SelectShape presses the rendered group of the given shape. Shapes that
// do not render (invalid arrows) cannot be selected.
func (e *Editor) SelectShape(id string) bool {
	for g := range e.Render() {
		if g.ShapeID == id {
			g.Press()
			return true
		}
	}
	return false
}

func (e *Editor) ClearSelection() { e.selected = NoSelection }

// ── Mutations ───────────────────────────────────────────────

func (e *Editor) Undo()           { Undo(e.shapes, e.setShapes, e.selected) }
func (e *Editor) DeleteSelected() { Delete(e.shapes, e.setShapes, e.selected) }
func (e *Editor) Reset()          { Reset(e.shapes, e.setShapes, e.selected) }

// Move repositions a marker and re-anchors arrow endpoints attached to it.
func (e *Editor) Move(id string, x, y float64) error {
	s, idx := domain.FindShape(e.shapes, id)
	if idx < 0 {
		return fmt.Errorf("move %q: %w", id, ErrShapeNotFound)
	}
	p, ok := s.(domain.Person)
	if !ok {
		return fmt.Errorf("move %q: %w", id, ErrNotPerson)
	}
	p.X, p.Y = x, y

	next := make([]domain.Shape, len(e.shapes))
	for i, cur := range e.shapes {
		if i == idx {
			next[i] = p
			continue
		}
		next[i] = reanchor(cur, p)
	}
	e.setShapes(next)
	return nil
}

func reanchor(s domain.Shape, p domain.Person) domain.Shape {
	a, ok := s.(domain.Arrow)
	if !ok {
		return s
	}
	if a.From != nil && a.From.ID == p.ID {
		a.From = &domain.Anchor{ID: p.ID, X: p.X, Y: p.Y}
	}
	if a.To != nil && a.To.ID == p.ID {
		a.To = &domain.Anchor{ID: p.ID, X: p.X, Y: p.Y}
	}
	return a
}

// Associate ties a marker to a roster member id. An empty memberID clears
// the association. Member ids are not checked against any roster.
func (e *Editor) Associate(personID, memberID string) error {
	s, idx := domain.FindShape(e.shapes, personID)
	if idx < 0 {
		return fmt.Errorf("associate %q: %w", personID, ErrShapeNotFound)
	}
	p, ok := s.(domain.Person)
	if !ok {
		return fmt.Errorf("associate %q: %w", personID, ErrNotPerson)
	}
	p.AssociatedPlayerID = memberID
	next := slices.Clone(e.shapes)
	next[idx] = p
	e.setShapes(next)
	return nil
}

func (e *Editor) setShapes(next []domain.Shape) {
	e.shapes = next
	if e.selected.Valid {
		if _, i := domain.FindShape(next, e.selected.ID); i < 0 {
			e.selected = NoSelection
		}
	}
	for _, fn := range e.listeners {
		fn(next)
	}
}
