package board

import (
	"iter"

	"playmaker/internal/domain"
)

const (
	HitPadding               = 8.0
	SelectedScale            = 1.25
	ArrowHitWidth            = 24.0
	ArrowHitWidthSelected    = 32.0
	ArrowStrokeWidth         = 3.0
	ArrowStrokeWidthSelected = 4.0
	LabelSize                = 12.0
)

// Theme holds the hex colours used by the renderer.
type Theme struct {
	Neutral   string `json:"neutral"`
	Highlight string `json:"highlight"`
	Person    string `json:"person"`
	Label     string `json:"label"`
}

var DefaultTheme = Theme{
	Neutral:   "#1F2937",
	Highlight: "#F59E0B",
	Person:    "#2563EB",
	Label:     "#111827",
}

type PrimitiveKind string

const (
	PrimitiveCircle PrimitiveKind = "circle"
	PrimitivePath   PrimitiveKind = "path"
	PrimitiveText   PrimitiveKind = "text"
)

// Primitive is one drawable element. Size is the diameter of a circle or
// the font size of a text.
type Primitive struct {
	Kind        PrimitiveKind `json:"kind"`
	Center      Vec           `json:"center"`
	Size        float64       `json:"size,omitempty"`
	Fill        string        `json:"fill,omitempty"`
	Stroke      string        `json:"stroke,omitempty"`
	StrokeWidth float64       `json:"strokeWidth,omitempty"`
	Path        *Path         `json:"path,omitempty"`
	Text        string        `json:"text,omitempty"`
}

type HitKind string

const (
	HitRect   HitKind = "rect"
	HitStroke HitKind = "stroke"
)

// HitRegion is the invisible pressable area of a group: a rectangle for
// markers or a wide stroke along an arrow shaft.
type HitRegion struct {
	Kind    HitKind  `json:"kind"`
	Rect    *Rect    `json:"rect,omitempty"`
	Segment *Segment `json:"segment,omitempty"`
	Width   float64  `json:"width,omitempty"`
}

func (h HitRegion) Contains(p Vec) bool {
	switch h.Kind {
	case HitRect:
		return h.Rect != nil && h.Rect.Contains(p)
	case HitStroke:
		return h.Segment != nil && DistanceToSegment(p, h.Segment.From, h.Segment.To) <= h.Width/2
	}
	return false
}

// Group is the rendering of a single shape.
type Group struct {
	ShapeID  string           `json:"shapeId"`
	Type     domain.ShapeType `json:"type"`
	Selected bool             `json:"selected"`
	Hit      HitRegion        `json:"hit"`
	Visuals  []Primitive      `json:"visuals"`
	press    func()
}

// Press triggers the group's selection callback.
func (g Group) Press() {
	if g.press != nil {
		g.press()
	}
}

// Bounds covers the visuals and the hit region.
func (g Group) Bounds() Rect {
	var b Rect
	first := true
	add := func(r Rect) {
		if first {
			b, first = r, false
			return
		}
		b = b.Union(r)
	}
	if g.Hit.Rect != nil {
		add(*g.Hit.Rect)
	}
	for _, v := range g.Visuals {
		switch v.Kind {
		case PrimitiveCircle:
			add(CenteredRect(v.Center.X, v.Center.Y, v.Size))
		case PrimitiveText:
			add(CenteredRect(v.Center.X, v.Center.Y, v.Size))
		case PrimitivePath:
			if v.Path == nil {
				continue
			}
			for _, s := range v.Path.Subpaths() {
				add(segmentRect(s))
			}
		}
	}
	return b
}

func segmentRect(s Segment) Rect {
	return Rect{
		MinX: min(s.From.X, s.To.X),
		MinY: min(s.From.Y, s.To.Y),
		MaxX: max(s.From.X, s.To.X),
		MaxY: max(s.From.Y, s.To.Y),
	}
}

// ── Renderer ────────────────────────────────────────────────

type RendererOption func(*Renderer)

func WithTheme(t Theme) RendererOption {
	return func(r *Renderer) { r.theme = t }
}

func WithArrowOptions(o ArrowOptions) RendererOption {
	return func(r *Renderer) { r.arrow = o }
}

// Renderer maps a shape collection and selection to groups. The last
// result is kept until either the collection (by identity) or the
// selection changes.
type Renderer struct {
	onSelect func(id string)
	theme    Theme
	arrow    ArrowOptions
	roster   domain.Roster
	memo     *frame
	frames   int
}

func NewRenderer(onSelect func(id string), opts ...RendererOption) *Renderer {
	r := &Renderer{onSelect: onSelect, theme: DefaultTheme, arrow: DefaultArrowOptions}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Theme() Theme { return r.theme }

// SetRoster sets the members used to label associated markers.
func (r *Renderer) SetRoster(roster domain.Roster) {
	r.roster = roster
	r.memo = nil
}

// Frames reports how many distinct renders have been computed.
func (r *Renderer) Frames() int { return r.frames }

// Render returns a lazy, restartable sequence of groups, one per renderable
// shape in collection order. Invalid arrows are skipped.
func (r *Renderer) Render(shapes []domain.Shape, selected Selection) iter.Seq[Group] {
	if r.memo != nil && r.memo.matches(shapes, selected) {
		return r.memo.all
	}
	f := &frame{r: r, shapes: shapes, selected: selected, roster: r.roster}
	r.memo = f
	r.frames++
	return f.all
}

// frame lazily renders one (shapes, selection) pair, caching groups as
// they are produced so later iterations replay them.
type frame struct {
	r        *Renderer
	shapes   []domain.Shape
	selected Selection
	roster   domain.Roster
	groups   []Group
	pos      int
}

func (f *frame) matches(shapes []domain.Shape, selected Selection) bool {
	if f.selected != selected || len(f.shapes) != len(shapes) {
		return false
	}
	return len(shapes) == 0 || &f.shapes[0] == &shapes[0]
}

func (f *frame) all(yield func(Group) bool) {
	for i := 0; ; i++ {
		if i == len(f.groups) && !f.advance() {
			return
		}
		if !yield(f.groups[i]) {
			return
		}
	}
}

func (f *frame) advance() bool {
	for f.pos < len(f.shapes) {
		s := f.shapes[f.pos]
		f.pos++
		if g, ok := f.r.renderShape(s, f.selected, f.roster); ok {
			f.groups = append(f.groups, g)
			return true
		}
	}
	return false
}

func (r *Renderer) renderShape(s domain.Shape, selected Selection, roster domain.Roster) (Group, bool) {
	if s == nil {
		return Group{}, false
	}
	sr, ok := shapeRenderers[s.Type()]
	if !ok {
		return Group{}, false
	}
	return sr.render(r, s, selected.Is(s.ShapeID()), roster)
}

func (r *Renderer) pressFor(id string) func() {
	return func() {
		if r.onSelect != nil {
			r.onSelect(id)
		}
	}
}

// ── Per-type renderers ──────────────────────────────────────

type shapeRenderer interface {
	render(r *Renderer, s domain.Shape, selected bool, roster domain.Roster) (Group, bool)
}

var shapeRenderers = map[domain.ShapeType]shapeRenderer{
	domain.ShapeTypeSelect: selectRenderer{},
	domain.ShapeTypePerson: personRenderer{},
	domain.ShapeTypeArrow:  arrowRenderer{},
}

type selectRenderer struct{}

func (selectRenderer) render(*Renderer, domain.Shape, bool, domain.Roster) (Group, bool) {
	return Group{}, false
}

type personRenderer struct{}

func (personRenderer) render(r *Renderer, s domain.Shape, selected bool, roster domain.Roster) (Group, bool) {
	p, ok := s.(domain.Person)
	if !ok {
		return Group{}, false
	}
	size := p.Size
	if size <= 0 {
		size = domain.FallbackPersonSize
	}
	hit := CenteredRect(p.X, p.Y, size+2*HitPadding)
	visual := size
	fill := r.theme.Person
	if selected {
		visual = size * SelectedScale
		fill = r.theme.Highlight
	}
	g := Group{
		ShapeID:  p.ID,
		Type:     domain.ShapeTypePerson,
		Selected: selected,
		Hit:      HitRegion{Kind: HitRect, Rect: &hit},
		Visuals: []Primitive{{
			Kind:        PrimitiveCircle,
			Center:      Vec{p.X, p.Y},
			Size:        visual,
			Fill:        fill,
			Stroke:      r.theme.Neutral,
			StrokeWidth: 2,
		}},
		press: r.pressFor(p.ID),
	}
	if label := roster.Label(p); label != "" {
		g.Visuals = append(g.Visuals, Primitive{
			Kind:   PrimitiveText,
			Center: Vec{p.X, p.Y + visual/2 + LabelSize},
			Size:   LabelSize,
			Fill:   r.theme.Label,
			Text:   label,
		})
	}
	return g, true
}

type arrowRenderer struct{}

func (arrowRenderer) render(r *Renderer, s domain.Shape, selected bool, _ domain.Roster) (Group, bool) {
	a, ok := s.(domain.Arrow)
	if !ok || !a.Valid() {
		return Group{}, false
	}
	path := ArrowPath(a.From.Point(), a.To.Point(), r.arrow)
	shaft := path.Shaft
	hitWidth, strokeWidth, color := ArrowHitWidth, ArrowStrokeWidth, r.theme.Neutral
	if selected {
		hitWidth, strokeWidth, color = ArrowHitWidthSelected, ArrowStrokeWidthSelected, r.theme.Highlight
	}
	return Group{
		ShapeID:  a.ID,
		Type:     domain.ShapeTypeArrow,
		Selected: selected,
		Hit:      HitRegion{Kind: HitStroke, Segment: &shaft, Width: hitWidth},
		Visuals: []Primitive{{
			Kind:        PrimitivePath,
			Center:      Vec{a.To.X, a.To.Y},
			Stroke:      color,
			StrokeWidth: strokeWidth,
			Path:        &path,
		}},
		press: r.pressFor(a.ID),
	}, true
}

// HitTest returns the topmost group whose hit region contains p.
func HitTest(groups iter.Seq[Group], p Vec) (Group, bool) {
	var hit Group
	found := false
	for g := range groups {
		if g.Hit.Contains(p) {
			hit, found = g, true
		}
	}
	return hit, found
}
