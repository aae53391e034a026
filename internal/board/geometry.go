package board

import (
	"math"
	"strconv"
	"strings"

	"playmaker/internal/domain"
)

const (
	DefaultHeadLength = 14.0
	DefaultHeadAngle  = math.Pi / 6
)

type ArrowOptions struct {
	HeadLength float64
	HeadAngle  float64
}

var DefaultArrowOptions = ArrowOptions{HeadLength: DefaultHeadLength, HeadAngle: DefaultHeadAngle}

// Vec is a bare board coordinate.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func vecOf(p domain.Point) Vec { return Vec{X: p.X, Y: p.Y} }

type Segment struct {
	From Vec `json:"from"`
	To   Vec `json:"to"`
}

func (s Segment) Length() float64 {
	return math.Hypot(s.To.X-s.From.X, s.To.Y-s.From.Y)
}

// Path is an arrow drawn as three independent strokes: the shaft and the
// two wings of an open chevron at the tip.
type Path struct {
	Shaft Segment `json:"shaft"`
	Wing1 Segment `json:"wing1"`
	Wing2 Segment `json:"wing2"`
}

func (p Path) Subpaths() []Segment {
	return []Segment{p.Shaft, p.Wing1, p.Wing2}
}

// D renders the path as SVG path data, one move-to/line-to pair per stroke.
func (p Path) D() string {
	var b strings.Builder
	for i, s := range p.Subpaths() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("M ")
		b.WriteString(fmtCoord(s.From.X))
		b.WriteByte(' ')
		b.WriteString(fmtCoord(s.From.Y))
		b.WriteString(" L ")
		b.WriteString(fmtCoord(s.To.X))
		b.WriteByte(' ')
		b.WriteString(fmtCoord(s.To.Y))
	}
	return b.String()
}

func fmtCoord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ArrowPath builds the shaft and arrowhead wings from `from` to `to`.
// Coincident endpoints give angle 0, so the chevron points along +x.
func ArrowPath(from, to domain.Point, opts ArrowOptions) Path {
	if opts.HeadLength <= 0 {
		opts.HeadLength = DefaultHeadLength
	}
	if opts.HeadAngle <= 0 {
		opts.HeadAngle = DefaultHeadAngle
	}
	x1, y1, x2, y2 := from.X, from.Y, to.X, to.Y
	angle := math.Atan2(y2-y1, x2-x1)
	tip := Vec{x2, y2}
	wing1 := Vec{
		X: x2 - opts.HeadLength*math.Cos(angle-opts.HeadAngle),
		Y: y2 - opts.HeadLength*math.Sin(angle-opts.HeadAngle),
	}
	wing2 := Vec{
		X: x2 - opts.HeadLength*math.Cos(angle+opts.HeadAngle),
		Y: y2 - opts.HeadLength*math.Sin(angle+opts.HeadAngle),
	}
	return Path{
		Shaft: Segment{From: Vec{x1, y1}, To: tip},
		Wing1: Segment{From: tip, To: wing1},
		Wing2: Segment{From: tip, To: wing2},
	}
}

// DistanceToSegment is the shortest distance from p to the segment a-b.
func DistanceToSegment(p, a, b Vec) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// Rect is an axis-aligned box.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func CenteredRect(cx, cy, side float64) Rect {
	h := side / 2
	return Rect{MinX: cx - h, MinY: cy - h, MaxX: cx + h, MaxY: cy + h}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

func (r Rect) Contains(p Vec) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX && r.MinY < o.MaxY && r.MaxY > o.MinY
}

// Union grows r to cover o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}
