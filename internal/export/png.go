package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"iter"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"playmaker/internal/board"
)

// PNG rasterizes the board at one pixel per board unit.
func PNG(w io.Writer, groups iter.Seq[board.Group], opts Options) error {
	c := layout(groups, opts)
	width, height := int(math.Ceil(c.width)), int(math.Ceil(c.height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	bg := color.RGBA{255, 255, 255, 255}
	if opts.Background != "" {
		parsed, err := board.ParseHex(opts.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		bg = parsed
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	r := &raster{img: img, z: vector.NewRasterizer(width, height)}
	for _, g := range c.groups {
		for _, p := range g.Visuals {
			if err := r.primitive(c, p); err != nil {
				return fmt.Errorf("shape %s: %w", g.ShapeID, err)
			}
		}
	}
	return png.Encode(w, img)
}

type raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func (r *raster) fill(col string) error {
	rgba, err := board.ParseHex(col)
	if err != nil {
		return err
	}
	r.z.DrawOp = draw.Over
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(rgba), image.Point{})
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	return nil
}

func (r *raster) circle(center board.Vec, radius float64) {
	const steps = 48
	for i := 0; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		x := float32(center.X + radius*math.Cos(a))
		y := float32(center.Y + radius*math.Sin(a))
		if i == 0 {
			r.z.MoveTo(x, y)
			continue
		}
		r.z.LineTo(x, y)
	}
	r.z.ClosePath()
}

// segment adds a stroke of the given width as a closed quad.
func (r *raster) segment(a, b board.Vec, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		r.circle(a, width/2)
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	r.z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	r.z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	r.z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	r.z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	r.z.ClosePath()
	// round joints so the chevron tip closes
	r.circle(a, width/2)
	r.circle(b, width/2)
}

func (r *raster) primitive(c canvas, p board.Primitive) error {
	switch p.Kind {
	case board.PrimitiveCircle:
		center := c.at(p.Center)
		radius := p.Size / 2
		if p.Stroke != "" && p.StrokeWidth > 0 {
			r.circle(center, radius+p.StrokeWidth/2)
			if err := r.fill(p.Stroke); err != nil {
				return err
			}
			radius -= p.StrokeWidth / 2
		}
		r.circle(center, radius)
		return r.fill(p.Fill)
	case board.PrimitivePath:
		if p.Path == nil {
			return nil
		}
		for _, s := range p.Path.Subpaths() {
			r.segment(c.at(s.From), c.at(s.To), p.StrokeWidth)
		}
		return r.fill(p.Stroke)
	case board.PrimitiveText:
		rgba, err := board.ParseHex(p.Fill)
		if err != nil {
			return err
		}
		face := basicfont.Face7x13
		d := &font.Drawer{Dst: r.img, Src: image.NewUniform(rgba), Face: face}
		at := c.at(p.Center)
		width := d.MeasureString(p.Text)
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(at.X)) - width/2,
			Y: fixed.I(int(at.Y) + face.Ascent/2),
		}
		d.DrawString(p.Text)
	}
	return nil
}
