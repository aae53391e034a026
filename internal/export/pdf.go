package export

import (
	"fmt"
	"io"
	"iter"

	"github.com/jung-kurt/gofpdf"

	"playmaker/internal/board"
)

// PDF writes the board on a single page sized to fit it, one point per
// board unit.
func PDF(w io.Writer, groups iter.Seq[board.Group], opts Options) error {
	c := layout(groups, opts)
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: c.width, Ht: c.height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")

	if opts.Background != "" {
		if err := setFill(p, opts.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
		p.Rect(0, 0, c.width, c.height, "F")
	}

	for _, g := range c.groups {
		for _, prim := range g.Visuals {
			if err := pdfPrimitive(p, c, prim); err != nil {
				return fmt.Errorf("shape %s: %w", g.ShapeID, err)
			}
		}
	}
	if err := p.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return p.Output(w)
}

func setFill(p *gofpdf.Fpdf, hex string) error {
	c, err := board.ParseHex(hex)
	if err != nil {
		return err
	}
	p.SetFillColor(int(c.R), int(c.G), int(c.B))
	return nil
}

func setDraw(p *gofpdf.Fpdf, hex string) error {
	c, err := board.ParseHex(hex)
	if err != nil {
		return err
	}
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
	return nil
}

func pdfPrimitive(p *gofpdf.Fpdf, c canvas, prim board.Primitive) error {
	switch prim.Kind {
	case board.PrimitiveCircle:
		at := c.at(prim.Center)
		if err := setFill(p, prim.Fill); err != nil {
			return err
		}
		style := "F"
		if prim.Stroke != "" && prim.StrokeWidth > 0 {
			if err := setDraw(p, prim.Stroke); err != nil {
				return err
			}
			p.SetLineWidth(prim.StrokeWidth)
			style = "FD"
		}
		p.Circle(at.X, at.Y, prim.Size/2, style)
	case board.PrimitivePath:
		if prim.Path == nil {
			return nil
		}
		if err := setDraw(p, prim.Stroke); err != nil {
			return err
		}
		p.SetLineWidth(prim.StrokeWidth)
		for _, s := range prim.Path.Subpaths() {
			a, b := c.at(s.From), c.at(s.To)
			p.Line(a.X, a.Y, b.X, b.Y)
		}
	case board.PrimitiveText:
		col, err := board.ParseHex(prim.Fill)
		if err != nil {
			return err
		}
		p.SetTextColor(int(col.R), int(col.G), int(col.B))
		p.SetFont("Helvetica", "", prim.Size)
		at := c.at(prim.Center)
		p.Text(at.X-p.GetStringWidth(prim.Text)/2, at.Y+prim.Size/3, prim.Text)
	}
	return nil
}
