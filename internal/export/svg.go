package export

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"iter"

	"playmaker/internal/board"
)

// SVG writes the board as a standalone SVG document. Arrow paths keep
// their three move-to/line-to subpaths.
func SVG(w io.Writer, groups iter.Seq[board.Group], opts Options) error {
	c := layout(groups, opts)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%g %g %g %g">`+"\n",
		c.width, c.height, c.origin.X, c.origin.Y, c.width, c.height)
	if opts.Background != "" {
		fmt.Fprintf(bw, `  <rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`+"\n",
			c.origin.X, c.origin.Y, c.width, c.height, opts.Background)
	}
	for _, g := range c.groups {
		fmt.Fprintf(bw, `  <g id="%s" data-type="%s">`+"\n", html.EscapeString(g.ShapeID), g.Type)
		for _, p := range g.Visuals {
			switch p.Kind {
			case board.PrimitiveCircle:
				fmt.Fprintf(bw, `    <circle cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="%g"/>`+"\n",
					p.Center.X, p.Center.Y, p.Size/2, p.Fill, p.Stroke, p.StrokeWidth)
			case board.PrimitivePath:
				if p.Path == nil {
					continue
				}
				fmt.Fprintf(bw, `    <path d="%s" fill="none" stroke="%s" stroke-width="%g" stroke-linecap="round"/>`+"\n",
					p.Path.D(), p.Stroke, p.StrokeWidth)
			case board.PrimitiveText:
				fmt.Fprintf(bw, `    <text x="%g" y="%g" font-size="%g" fill="%s" text-anchor="middle">%s</text>`+"\n",
					p.Center.X, p.Center.Y, p.Size, p.Fill, html.EscapeString(p.Text))
			}
		}
		fmt.Fprintln(bw, `  </g>`)
	}
	fmt.Fprintln(bw, `</svg>`)
	return bw.Flush()
}
