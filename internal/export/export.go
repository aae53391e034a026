// Package export draws rendered board groups to SVG, PNG and PDF.
package export

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"playmaker/internal/board"
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

type Options struct {
	Margin     float64
	Background string
}

var DefaultOptions = Options{Margin: 24, Background: "#FFFFFF"}

// Write renders groups in the given format.
func Write(w io.Writer, f Format, groups iter.Seq[board.Group], opts Options) error {
	switch f {
	case FormatSVG:
		return SVG(w, groups, opts)
	case FormatPNG:
		return PNG(w, groups, opts)
	case FormatPDF:
		return PDF(w, groups, opts)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// canvas is the drawing area: every group plus the margin. An empty board
// gets a fixed default area.
type canvas struct {
	groups []board.Group
	origin board.Vec
	width  float64
	height float64
}

func layout(groups iter.Seq[board.Group], opts Options) canvas {
	var c canvas
	var bounds board.Rect
	for g := range groups {
		if len(c.groups) == 0 {
			bounds = g.Bounds()
		} else {
			bounds = bounds.Union(g.Bounds())
		}
		c.groups = append(c.groups, g)
	}
	if len(c.groups) == 0 {
		bounds = board.Rect{MaxX: 400, MaxY: 300}
	}
	c.origin = board.Vec{X: bounds.MinX - opts.Margin, Y: bounds.MinY - opts.Margin}
	c.width = bounds.Width() + 2*opts.Margin
	c.height = bounds.Height() + 2*opts.Margin
	return c
}

// at maps a board point into canvas coordinates.
func (c canvas) at(v board.Vec) board.Vec {
	return board.Vec{X: v.X - c.origin.X, Y: v.Y - c.origin.Y}
}
