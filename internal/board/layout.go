package board

import (
	"math"

	"playmaker/internal/domain"
)

const (
	GridSize  = 40.0
	Spacing   = 16.0 // gap kept around existing markers
	MaxRowW   = 640.0
	maxRowsUp = 200
)

// LayoutEngine picks free board positions for markers placed without
// explicit coordinates.
type LayoutEngine struct {
	gridSize float64
	spacing  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		spacing:  Spacing,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

func occupiedRect(s domain.Shape) (Rect, bool) {
	switch v := s.(type) {
	case domain.Person:
		size := v.Size
		if size <= 0 {
			size = domain.FallbackPersonSize
		}
		return CenteredRect(v.X, v.Y, size), true
	case domain.Arrow:
		if !v.Valid() {
			return Rect{}, false
		}
		return segmentRect(Segment{From: Vec{v.From.X, v.From.Y}, To: Vec{v.To.X, v.To.Y}}), true
	}
	return Rect{}, false
}

// NextPosition scans the grid row by row for the first center where a
// marker of the given size clears every existing shape.
func (le *LayoutEngine) NextPosition(existing []domain.Shape, size float64) (float64, float64) {
	occupied := make([]Rect, 0, len(existing))
	for _, s := range existing {
		if r, ok := occupiedRect(s); ok {
			occupied = append(occupied, Rect{
				MinX: r.MinX - le.spacing,
				MinY: r.MinY - le.spacing,
				MaxX: r.MaxX + le.spacing,
				MaxY: r.MaxY + le.spacing,
			})
		}
	}

	for row := 1; row <= maxRowsUp; row++ {
		y := float64(row) * le.gridSize
		for x := le.gridSize; x <= le.maxRowW; x += le.gridSize {
			candidate := CenteredRect(le.snap(x), le.snap(y), size)
			overlaps := false
			for _, occ := range occupied {
				if candidate.Intersects(occ) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return le.snap(x), le.snap(y)
			}
		}
	}

	// Fallback: below everything
	maxY := 0.0
	for _, occ := range occupied {
		maxY = math.Max(maxY, occ.MaxY)
	}
	return le.gridSize, le.snap(maxY + size)
}

// Formation lays count markers out in rows starting at (startX, startY).
func (le *LayoutEngine) Formation(count int, startX, startY, size float64) []Vec {
	out := make([]Vec, 0, count)
	x, y := le.snap(startX), le.snap(startY)
	step := le.snap(size + le.spacing*2)
	if step < le.gridSize {
		step = le.gridSize
	}
	for i := 0; i < count; i++ {
		out = append(out, Vec{x, y})
		x += step
		if x > le.maxRowW {
			x = le.snap(startX)
			y += step
		}
	}
	return out
}
