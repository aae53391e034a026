package board

import "playmaker/internal/domain"

// Setter receives the next shape collection.
type Setter func([]domain.Shape)

// Undo removes the most recently appended shape. The setter is always called
// with a new slice; an empty collection stays empty.
func Undo(current []domain.Shape, set Setter, _ Selection) {
	if len(current) == 0 {
		set([]domain.Shape{})
		return
	}
	next := make([]domain.Shape, len(current)-1)
	copy(next, current[:len(current)-1])
	set(next)
}

// Delete removes the selected shape. With no selection, or a selection that
// matches nothing, the setter still receives an unchanged copy.
func Delete(current []domain.Shape, set Setter, selected Selection) {
	next := make([]domain.Shape, 0, len(current))
	for _, s := range current {
		if s != nil && selected.Is(s.ShapeID()) {
			continue
		}
		next = append(next, s)
	}
	set(next)
}

// Reset empties the collection.
func Reset(_ []domain.Shape, set Setter, _ Selection) {
	set([]domain.Shape{})
}
