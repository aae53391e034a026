package domain

import "time"

// Tactic is a saved board. ShapesJSON holds the wire-format shape list.
type Tactic struct {
	ID         string    `json:"id"`
	TeamID     string    `json:"teamId"`
	Name       string    `json:"name"`
	ShapesJSON string    `json:"shapesJson"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type TacticStore interface {
	SaveTactic(t *Tactic) error
	GetTactic(id string) (*Tactic, error)
	ListTactics(teamID string) ([]Tactic, error)
	DeleteTactic(id string) error
}
