package domain

type Member struct {
	ID       string `json:"id"`
	TeamID   string `json:"teamId,omitempty"`
	Name     string `json:"name"`
	Number   int    `json:"number,omitempty"`
	Position string `json:"position,omitempty"`
}

// Roster is an ordered list of team members.
type Roster []Member

// Find returns the member with the given id.
func (r Roster) Find(id string) (Member, bool) {
	if id == "" {
		return Member{}, false
	}
	for _, m := range r {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Label resolves a person's association to a display label. Unassociated
// markers and members missing from the roster yield "".
func (r Roster) Label(p Person) string {
	m, ok := r.Find(p.AssociatedPlayerID)
	if !ok {
		return ""
	}
	return m.Name
}

type RosterStore interface {
	ReplaceRoster(teamID string, members []Member) error
	ListRoster(teamID string) ([]Member, error)
}
