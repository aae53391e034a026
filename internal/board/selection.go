package board

import "encoding/json"

// Selection is the selected shape id, or none when Valid is false.
type Selection struct {
	ID    string
	Valid bool
}

// NoSelection is the empty selection.
var NoSelection = Selection{}

func Selected(id string) Selection {
	return Selection{ID: id, Valid: id != ""}
}

// Is reports whether the shape id is the selected one. Shapes without an
// id never match.
func (s Selection) Is(id string) bool {
	return s.Valid && id != "" && s.ID == id
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.ID)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSelection
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*s = Selected(id)
	return nil
}
