package storage

import (
	"fmt"

	"playmaker/internal/domain"
)

// RosterStore keeps a cached copy of each team's roster.
type RosterStore struct {
	db *DB
}

func NewRosterStore(db *DB) *RosterStore {
	return &RosterStore{db: db}
}

// ReplaceRoster swaps a team's members in one transaction, keeping order.
func (s *RosterStore) ReplaceRoster(teamID string, members []domain.Member) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.db.rebind(`DELETE FROM roster_members WHERE team_id = ?`), teamID); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	insert := s.db.rebind(`INSERT INTO roster_members (id, team_id, name, number, position, sort_order) VALUES (?, ?, ?, ?, ?, ?)`)
	for i, m := range members {
		if _, err := tx.Exec(insert, m.ID, teamID, m.Name, m.Number, m.Position, i); err != nil {
			return fmt.Errorf("insert member %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (s *RosterStore) ListRoster(teamID string) ([]domain.Member, error) {
	rows, err := s.db.Conn().Query(
		s.db.rebind(`SELECT id, team_id, name, number, position FROM roster_members WHERE team_id = ? ORDER BY sort_order ASC`),
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.Name, &m.Number, &m.Position); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
