package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"playmaker/internal/domain"
)

// TacticStore implements domain.TacticStore on any supported SQL dialect.
type TacticStore struct {
	db *DB
}

func NewTacticStore(db *DB) *TacticStore {
	return &TacticStore{db: db}
}

func (s *TacticStore) upsertQuery() string {
	if s.db.dialect == DialectMySQL {
		return `INSERT INTO tactics (id, team_id, name, shapes_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE team_id = VALUES(team_id), name = VALUES(name), shapes_json = VALUES(shapes_json), updated_at = VALUES(updated_at)`
	}
	return s.db.rebind(`INSERT INTO tactics (id, team_id, name, shapes_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET team_id = excluded.team_id, name = excluded.name, shapes_json = excluded.shapes_json, updated_at = excluded.updated_at`)
}

// SaveTactic inserts or replaces a tactic. CreatedAt survives updates.
func (s *TacticStore) SaveTactic(t *domain.Tactic) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	_, err := s.db.Conn().Exec(s.upsertQuery(),
		t.ID, t.TeamID, t.Name, t.ShapesJSON, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save tactic: %w", err)
	}
	return nil
}

func (s *TacticStore) GetTactic(id string) (*domain.Tactic, error) {
	t := &domain.Tactic{}
	err := s.db.Conn().QueryRow(
		s.db.rebind(`SELECT id, team_id, name, shapes_json, created_at, updated_at FROM tactics WHERE id = ?`), id,
	).Scan(&t.ID, &t.TeamID, &t.Name, &t.ShapesJSON, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tactic %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tactic: %w", err)
	}
	return t, nil
}

func (s *TacticStore) ListTactics(teamID string) ([]domain.Tactic, error) {
	rows, err := s.db.Conn().Query(
		s.db.rebind(`SELECT id, team_id, name, shapes_json, created_at, updated_at FROM tactics WHERE team_id = ? ORDER BY updated_at DESC`),
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tactics: %w", err)
	}
	defer rows.Close()

	var tactics []domain.Tactic
	for rows.Next() {
		var t domain.Tactic
		if err := rows.Scan(&t.ID, &t.TeamID, &t.Name, &t.ShapesJSON, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tactic: %w", err)
		}
		tactics = append(tactics, t)
	}
	return tactics, rows.Err()
}

func (s *TacticStore) DeleteTactic(id string) error {
	res, err := s.db.Conn().Exec(s.db.rebind(`DELETE FROM tactics WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete tactic: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete tactic %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
