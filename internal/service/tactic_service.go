package service

import (
	"context"
	"fmt"
	"iter"
	"log"
	"sync"

	"github.com/google/uuid"

	"playmaker/internal/board"
	"playmaker/internal/domain"
	"playmaker/internal/wire"
)

// ─────────────────────────────────────────────────────────────
// TacticService: one editor session and its save boundary
// ─────────────────────────────────────────────────────────────

// TacticPort persists tactics in wire format. Implemented by the REST
// backend client and by StorePort over a local store.
type TacticPort interface {
	LoadTactic(ctx context.Context, id string) (*wire.Tactic, error)
	SaveTactic(ctx context.Context, t *wire.Tactic) error
}

// Board is a read-only snapshot of the session.
type Board struct {
	Tactic    wire.Tactic     `json:"tactic"`
	Selection board.Selection `json:"selection"`
	Tool      string          `json:"tool"`
	Dirty     bool            `json:"dirty"`
	Saving    bool            `json:"saving"`
}

// TacticService owns a single board editor. Editor access is serialised so
// concurrent hosts (MCP handlers, HTTP) see one logical writer; the network
// part of a save runs outside the lock.
type TacticService struct {
	mu      sync.Mutex
	port    TacticPort
	emitter EventEmitter
	guard   saveGuard
	editor  *board.Editor
	meta    wire.Tactic // id, team and name of the open tactic
	version int
	saved   int
}

func NewTacticService(port TacticPort, emitter EventEmitter, opts ...board.EditorOption) *TacticService {
	s := &TacticService{
		port:    port,
		emitter: emitter,
		editor:  board.NewEditor(opts...),
	}
	s.meta.ID = uuid.New().String()
	s.editor.OnShapesChange(s.shapesChanged)
	return s
}

// shapesChanged runs with s.mu held, from inside an editor mutation.
func (s *TacticService) shapesChanged(shapes []domain.Shape) {
	s.version++
	s.emitter.Emit(context.Background(), "board:shapes-changed", map[string]any{
		"tacticId": s.meta.ID,
		"shapes":   wire.Encode(shapes),
	})
}

// New starts an empty, unsaved tactic.
func (s *TacticService) New(teamID, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = wire.Tactic{ID: uuid.New().String(), TeamID: teamID, Name: name}
	if err := s.editor.Load(nil); err != nil {
		log.Printf("[BOARD] Clear editor for %s: %v", s.meta.ID, err)
	}
	s.version, s.saved = 0, 0
	log.Printf("[BOARD] New tactic %s (%s)", s.meta.ID, name)
	return s.meta.ID
}

// Open seeds the editor from a persisted tactic. Malformed state is
// returned to the caller, which decides whether to start empty.
func (s *TacticService) Open(ctx context.Context, id string) error {
	t, err := s.port.LoadTactic(ctx, id)
	if err != nil {
		return fmt.Errorf("load tactic %s: %w", id, err)
	}
	shapes, err := wire.Decode(t.Shapes)
	if err != nil {
		return fmt.Errorf("load tactic %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Load(shapes); err != nil {
		return fmt.Errorf("load tactic %s: %w", id, err)
	}
	s.meta = wire.Tactic{ID: t.ID, TeamID: t.TeamID, Name: t.Name}
	if s.meta.ID == "" {
		s.meta.ID = id
	}
	s.version, s.saved = 0, 0
	log.Printf("[BOARD] Opened tactic %s with %d shapes", s.meta.ID, len(shapes))
	s.emitter.Emit(ctx, "tactic:opened", s.meta.ID)
	return nil
}

// Do runs fn against the editor under the session lock.
func (s *TacticService) Do(fn func(e *board.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

// Shapes returns a copy of the current collection.
func (s *TacticService) Shapes() []domain.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Shapes()
}

// Groups renders the board and returns the groups as a slice.
func (s *TacticService) Groups() []board.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []board.Group
	for g := range s.editor.Render() {
		out = append(out, g)
	}
	return out
}

// Render returns the board's rendered groups as a sequence detached from
// the session lock.
func (s *TacticService) Render() iter.Seq[board.Group] {
	groups := s.Groups()
	return func(yield func(board.Group) bool) {
		for _, g := range groups {
			if !yield(g) {
				return
			}
		}
	}
}

func (s *TacticService) SetRoster(r domain.Roster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.SetRoster(r)
}

func (s *TacticService) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta.Name = name
}

// Snapshot describes the session state.
func (s *TacticService) Snapshot() Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.meta
	t.Shapes = wire.Encode(s.editor.Shapes())
	return Board{
		Tactic:    t,
		Selection: s.editor.Selection(),
		Tool:      s.editor.Tool().String(),
		Dirty:     s.version != s.saved,
		Saving:    s.guard.saving(t.ID),
	}
}

// Dirty reports unsaved changes since the last open or successful save.
func (s *TacticService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version != s.saved
}

// Save serialises the board and sends it through the port. An empty board
// returns ErrNothingToSave without a network call, a save while another is
// pending returns ErrSaveInProgress, and port failures come back as
// *SaveError. The board is never cleared.
func (s *TacticService) Save(ctx context.Context) (*wire.Tactic, error) {
	s.mu.Lock()
	payload := s.meta
	payload.Shapes = wire.Encode(s.editor.Shapes())
	version := s.version
	s.mu.Unlock()

	if len(payload.Shapes) == 0 {
		return nil, ErrNothingToSave
	}
	if !s.guard.begin(payload.ID) {
		return nil, ErrSaveInProgress
	}
	defer s.guard.end(payload.ID)

	log.Printf("[SAVE] Saving tactic %s (%d shapes)", payload.ID, len(payload.Shapes))
	if err := s.port.SaveTactic(ctx, &payload); err != nil {
		se := newSaveError(err)
		log.Printf("[SAVE] Tactic %s failed: %v", payload.ID, err)
		s.emitter.Emit(ctx, "tactic:save-failed", map[string]any{"tacticId": payload.ID, "message": se.Message})
		return nil, se
	}

	s.mu.Lock()
	if s.meta.ID == payload.ID && version > s.saved {
		s.saved = version
	}
	s.mu.Unlock()

	s.emitter.Emit(ctx, "tactic:saved", payload.ID)
	return &payload, nil
}

// Wait blocks until pending saves finish or ctx is done.
func (s *TacticService) Wait(ctx context.Context) {
	s.guard.wait(ctx)
}
