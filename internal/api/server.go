// Package api serves tactics over HTTP: the REST save backend, roster
// lookups, board exports and a live websocket feed per tactic.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"playmaker/internal/board"
	"playmaker/internal/domain"
	"playmaker/internal/export"
	"playmaker/internal/service"
	"playmaker/internal/wire"
)

type Server struct {
	tactics    domain.TacticStore
	roster     *service.RosterService
	hub        *Hub
	renderOpts []board.RendererOption
	mux        *http.ServeMux
}

// NewServer wires the routes. roster may be nil, in which case roster
// lookups return an empty list and exports carry no labels.
func NewServer(tactics domain.TacticStore, roster *service.RosterService, hub *Hub, opts ...board.RendererOption) *Server {
	if hub == nil {
		hub = NewHub()
	}
	s := &Server{tactics: tactics, roster: roster, hub: hub, renderOpts: opts, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/tactics/{id}", s.handleGetTactic)
	s.mux.HandleFunc("PUT /api/tactics/{id}", s.handleSaveTactic)
	s.mux.HandleFunc("DELETE /api/tactics/{id}", s.handleDeleteTactic)
	s.mux.HandleFunc("GET /api/tactics/{id}/export/{format}", s.handleExport)
	s.mux.HandleFunc("GET /api/tactics/{id}/feed", s.handleFeed)
	s.mux.HandleFunc("GET /api/teams/{team}/tactics", s.handleListTactics)
	s.mux.HandleFunc("GET /api/teams/{team}/roster", s.handleRoster)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }
func (s *Server) Hub() *Hub             { return s.hub }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleGetTactic(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTactic(w, r.PathValue("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleSaveTactic upserts a tactic. Shapes are validated and normalised
// with the same rules the editor loads them with; a board with nothing
// drawable is rejected.
func (s *Server) handleSaveTactic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req wire.Tactic
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.ID != "" && req.ID != id {
		writeError(w, http.StatusBadRequest, "id mismatch")
		return
	}
	req.ID = id

	shapes, err := wire.Decode(req.Shapes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Shapes = wire.Encode(shapes)
	if len(req.Shapes) == 0 {
		writeError(w, http.StatusBadRequest, "nothing to save")
		return
	}

	t, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.tactics.SaveTactic(t); err != nil {
		log.Printf("[API] Save tactic %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	saved, ok := s.loadTactic(w, id)
	if !ok {
		return
	}
	log.Printf("[API] Saved tactic %s (%d shapes)", id, len(saved.Shapes))
	s.hub.Publish(Event{Type: "tactic:saved", TacticID: id, Payload: saved})
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTactic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tactics.DeleteTactic(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tactic not found")
			return
		}
		log.Printf("[API] Delete tactic %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.hub.Publish(Event{Type: "tactic:deleted", TacticID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTactics(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	items, err := s.tactics.ListTactics(team)
	if err != nil {
		log.Printf("[API] List tactics for %s failed: %v", team, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]*wire.Tactic, 0, len(items))
	for i := range items {
		t, err := wire.FromDomain(&items[i])
		if err != nil {
			log.Printf("[API] Skipping tactic %s: %v", items[i].ID, err)
			continue
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	if s.roster == nil {
		writeJSON(w, http.StatusOK, []domain.Member{})
		return
	}
	team := r.PathValue("team")
	members, err := s.roster.Get(r.Context(), team)
	if err != nil {
		log.Printf("[API] Roster for %s failed: %v", team, err)
		writeError(w, http.StatusBadGateway, "roster unavailable")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, ok := s.loadTactic(w, r.PathValue("id"))
	if !ok {
		return
	}
	shapes, err := wire.Decode(t.Shapes)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	renderer := board.NewRenderer(nil, s.renderOpts...)
	if s.roster != nil && t.TeamID != "" {
		if members, err := s.roster.Get(r.Context(), t.TeamID); err == nil {
			renderer.SetRoster(members)
		} else {
			log.Printf("[API] Export %s without labels: %v", t.ID, err)
		}
	}

	w.Header().Set("Content-Type", format.ContentType())
	if err := export.Write(w, format, renderer.Render(shapes, board.NoSelection), export.DefaultOptions); err != nil {
		log.Printf("[API] Export %s as %s failed: %v", t.ID, format, err)
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, r.PathValue("id"))
}

func (s *Server) loadTactic(w http.ResponseWriter, id string) (*wire.Tactic, bool) {
	t, err := s.tactics.GetTactic(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tactic not found")
			return nil, false
		}
		log.Printf("[API] Get tactic %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	out, err := wire.FromDomain(t)
	if err != nil {
		log.Printf("[API] Tactic %s is corrupt: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return out, true
}

// ── JSON helpers ────────────────────────────────────────────

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, r.Body)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError uses the "message" field the REST client reads first.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "message": msg})
}
