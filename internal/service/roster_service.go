package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"playmaker/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Roster Service: cached team rosters for marker labels
// ─────────────────────────────────────────────────────────────

// RosterSource fetches a team's member list.
type RosterSource interface {
	FetchRoster(ctx context.Context, teamID string) ([]domain.Member, error)
}

// FileRoster reads rosters from a file: JSON mapping team id to members,
// or CSV (by .csv extension) with one member per row.
type FileRoster struct {
	Path string
}

func (f FileRoster) FetchRoster(_ context.Context, teamID string) ([]domain.Member, error) {
	if strings.EqualFold(filepath.Ext(f.Path), ".csv") {
		return f.fetchCSV(teamID)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var teams map[string][]domain.Member
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", f.Path, err)
	}
	members := teams[teamID]
	for i := range members {
		members[i].TeamID = teamID
	}
	return members, nil
}

// fetchCSV reads a headed CSV with columns team_id, id, name and the
// optional number and position, in any order.
func (f FileRoster) fetchCSV(teamID string) ([]domain.Member, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", f.Path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse roster file %s: empty csv file", f.Path)
	}

	col := map[string]int{}
	for i, h := range records[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"team_id", "id", "name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("parse roster file %s: missing column %q", f.Path, required)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var members []domain.Member
	for _, row := range records[1:] {
		if cell(row, "team_id") != teamID {
			continue
		}
		m := domain.Member{
			ID:       cell(row, "id"),
			TeamID:   teamID,
			Name:     cell(row, "name"),
			Position: cell(row, "position"),
		}
		if n := cell(row, "number"); n != "" {
			if m.Number, err = strconv.Atoi(n); err != nil {
				return nil, fmt.Errorf("parse roster file %s: member %s: bad number %q", f.Path, m.ID, n)
			}
		}
		members = append(members, m)
	}
	return members, nil
}

// RosterService keeps the latest roster per team. Fetched rosters are
// written through to an optional store, which also serves as the fallback
// when the source is unreachable.
type RosterService struct {
	source  RosterSource
	store   domain.RosterStore
	emitter EventEmitter

	mu        sync.RWMutex
	rosters   map[string]domain.Roster
	listeners []func(teamID string, r domain.Roster)

	// watcher / cron lifecycle
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

func NewRosterService(source RosterSource, store domain.RosterStore, emitter EventEmitter) *RosterService {
	return &RosterService{
		source:  source,
		store:   store,
		emitter: emitter,
		rosters: make(map[string]domain.Roster),
	}
}

// OnChange registers fn to run after a team's roster is refreshed.
func (s *RosterService) OnChange(fn func(teamID string, r domain.Roster)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Get returns the cached roster, fetching it on first use.
func (s *RosterService) Get(ctx context.Context, teamID string) (domain.Roster, error) {
	s.mu.RLock()
	r, ok := s.rosters[teamID]
	s.mu.RUnlock()
	if ok {
		return r, nil
	}
	return s.Refresh(ctx, teamID)
}

// Refresh fetches the roster from the source and replaces the cache.
func (s *RosterService) Refresh(ctx context.Context, teamID string) (domain.Roster, error) {
	members, err := s.source.FetchRoster(ctx, teamID)
	if err != nil {
		if s.store == nil {
			return nil, fmt.Errorf("fetch roster %s: %w", teamID, err)
		}
		log.Printf("[ROSTER] Fetch for %s failed, using stored copy: %v", teamID, err)
		members, err = s.store.ListRoster(teamID)
		if err != nil {
			return nil, fmt.Errorf("load stored roster %s: %w", teamID, err)
		}
		return s.set(ctx, teamID, members), nil
	}

	if s.store != nil {
		if err := s.store.ReplaceRoster(teamID, members); err != nil {
			log.Printf("[ROSTER] Failed to store roster for %s: %v", teamID, err)
		}
	}
	return s.set(ctx, teamID, members), nil
}

func (s *RosterService) set(ctx context.Context, teamID string, members []domain.Member) domain.Roster {
	r := domain.Roster(members)
	if r == nil {
		r = domain.Roster{}
	}
	s.mu.Lock()
	s.rosters[teamID] = r
	listeners := append([]func(string, domain.Roster){}, s.listeners...)
	s.mu.Unlock()

	log.Printf("[ROSTER] Team %s: %d members", teamID, len(r))
	s.emitter.Emit(ctx, "roster:updated", map[string]any{"teamId": teamID, "members": r})
	for _, fn := range listeners {
		fn(teamID, r)
	}
	return r
}

// Teams lists the team ids currently cached.
func (s *RosterService) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.rosters))
	for id := range s.rosters {
		out = append(out, id)
	}
	return out
}

// ── Watchers (cron + file_watch) ──────────────────────────

// Schedule refreshes every cached team on the cron expression.
func (s *RosterService) Schedule(ctx context.Context, expr string) error {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		for _, teamID := range s.Teams() {
			if _, err := s.Refresh(ctx, teamID); err != nil {
				log.Printf("[ROSTER] Scheduled refresh of %s failed: %v", teamID, err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("roster schedule %q: %w", expr, err)
	}
	c.Start()

	s.mu.Lock()
	if s.cronSched != nil {
		s.cronSched.Stop()
	}
	s.cronSched = c
	s.mu.Unlock()
	log.Printf("[ROSTER] Refresh scheduled: %s", expr)
	return nil
}

// Watch refreshes every cached team when the roster file at path changes.
// Bursts of writes are coalesced.
func (s *RosterService) Watch(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("roster watch path %q: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.stopWatchLocked()
	s.watcher = watcher
	s.watchCancel = cancel
	s.mu.Unlock()

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if p, _ := filepath.Abs(event.Name); p != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(300*time.Millisecond, func() {
					log.Printf("[ROSTER] %s changed, reloading", absPath)
					for _, teamID := range s.Teams() {
						if _, err := s.Refresh(watchCtx, teamID); err != nil {
							log.Printf("[ROSTER] Reload of %s failed: %v", teamID, err)
						}
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[ROSTER] Watcher error: %v", err)
			}
		}
	}()
	log.Printf("[ROSTER] Watching %s", absPath)
	return nil
}

// Stop tears down the watcher and scheduler.
func (s *RosterService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatchLocked()
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}

// stopWatchLocked closes the current file watcher. Callers hold s.mu.
func (s *RosterService) stopWatchLocked() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
