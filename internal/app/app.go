// Package app assembles stores, services and hosts from the configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"playmaker/internal/board"
	"playmaker/internal/client"
	"playmaker/internal/config"
	"playmaker/internal/domain"
	"playmaker/internal/service"
	"playmaker/internal/storage"
)

// App holds the stores and remote clients shared by every command.
type App struct {
	cfg *config.Config

	db      *storage.DB
	mongo   *storage.MongoTacticStore
	tactics domain.TacticStore
	rosters domain.RosterStore
	backend *client.Backend
}

// New opens the configured store and, when a backend URL is set, the REST
// client.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	switch cfg.Store.Driver {
	case "mongo", "mongodb":
		m, err := storage.NewMongoTacticStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		a.mongo, a.tactics = m, m
	default:
		db, err := openSQL(cfg.Store)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.tactics = storage.NewTacticStore(db)
		a.rosters = storage.NewRosterStore(db)
	}

	if cfg.Backend.URL != "" {
		a.backend = client.New(cfg.Backend.URL, client.WithToken(cfg.Backend.Token))
		log.Printf("[APP] Saving tactics to %s", cfg.Backend.URL)
	}
	return a, nil
}

func openSQL(c config.Store) (*storage.DB, error) {
	dialect := storage.Dialect(c.Driver)
	if dialect == storage.DialectSQLite {
		db, err := storage.New(c.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, nil
	}

	dsn := c.DSN
	if c.Host != "" {
		ep := storage.Endpoint{
			Host: c.Host, Port: c.Port, User: c.User, Password: c.Password,
			Database: c.Database, SSLMode: c.SSLMode,
		}
		var err error
		if dsn, err = ep.DSN(dialect); err != nil {
			return nil, err
		}
	}
	db, err := storage.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	return db, nil
}

func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Close())
	}
	return errors.Join(errs...)
}

func (a *App) Config() *config.Config      { return a.cfg }
func (a *App) Tactics() domain.TacticStore { return a.tactics }
func (a *App) Backend() *client.Backend    { return a.backend }

// TacticPort is where editor sessions save: the backend when configured,
// otherwise the local store.
func (a *App) TacticPort() service.TacticPort {
	if a.backend != nil {
		return a.backend
	}
	return service.StorePort{Store: a.tactics}
}

// RosterService returns nil when no roster source is configured.
func (a *App) RosterService(emitter service.EventEmitter) *service.RosterService {
	var source service.RosterSource
	switch {
	case a.cfg.Roster.File != "":
		source = service.FileRoster{Path: a.cfg.Roster.File}
	case a.backend != nil:
		source = a.backend
	default:
		return nil
	}
	return service.NewRosterService(source, a.rosters, emitter)
}

// RendererOptions applies the configured colours and arrowhead.
func (a *App) RendererOptions() []board.RendererOption {
	return []board.RendererOption{
		board.WithTheme(a.cfg.Render.Theme),
		board.WithArrowOptions(a.cfg.ArrowOptions()),
	}
}

// StartRoster starts the file watch and the refresh schedule, if
// configured, and preloads the default team.
func (a *App) StartRoster(ctx context.Context, roster *service.RosterService) error {
	if roster == nil {
		return nil
	}
	if team := a.cfg.Backend.Team; team != "" {
		if _, err := roster.Refresh(ctx, team); err != nil {
			log.Printf("[APP] Initial roster for %s: %v", team, err)
		}
	}
	if a.cfg.Roster.File != "" {
		if err := roster.Watch(ctx, a.cfg.Roster.File); err != nil {
			return fmt.Errorf("watch roster: %w", err)
		}
	}
	if a.cfg.Roster.Refresh != "" {
		if err := roster.Schedule(ctx, a.cfg.Roster.Refresh); err != nil {
			return fmt.Errorf("schedule roster refresh: %w", err)
		}
	}
	return nil
}
