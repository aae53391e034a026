package app

import (
	"context"
	"log"

	"playmaker/internal/board"
	"playmaker/internal/domain"
	mcpserver "playmaker/internal/mcp"
	"playmaker/internal/service"
)

// ServeMCP runs a board editor as a standalone MCP server on stdin/stdout.
// Saves go to the backend when one is configured, otherwise to the local
// store, where a running `serve` picks them up.
func (a *App) ServeMCP(ctx context.Context) error {
	emitter := service.LogEmitter{}

	roster := a.RosterService(emitter)
	if err := a.StartRoster(ctx, roster); err != nil {
		return err
	}

	tactics := service.NewTacticService(a.TacticPort(), emitter,
		board.WithRendererOptions(a.RendererOptions()...),
	)
	if roster != nil {
		defer roster.Stop()
		roster.OnChange(func(teamID string, r domain.Roster) {
			if tactics.Snapshot().Tactic.TeamID == teamID {
				tactics.SetRoster(r)
			}
		})
	}
	if team := a.cfg.Backend.Team; team != "" {
		tactics.New(team, "")
		if roster != nil {
			if r, err := roster.Get(ctx, team); err == nil {
				tactics.SetRoster(r)
			}
		}
	}
	// let an in-flight save finish before exiting
	defer tactics.Wait(context.Background())

	srv := mcpserver.New(mcpserver.Deps{
		Tactics: tactics,
		Roster:  roster,
		Store:   a.tactics,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	return srv.ServeStdio()
}
