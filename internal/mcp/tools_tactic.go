package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"playmaker/internal/export"
	"playmaker/internal/service"
	"playmaker/internal/wire"
)

func (s *Server) registerTacticTools() {
	// ── new_tactic ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("new_tactic",
		mcp.WithDescription("Start a new empty tactic board"),
		mcp.WithString("teamId", mcp.Description("Team the tactic belongs to")),
		mcp.WithString("name", mcp.Description("Tactic name")),
	), s.handleNewTactic)

	// ── open_tactic ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_tactic",
		mcp.WithDescription("Load a saved tactic onto the board, replacing the current shapes"),
		mcp.WithString("id", mcp.Description("Tactic id"), mcp.Required()),
	), s.handleOpenTactic)

	// ── save_tactic ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_tactic",
		mcp.WithDescription("Save the board. Empty boards are not saved; the board is kept when the save fails."),
		mcp.WithString("name", mcp.Description("Rename the tactic before saving")),
	), s.handleSaveTactic)

	// ── list_tactics ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_tactics",
		mcp.WithDescription("List saved tactics of a team"),
		mcp.WithString("teamId", mcp.Description("Team id"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListTactics)

	// ── list_roster ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_roster",
		mcp.WithDescription("List a team's roster and use it for marker labels"),
		mcp.WithString("teamId", mcp.Description("Team id (defaults to the open tactic's team)")),
	), s.handleListRoster)

	// ── export_board ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_board",
		mcp.WithDescription("Export the board as svg, png or pdf. SVG is returned inline when no path is given."),
		mcp.WithString("format", mcp.Description("svg, png or pdf"), mcp.Required(), mcp.Enum("svg", "png", "pdf")),
		mcp.WithString("path", mcp.Description("File to write (required for png and pdf)")),
	), s.handleExportBoard)
}

func (s *Server) handleNewTactic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	teamID := req.GetString("teamId", "")
	id := s.tactics.New(teamID, req.GetString("name", ""))
	if _, err := s.loadRoster(ctx, teamID); err != nil {
		return textResult(fmt.Sprintf("Started tactic %s (roster unavailable: %v)", id, err)), nil
	}
	return textResult(fmt.Sprintf("Started tactic %s", id)), nil
}

func (s *Server) handleOpenTactic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	if err := s.tactics.Open(ctx, id); err != nil {
		return nil, err
	}
	snap := s.tactics.Snapshot()
	opened := struct {
		wire.Tactic
		RosterError string `json:"rosterError,omitempty"`
	}{Tactic: snap.Tactic}
	if _, err := s.loadRoster(ctx, snap.Tactic.TeamID); err != nil {
		log.Printf("[MCP] Roster for %s unavailable: %v", snap.Tactic.TeamID, err)
		opened.RosterError = err.Error()
	}
	return jsonResult(opened)
}

func (s *Server) handleSaveTactic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if name := req.GetString("name", ""); name != "" {
		s.tactics.Rename(name)
	}
	saved, err := s.tactics.Save(ctx)
	switch {
	case errors.Is(err, service.ErrNothingToSave), errors.Is(err, service.ErrSaveInProgress):
		return textResult(err.Error()), nil
	case err != nil:
		return nil, err
	}
	return textResult(fmt.Sprintf("Saved tactic %s (%d shapes)", saved.ID, len(saved.Shapes))), nil
}

func (s *Server) handleListTactics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no tactic store configured")
	}
	teamID := req.GetString("teamId", "")
	items, err := s.store.ListTactics(teamID)
	if err != nil {
		return nil, fmt.Errorf("list tactics: %w", err)
	}

	type tacticSummary struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Shapes int    `json:"shapes"`
	}
	summaries := make([]tacticSummary, 0, len(items))
	for i := range items {
		t, err := wire.FromDomain(&items[i])
		if err != nil {
			continue
		}
		summaries = append(summaries, tacticSummary{ID: t.ID, Name: t.Name, Shapes: len(t.Shapes)})
	}
	return jsonResult(summaries)
}

func (s *Server) handleListRoster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.roster == nil {
		return nil, fmt.Errorf("no roster source configured")
	}
	teamID := req.GetString("teamId", s.tactics.Snapshot().Tactic.TeamID)
	if teamID == "" {
		return nil, fmt.Errorf("teamId is required")
	}
	r, err := s.loadRoster(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("roster for %s: %w", teamID, err)
	}
	return jsonResult(r)
}

func (s *Server) handleExportBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := export.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return nil, err
	}
	path := req.GetString("path", "")
	if path == "" && format != export.FormatSVG {
		return nil, fmt.Errorf("path is required for %s", format)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.tactics.Render(), s.export); err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	if path == "" {
		return textResult(buf.String()), nil
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return textResult(fmt.Sprintf("Wrote %s (%d bytes)", path, buf.Len())), nil
}
