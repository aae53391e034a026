package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"playmaker/internal/domain"
)

const (
	boardURI  = "playmaker://board"
	rosterURI = "playmaker://roster"
)

func (s *Server) registerResources() {
	// ── playmaker://board ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		boardURI,
		"Current Board",
		mcp.WithResourceDescription("The open tactic, its shapes, selection, active tool and save state"),
		mcp.WithMIMEType("application/json"),
	), s.handleBoardResource)

	// ── playmaker://roster ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		rosterURI,
		"Team Roster",
		mcp.WithResourceDescription("Roster of the open tactic's team"),
		mcp.WithMIMEType("application/json"),
	), s.handleRosterResource)
}

func (s *Server) handleBoardResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.tactics.Snapshot(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      boardURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleRosterResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	members := domain.Roster{}
	if teamID := s.tactics.Snapshot().Tactic.TeamID; s.roster != nil && teamID != "" {
		r, err := s.roster.Get(ctx, teamID)
		if err != nil {
			return nil, err
		}
		members = r
	}
	data, _ := json.MarshalIndent(members, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rosterURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
