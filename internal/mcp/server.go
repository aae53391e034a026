package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"playmaker/internal/board"
	"playmaker/internal/domain"
	"playmaker/internal/export"
	"playmaker/internal/service"
)

// Server is the MCP server for PlayMaker.
// It exposes the board editor as tools, resources, and prompts so AI agents
// can sketch and save tactics.
type Server struct {
	mcp    *server.MCPServer
	layout *board.LayoutEngine

	tactics *service.TacticService
	roster  *service.RosterService
	store   domain.TacticStore
	export  export.Options
}

// Deps holds the services the MCP server drives. Roster and Store are
// optional.
type Deps struct {
	Tactics *service.TacticService
	Roster  *service.RosterService
	Store   domain.TacticStore
	Export  export.Options
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		layout:  board.NewLayoutEngine(),
		tactics: deps.Tactics,
		roster:  deps.Roster,
		store:   deps.Store,
		export:  deps.Export,
	}
	if s.export == (export.Options{}) {
		s.export = export.DefaultOptions
	}

	s.mcp = server.NewMCPServer(
		"playmaker-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerBoardTools()
	s.registerTacticTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }

// numberArg reads a required numeric argument.
func numberArg(args map[string]any, key string) (float64, error) {
	switch v := args[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	}
	return 0, fmt.Errorf("%s is required", key)
}

// pointArg reads {prefix}X / {prefix}Y, or x / y when prefix is empty.
func pointArg(args map[string]any, prefix string) (domain.Point, error) {
	xKey, yKey := "x", "y"
	if prefix != "" {
		xKey, yKey = prefix+"X", prefix+"Y"
	}
	x, err := numberArg(args, xKey)
	if err != nil {
		return domain.Point{}, err
	}
	y, err := numberArg(args, yKey)
	if err != nil {
		return domain.Point{}, err
	}
	return domain.Point{X: x, Y: y}, nil
}

// loadRoster attaches the team roster to the board when one is configured.
// Without a team or on failure the board is left unlabelled.
func (s *Server) loadRoster(ctx context.Context, teamID string) (domain.Roster, error) {
	if s.roster == nil || teamID == "" {
		s.tactics.SetRoster(nil)
		return nil, nil
	}
	r, err := s.roster.Get(ctx, teamID)
	if err != nil {
		s.tactics.SetRoster(nil)
		return nil, err
	}
	s.tactics.SetRoster(r)
	return r, nil
}
