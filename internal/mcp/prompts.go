package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("draw_set_piece",
		mcp.WithPromptDescription("Sketch a set piece with player markers and movement arrows"),
		mcp.WithArgument("situation",
			mcp.ArgumentDescription("The set piece, e.g. \"near-post corner\""),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("teamId",
			mcp.ArgumentDescription("Team whose roster labels the markers"),
		),
	), s.handleSetPiecePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("review_tactic",
		mcp.WithPromptDescription("Open a saved tactic and describe what it shows"),
		mcp.WithArgument("tacticId",
			mcp.ArgumentDescription("Tactic to review"),
			mcp.RequiredArgument(),
		),
	), s.handleReviewPrompt)
}

func (s *Server) handleSetPiecePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	situation := req.Params.Arguments["situation"]
	teamID := req.Params.Arguments["teamId"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Draw a set piece: %s", situation),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Draw "%s" on the tactics board. Follow these steps:

1. Start a fresh board with new_tactic (teamId %q) and a short name
2. If the team has a roster, call list_roster and pick the players involved
3. Place the players with add_person (pass playerId to label them)
4. Draw each run or pass with add_arrow, using fromId so arrows start on a player
5. Check the result with list_shapes, then call save_tactic

Keep markers at least 40 units apart so labels stay readable.`, situation, teamID),
				},
			},
		},
	}, nil
}

func (s *Server) handleReviewPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	tacticID := req.Params.Arguments["tacticId"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Review tactic %s", tacticID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Open tactic %s with open_tactic, read the playmaker://board and playmaker://roster resources, and explain the plan: who starts where, and where each arrow sends a player or the ball. Do not modify or save the board.`, tacticID),
				},
			},
		},
	}, nil
}
