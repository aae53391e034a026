package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"playmaker/internal/board"
	"playmaker/internal/domain"
	"playmaker/internal/wire"
)

func (s *Server) registerBoardTools() {
	// ── set_tool ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_tool",
		mcp.WithDescription("Switch the active drawing tool. Switching abandons a half-drawn arrow."),
		mcp.WithString("tool",
			mcp.Description("select, person or arrow"),
			mcp.Required(),
			mcp.Enum("select", "person", "arrow"),
		),
	), s.handleSetTool)

	// ── place ──────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("place",
		mcp.WithDescription("Tap the board with the active tool. Person adds a marker; arrow takes two taps (start, then tip) and snaps onto markers; select picks the shape under the point."),
		mcp.WithNumber("x", mcp.Description("Board X coordinate"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Board Y coordinate"), mcp.Required()),
		mcp.WithString("id", mcp.Description("Optional id for a new marker, or a marker id to anchor an arrow end to")),
	), s.handlePlace)

	// ── add_person ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_person",
		mcp.WithDescription("Add a player marker. Without coordinates the marker goes to the next free grid spot."),
		mcp.WithNumber("x", mcp.Description("Board X coordinate")),
		mcp.WithNumber("y", mcp.Description("Board Y coordinate")),
		mcp.WithString("playerId", mcp.Description("Roster member to associate with the marker")),
	), s.handleAddPerson)

	// ── add_formation ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_formation",
		mcp.WithDescription("Add a row-wrapped block of player markers starting at a point"),
		mcp.WithNumber("count", mcp.Description("Number of markers"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Start X (default 40)")),
		mcp.WithNumber("y", mcp.Description("Start Y (default 40)")),
	), s.handleAddFormation)

	// ── add_arrow ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_arrow",
		mcp.WithDescription("Draw an arrow between two points. Pass fromId/toId to start or end on a player marker."),
		mcp.WithNumber("fromX", mcp.Description("Start X (ignored with fromId)")),
		mcp.WithNumber("fromY", mcp.Description("Start Y (ignored with fromId)")),
		mcp.WithString("fromId", mcp.Description("Marker the arrow starts from")),
		mcp.WithNumber("toX", mcp.Description("Tip X (ignored with toId)")),
		mcp.WithNumber("toY", mcp.Description("Tip Y (ignored with toId)")),
		mcp.WithString("toId", mcp.Description("Marker the arrow points at")),
	), s.handleAddArrow)

	// ── select_shape / clear_selection ─────────────────
	s.mcp.AddTool(mcp.NewTool("select_shape",
		mcp.WithDescription("Select a shape by id"),
		mcp.WithString("id", mcp.Description("Shape id"), mcp.Required()),
	), s.handleSelectShape)

	s.mcp.AddTool(mcp.NewTool("clear_selection",
		mcp.WithDescription("Clear the current selection"),
	), s.handleClearSelection)

	// ── move_shape ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_shape",
		mcp.WithDescription("Move a player marker; arrows anchored to it follow"),
		mcp.WithString("id", mcp.Description("Marker id"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y"), mcp.Required()),
	), s.handleMoveShape)

	// ── associate_player ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("associate_player",
		mcp.WithDescription("Associate a marker with a roster member. An empty playerId clears it."),
		mcp.WithString("personId", mcp.Description("Marker id"), mcp.Required()),
		mcp.WithString("playerId", mcp.Description("Roster member id")),
	), s.handleAssociatePlayer)

	// ── undo / delete_selected / reset_board ───────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Remove the most recently added shape, whatever is selected"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("delete_selected",
		mcp.WithDescription("Delete the selected shape"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSelected)

	s.mcp.AddTool(mcp.NewTool("reset_board",
		mcp.WithDescription("Remove every shape from the board"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleResetBoard)

	// ── list_shapes / render_board ─────────────────────
	s.mcp.AddTool(mcp.NewTool("list_shapes",
		mcp.WithDescription("List the shapes on the board in drawing order"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListShapes)

	s.mcp.AddTool(mcp.NewTool("render_board",
		mcp.WithDescription("Return the rendered groups: visuals, hit regions and selection state per shape"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleRenderBoard)
}

func (s *Server) handleSetTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tool, err := board.ParseTool(req.GetString("tool", ""))
	if err != nil {
		return nil, err
	}
	if err := s.tactics.Do(func(e *board.Editor) error {
		e.SetTool(tool)
		return nil
	}); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Active tool: %s", tool)), nil
}

func (s *Server) handlePlace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := pointArg(req.GetArguments(), "")
	if err != nil {
		return nil, err
	}
	p.ID = req.GetString("id", "")

	var (
		placed domain.Shape
		drag   board.DragState
		sel    board.Selection
	)
	err = s.tactics.Do(func(e *board.Editor) error {
		var err error
		placed, err = e.Place(p)
		drag, sel = e.Drag(), e.Selection()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}

	switch {
	case placed != nil:
		return jsonResult(wire.Encode([]domain.Shape{placed}))
	case isArrowStart(drag):
		return textResult(fmt.Sprintf("Arrow start placed at (%g, %g); place again to set the tip", p.X, p.Y)), nil
	case sel.Valid:
		return textResult(fmt.Sprintf("Selected %s", sel.ID)), nil
	}
	return textResult("Nothing under the point; selection cleared"), nil
}

func isArrowStart(d board.DragState) bool {
	_, ok := d.(board.ArrowStartPlaced)
	return ok
}

func (s *Server) handleAddPerson(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	playerID := req.GetString("playerId", "")

	var person domain.Person
	err := s.tactics.Do(func(e *board.Editor) error {
		p, err := pointArg(args, "")
		if err != nil {
			p.X, p.Y = s.layout.NextPosition(e.Shapes(), domain.DefaultPersonSize)
		}
		if person, err = e.AddPerson(p); err != nil {
			return err
		}
		if playerID != "" {
			if err := e.Associate(person.ID, playerID); err != nil {
				return err
			}
			person.AssociatedPlayerID = playerID
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add person: %w", err)
	}
	return jsonResult(wire.Encode([]domain.Shape{person})[0])
}

func (s *Server) handleAddFormation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := req.GetInt("count", 0)
	if count <= 0 || count > 30 {
		return nil, fmt.Errorf("count must be between 1 and 30")
	}
	x := req.GetFloat("x", board.GridSize)
	y := req.GetFloat("y", board.GridSize)

	var added []domain.Shape
	err := s.tactics.Do(func(e *board.Editor) error {
		for _, v := range s.layout.Formation(count, x, y, domain.DefaultPersonSize) {
			p, err := e.AddPerson(domain.Point{X: v.X, Y: v.Y})
			if err != nil {
				return err
			}
			added = append(added, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add formation: %w", err)
	}
	return jsonResult(wire.Encode(added))
}

func (s *Server) handleAddArrow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	fromID, toID := req.GetString("fromId", ""), req.GetString("toId", "")

	var arrow domain.Shape
	err := s.tactics.Do(func(e *board.Editor) error {
		from, err := endpoint(e, args, "from", fromID)
		if err != nil {
			return err
		}
		to, err := endpoint(e, args, "to", toID)
		if err != nil {
			return err
		}
		arrow, err = e.AddArrow("", from, to)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add arrow: %w", err)
	}
	return jsonResult(wire.Encode([]domain.Shape{arrow})[0])
}

// endpoint resolves an arrow end: the centre of marker id, or the
// {prefix}X/{prefix}Y arguments.
func endpoint(e *board.Editor, args map[string]any, prefix, id string) (domain.Point, error) {
	if id == "" {
		return pointArg(args, prefix)
	}
	s, _ := domain.FindShape(e.Shapes(), id)
	p, ok := s.(domain.Person)
	if !ok {
		return domain.Point{}, fmt.Errorf("%sId %q: %w", prefix, id, board.ErrNotPerson)
	}
	return p.Center(), nil
}

func (s *Server) handleSelectShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	err := s.tactics.Do(func(e *board.Editor) error {
		if !e.SelectShape(id) {
			return fmt.Errorf("select %q: %w", id, board.ErrShapeNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Selected %s", id)), nil
}

func (s *Server) handleClearSelection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.tactics.Do(func(e *board.Editor) error {
		e.ClearSelection()
		return nil
	}); err != nil {
		return nil, err
	}
	return textResult("Selection cleared"), nil
}

func (s *Server) handleMoveShape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := req.GetString("id", "")
	p, err := pointArg(args, "")
	if err != nil {
		return nil, err
	}
	if err := s.tactics.Do(func(e *board.Editor) error { return e.Move(id, p.X, p.Y) }); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Moved %s to (%g, %g)", id, p.X, p.Y)), nil
}

func (s *Server) handleAssociatePlayer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID := req.GetString("personId", "")
	playerID := req.GetString("playerId", "")
	if personID == "" {
		return nil, fmt.Errorf("personId is required")
	}
	if err := s.tactics.Do(func(e *board.Editor) error { return e.Associate(personID, playerID) }); err != nil {
		return nil, err
	}
	if playerID == "" {
		return textResult(fmt.Sprintf("Cleared player on %s", personID)), nil
	}
	return textResult(fmt.Sprintf("Associated %s with player %s", personID, playerID)), nil
}

// mutate runs an editor mutation and reports how many shapes it removed.
func (s *Server) mutate(verb string, fn func(e *board.Editor)) (*mcp.CallToolResult, error) {
	var before, after int
	if err := s.tactics.Do(func(e *board.Editor) error {
		before = e.Len()
		fn(e)
		after = e.Len()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", verb, err)
	}
	if before == after {
		return textResult(fmt.Sprintf("%s: nothing changed", verb)), nil
	}
	return textResult(fmt.Sprintf("%s: removed %d shape(s), %d left", verb, before-after, after)), nil
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate("Undo", (*board.Editor).Undo)
}

func (s *Server) handleDeleteSelected(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate("Delete", (*board.Editor).DeleteSelected)
}

func (s *Server) handleResetBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate("Reset", (*board.Editor).Reset)
}

func (s *Server) handleListShapes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(wire.Encode(s.tactics.Shapes()))
}

func (s *Server) handleRenderBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups := s.tactics.Groups()
	if groups == nil {
		groups = []board.Group{}
	}
	return jsonResult(groups)
}
