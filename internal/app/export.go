package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"playmaker/internal/board"
	"playmaker/internal/export"
	"playmaker/internal/wire"
)

// Export renders a saved tactic to path. The format follows the file
// extension.
func (a *App) Export(ctx context.Context, tacticID, path string) error {
	format, err := export.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	t, err := a.TacticPort().LoadTactic(ctx, tacticID)
	if err != nil {
		return fmt.Errorf("load tactic %s: %w", tacticID, err)
	}
	shapes, err := wire.Decode(t.Shapes)
	if err != nil {
		return fmt.Errorf("load tactic %s: %w", tacticID, err)
	}

	renderer := board.NewRenderer(nil, a.RendererOptions()...)
	if roster := a.RosterService(nopEmitter{}); roster != nil && t.TeamID != "" {
		if r, err := roster.Get(ctx, t.TeamID); err == nil {
			renderer.SetRoster(r)
		} else {
			log.Printf("[EXPORT] No roster labels: %v", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, format, renderer.Render(shapes, board.NoSelection), export.DefaultOptions); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

// nopEmitter drops events in one-shot commands.
type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}
