package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/julianstephens/focusblocks/internal/errors"
	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/storage"
	"github.com/julianstephens/focusblocks/internal/tracker"
	"github.com/julianstephens/focusblocks/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		// The view stays usable without storage; nothing is kept on exit.
		apperrors.Warn(fmt.Errorf("%w; continuing without saving", err))
		ctx.Store = storage.NewMemoryStore()
		ctx.tracker = tracker.Open(ctx.Store, clockOpts(ctx)...)
		tr = ctx.tracker
	} else {
		ctx.PerformAutomaticBackup()
	}

	logger.Info("Starting TUI", "store", tr.StorePath(), "day", tr.Today())
	p := tea.NewProgram(tui.NewModel(tr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
