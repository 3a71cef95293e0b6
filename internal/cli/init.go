package cli

import "github.com/julianstephens/focusblocks/internal/tracker"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	// Seed both entries so a fresh store is already well-formed.
	tr := tracker.Open(ctx.Store, clockOpts(ctx)...)
	if err := tr.LastError(); err != nil {
		return err
	}
	ctx.printf("Initialized focusblocks storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func clockOpts(ctx *Context) []tracker.Option {
	if ctx.Now == nil {
		return nil
	}
	return []tracker.Option{tracker.WithClock(ctx.Now)}
}
