package cli

import (
	"path/filepath"
	"time"

	"github.com/julianstephens/focusblocks/internal/report"
)

type ReportCmd struct {
	Out string `short:"o" help:"Output PDF path. Defaults to focusblocks-report-<date>.pdf in the current directory."`
}

func (c *ReportCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	path := ExpandPath(c.Out)
	if path == "" {
		now := time.Now()
		if ctx.Now != nil {
			now = ctx.Now()
		}
		path = report.DefaultFilename(now)
	}

	if err := report.Generate(path, tr); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	ctx.printf("PDF report generated: %s\n", abs)
	return nil
}
