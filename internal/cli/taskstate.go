package cli

import (
	"fmt"
	"strconv"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

type DoneCmd struct {
	ID int64 `arg:"" help:"ID of the task to toggle."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	before := len(tr.AvailableRewards())
	task, ok := tr.ToggleTask(c.ID)
	if !ok {
		return fmt.Errorf("task not found: %d", c.ID)
	}
	ctx.checkWrite()

	if task.Completed {
		ctx.printf("✓ Completed: %s\n", task.Text)
	} else {
		ctx.printf("○ Reopened: %s\n", task.Text)
	}

	p := tr.Progress()
	ctx.printf("Progress: %d%% (%d/%d points)\n", p.Percent, p.EarnedPoints, p.TotalPoints)
	if available := tr.AvailableRewards(); len(available) > before {
		for _, threshold := range available {
			r, _ := tr.Reward(threshold)
			ctx.printf("Reward available: %s (claim with 'focusblocks claim %d')\n", r.Name, threshold)
		}
	}
	return nil
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"ID of the task to delete."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	task, ok := tr.Task(c.ID)
	if !ok || !tr.DeleteTask(c.ID) {
		return fmt.Errorf("task not found: %d", c.ID)
	}
	ctx.checkWrite()

	ctx.printf("Deleted task: %s\n", task.Text)
	return nil
}
