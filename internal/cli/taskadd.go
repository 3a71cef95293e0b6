package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/focusblocks/internal/models"
)

type AddCmd struct {
	Text  []string `arg:"" help:"Task text."`
	Block string   `short:"b" help:"Block (morning|evening|latenight)." required:""`
}

func (c *AddCmd) Validate() error {
	_, err := models.ParseBlock(c.Block)
	return err
}

func (c *AddCmd) Run(ctx *Context) error {
	block, err := models.ParseBlock(c.Block)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(c.Text, " "))
	if text == "" {
		return fmt.Errorf("task text cannot be empty")
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	task, ok := tr.AddTask(text, block)
	if !ok {
		return fmt.Errorf("task was not added")
	}
	ctx.checkWrite()

	ctx.printf("Added task: %s to %s (ID: %d)\n", task.Text, block.Info().Name, task.ID)
	return nil
}
