package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusblocks/internal/models"
)

var (
	doneTaskStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	blockStyle    = lipgloss.NewStyle().Bold(true)
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type ListCmd struct {
	Block string `short:"b" help:"Only show one block (morning|evening|latenight)."`
}

func (c *ListCmd) Validate() error {
	if c.Block == "" {
		return nil
	}
	_, err := models.ParseBlock(c.Block)
	return err
}

func (c *ListCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	blocks := models.Blocks()
	if c.Block != "" {
		b, _ := models.ParseBlock(c.Block)
		blocks = []models.BlockInfo{b.Info()}
	}

	ctx.printf("Tasks for %s\n", tr.Today())
	for _, info := range blocks {
		ctx.println()
		ctx.println(ctx.blockHeader(info))

		n := 0
		for task := range tr.TasksForBlock(info.Block) {
			n++
			ctx.printf("  %d. %s\n", n, ctx.taskLine(task))
		}
		if n == 0 {
			ctx.println("  No tasks yet")
		}
	}
	return nil
}

func (c *Context) blockHeader(info models.BlockInfo) string {
	if c.Plain {
		return info.Name + " (" + info.Time + ")"
	}
	return blockStyle.Render(info.Emoji+" "+info.Name) + " " + idStyle.Render(info.Time)
}

func (c *Context) taskLine(task models.Task) string {
	id := "(ID: " + itoa(task.ID) + ")"
	if c.Plain {
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}
		return box + " " + task.Text + " " + id
	}

	text := task.Text
	box := "○"
	if task.Completed {
		box = "✓"
		text = doneTaskStyle.Render(text)
	}
	return box + " " + text + " " + idStyle.Render(id)
}
