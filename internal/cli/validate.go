package cli

import (
	"fmt"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/models"
	"github.com/julianstephens/focusblocks/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	var tasks []models.Task
	if err := readEntry(ctx.Store, constants.TasksKey, &tasks); err != nil {
		return err
	}
	var history models.RewardHistory
	if err := readEntry(ctx.Store, constants.ClaimedRewardsKey, &history); err != nil {
		return err
	}

	v := ctx.validator()

	ctx.println("Validating tasks...")
	result := v.ValidateTasks(tasks)
	ctx.println("Validating reward history...")
	result.Merge(v.ValidateHistory(history, models.DefaultRewards()))

	ctx.println()
	ctx.println(result.FormatReport())
	return nil
}

func (c *Context) validator() *validation.Validator {
	if c.Now != nil {
		return validation.NewWithClock(c.Now)
	}
	return validation.New()
}
