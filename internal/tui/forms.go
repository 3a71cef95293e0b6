package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusblocks/internal/models"
)

func newTaskForm(fm *TaskFormModel) *huh.Form {
	var blockOptions []huh.Option[models.Block]
	for _, info := range models.Blocks() {
		label := fmt.Sprintf("%s %s (%s)", info.Emoji, info.Name, info.Time)
		blockOptions = append(blockOptions, huh.NewOption(label, info.Block))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("What will you focus on?").
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("task cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.Block]().
				Title("Block").
				Options(blockOptions...).
				Value(&fm.Block),
		),
	).WithTheme(huh.ThemeDracula())
}

func newClaimForm(fm *ClaimFormModel, rewards []models.RewardRule) *huh.Form {
	options := make([]huh.Option[int], 0, len(rewards))
	for _, r := range rewards {
		label := fmt.Sprintf("%s %s (%d%%)", r.Emoji, r.Name, r.Threshold)
		options = append(options, huh.NewOption(label, r.Threshold))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Claim a reward").
				Options(options...).
				Value(&fm.Threshold),
		),
	).WithTheme(huh.ThemeDracula())
}
