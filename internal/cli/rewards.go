package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusblocks/internal/models"
	"github.com/julianstephens/focusblocks/internal/tracker"
	"github.com/julianstephens/focusblocks/internal/validation"
)

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	p := tr.Progress()
	ctx.printf("%d of %d tasks completed\n", p.Completed, p.Total)
	ctx.printf("Points: %d / %d\n", p.EarnedPoints, p.TotalPoints)
	ctx.printf("Progress: %d%% %s\n", p.Percent, ctx.bar(p.Percent))
	return nil
}

// bar is a fixed-width text progress bar.
func (c *Context) bar(percent int) string {
	const width = 20
	filled := min(max(percent, 0), 100) * width / 100
	if c.Plain {
		return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

type RewardsCmd struct{}

func (c *RewardsCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	percent := tr.Progress().Percent
	claimed := tr.Claimed()
	ctx.printf("Rewards for %s (progress %d%%)\n\n", tr.Today(), percent)
	for _, r := range tr.Rewards() {
		state := "locked"
		switch {
		case claimed[r.Threshold]:
			state = "claimed"
		case percent >= r.Threshold:
			state = "available"
		}
		ctx.printf("  %3d%%  %-20s %s\n", r.Threshold, ctx.rewardName(r), state)
	}
	return nil
}

func (c *Context) rewardName(r models.RewardRule) string {
	if c.Plain {
		return r.Name
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render(r.Emoji + " " + r.Name)
}

type ClaimCmd struct {
	Threshold int `arg:"" help:"Reward threshold percentage (e.g. 50)."`
}

func (c *ClaimCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	msg, err := tr.ClaimReward(c.Threshold)
	if err != nil {
		if errors.Is(err, tracker.ErrUnknownReward) {
			var thresholds []string
			for _, r := range tr.Rewards() {
				thresholds = append(thresholds, fmt.Sprintf("%d", r.Threshold))
			}
			return fmt.Errorf("%w (available thresholds: %s)", err, strings.Join(thresholds, ", "))
		}
		return err
	}
	ctx.checkWrite()

	ctx.println(msg)
	return nil
}

// HistoryCmd lists claimed rewards per day, newest first.
type HistoryCmd struct {
	Days int `short:"n" help:"Number of days to show." default:"7"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	type day struct {
		name    string
		claimed models.ClaimedRewards
	}
	var days []day
	for name, claimed := range tr.History() {
		if _, err := validation.ParseDay(name); err != nil {
			continue
		}
		days = append(days, day{name, claimed})
	}
	sort.Slice(days, func(i, j int) bool {
		a, _ := validation.ParseDay(days[i].name)
		b, _ := validation.ParseDay(days[j].name)
		return a.After(b)
	})
	if c.Days > 0 && len(days) > c.Days {
		days = days[:c.Days]
	}

	if len(days) == 0 {
		ctx.println("No reward history")
		return nil
	}
	for _, d := range days {
		var names []string
		for _, r := range tr.Rewards() {
			if d.claimed[r.Threshold] {
				names = append(names, ctx.rewardName(r))
			}
		}
		if len(names) == 0 {
			names = []string{"-"}
		}
		ctx.printf("%s  %s\n", d.name, strings.Join(names, ", "))
	}
	return nil
}
