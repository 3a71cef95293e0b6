package tracker

import (
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/models"
)

var (
	ErrUnknownReward        = errors.New("unknown reward")
	ErrRewardAlreadyClaimed = errors.New("reward already claimed today")
	ErrRewardNotReached     = errors.New("reward threshold not reached")
)

// Progress derives today's counts, points and completion percentage.
func (t *Tracker) Progress() models.Progress {
	var p models.Progress
	for _, task := range t.tasks {
		if task.Date != t.today {
			continue
		}
		p.Total++
		if task.Completed {
			p.Completed++
		}
	}

	p.TotalPoints = p.Total * constants.PointsPerTask
	p.EarnedPoints = p.Completed * constants.PointsPerTask
	if p.TotalPoints > 0 {
		p.Percent = int(math.Round(float64(p.EarnedPoints) / float64(p.TotalPoints) * 100))
	}
	return p
}

// Rewards returns the reward table sorted by threshold.
func (t *Tracker) Rewards() []models.RewardRule {
	return append([]models.RewardRule(nil), t.rules...)
}

// Reward looks up the rule for threshold.
func (t *Tracker) Reward(threshold int) (models.RewardRule, bool) {
	for _, r := range t.rules {
		if r.Threshold == threshold {
			return r, true
		}
	}
	return models.RewardRule{}, false
}

// AvailableRewards returns, in ascending order, the thresholds reached by
// today's progress that have not been claimed today.
func (t *Tracker) AvailableRewards() []int {
	percent := t.Progress().Percent
	var out []int
	for _, r := range t.rules {
		if percent >= r.Threshold && !t.claimed[r.Threshold] {
			out = append(out, r.Threshold)
		}
	}
	return out
}

// Claimed returns a copy of today's claimed-rewards record.
func (t *Tracker) Claimed() models.ClaimedRewards {
	return t.claimed.Clone()
}

// History returns a copy of the claimed-rewards record of every day.
func (t *Tracker) History() models.RewardHistory {
	out := make(models.RewardHistory, len(t.history))
	for day, claimed := range t.history {
		out[day] = claimed.Clone()
	}
	return out
}

// ClaimReward marks threshold as claimed today and returns the
// congratulatory message, which is also sent to the notifier. The claim is
// refused without any change when the threshold is unknown, already
// claimed, or not yet reached by today's progress.
func (t *Tracker) ClaimReward(threshold int) (string, error) {
	rule, ok := t.Reward(threshold)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownReward, threshold)
	}
	if t.claimed[threshold] {
		return "", fmt.Errorf("%w: %s", ErrRewardAlreadyClaimed, rule.Name)
	}
	if percent := t.Progress().Percent; percent < threshold {
		return "", fmt.Errorf("%w: %s needs %d%%, progress is %d%%", ErrRewardNotReached, rule.Name, threshold, percent)
	}

	t.claimed[threshold] = true
	logger.Info("Reward claimed", "threshold", threshold, "reward", rule.Name, "day", t.today)
	t.flush()

	msg := rule.Message()
	if t.notify != nil {
		t.notify(msg)
	}
	return msg, nil
}
