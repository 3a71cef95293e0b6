package models

import (
	"fmt"
	"sort"
)

// RewardRule is a symbolic reward unlocked once today's progress reaches
// Threshold percent.
type RewardRule struct {
	Threshold int
	Name      string
	Emoji     string
	Color     string
}

// Message is the congratulatory text shown when the reward is claimed.
func (r RewardRule) Message() string {
	return fmt.Sprintf("🎉 Congratulations! You've earned: %s %s! 🎉", r.Emoji, r.Name)
}

// DefaultRewards returns the reference reward table, sorted by threshold.
func DefaultRewards() []RewardRule {
	return []RewardRule{
		{Threshold: 50, Name: "Lime Soda", Emoji: "🥤", Color: "#10b981"},
		{Threshold: 60, Name: "2 Games of PES", Emoji: "⚽", Color: "#3b82f6"},
		{Threshold: 70, Name: "Mountain Dew", Emoji: "🥤", Color: "#eab308"},
	}
}

// SortRewards orders rules by ascending threshold in place.
func SortRewards(rules []RewardRule) {
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Threshold < rules[j].Threshold
	})
}

// ClaimedRewards records, for a single day, which thresholds were claimed.
// encoding/json writes the int keys as decimal strings ({"50": true}).
type ClaimedRewards map[int]bool

// Clone returns an independent copy. A nil record clones to an empty one.
func (c ClaimedRewards) Clone() ClaimedRewards {
	out := make(ClaimedRewards, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// RewardHistory maps a calendar-day string to that day's claimed rewards.
type RewardHistory map[string]ClaimedRewards

// Progress holds the metrics derived from today's tasks.
type Progress struct {
	Total        int
	Completed    int
	EarnedPoints int
	TotalPoints  int
	Percent      int
}
