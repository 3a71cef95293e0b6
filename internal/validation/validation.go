// Package validation checks stored tasks and reward history for records the
// tracker would never write itself (hand edits, imports, older versions).
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTaskID  ConflictType = "duplicate_task_id"
	ConflictEmptyTaskText    ConflictType = "empty_task_text"
	ConflictInvalidBlock     ConflictType = "invalid_block"
	ConflictInvalidDate      ConflictType = "invalid_date"
	ConflictFutureDate       ConflictType = "future_date"
	ConflictUnknownThreshold ConflictType = "unknown_threshold"
)

// Conflict is one problem found in stored data.
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string
	TaskIDs     []int64
}

type Result struct {
	Conflicts []Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (r *Result) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
}

// Merge appends the conflicts of other.
func (r *Result) Merge(other Result) {
	r.Conflicts = append(r.Conflicts, other.Conflicts...)
}

// Validator checks data relative to a reference day.
type Validator struct {
	now func() time.Time
}

func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock judges future dates against now() instead of the wall clock.
func NewWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// ParseDay parses a stored calendar-day string.
func ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(constants.DateFormat, day, time.Local)
}

// ValidateTasks reports duplicate IDs, blank text, unknown blocks and dates
// that are malformed or later than today.
func (v *Validator) ValidateTasks(tasks []models.Task) Result {
	result := Result{Conflicts: []Conflict{}}
	today := startOfDay(v.now())

	seen := make(map[int64]int)
	for _, task := range tasks {
		seen[task.ID]++
	}
	var dupes []int64
	for id, n := range seen {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Slice(dupes, func(i, j int) bool { return dupes[i] < dupes[j] })
	for _, id := range dupes {
		result.add(Conflict{
			Type:        ConflictDuplicateTaskID,
			Description: fmt.Sprintf("Task ID %d is used by %d tasks", id, seen[id]),
			TaskIDs:     []int64{id},
		})
	}

	for _, task := range tasks {
		if strings.TrimSpace(task.Text) == "" {
			result.add(Conflict{
				Type:        ConflictEmptyTaskText,
				Description: fmt.Sprintf("Task %d has no text", task.ID),
				TaskIDs:     []int64{task.ID},
			})
		}

		if !task.Block.Valid() {
			result.add(Conflict{
				Type:        ConflictInvalidBlock,
				Description: fmt.Sprintf("Task %d has unknown block %q", task.ID, task.Block),
				TaskIDs:     []int64{task.ID},
			})
		}

		day, err := ParseDay(task.Date)
		switch {
		case err != nil:
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Task %d has invalid date %q", task.ID, task.Date),
				Date:        task.Date,
				TaskIDs:     []int64{task.ID},
			})
		case day.After(today):
			result.add(Conflict{
				Type:        ConflictFutureDate,
				Description: fmt.Sprintf("Task %d is dated in the future (%s)", task.ID, task.Date),
				Date:        task.Date,
				TaskIDs:     []int64{task.ID},
			})
		}
	}

	return result
}

// ValidateHistory reports malformed day keys and claims of thresholds that
// are not in rules.
func (v *Validator) ValidateHistory(history models.RewardHistory, rules []models.RewardRule) Result {
	result := Result{Conflicts: []Conflict{}}

	known := make(map[int]bool, len(rules))
	for _, r := range rules {
		known[r.Threshold] = true
	}

	days := make([]string, 0, len(history))
	for day := range history {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		if _, err := ParseDay(day); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Reward history has invalid day %q", day),
				Date:        day,
			})
		}

		var thresholds []int
		for threshold, claimed := range history[day] {
			if claimed && !known[threshold] {
				thresholds = append(thresholds, threshold)
			}
		}
		sort.Ints(thresholds)
		for _, threshold := range thresholds {
			result.add(Conflict{
				Type:        ConflictUnknownThreshold,
				Description: fmt.Sprintf("Reward history for %s claims unknown threshold %d%%", day, threshold),
				Date:        day,
			})
		}
	}

	return result
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
