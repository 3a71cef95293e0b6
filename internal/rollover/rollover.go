// Package rollover reconciles stored tasks against the current calendar day.
package rollover

import "github.com/julianstephens/focusblocks/internal/models"

// Result is the reconciled state produced for a given day.
type Result struct {
	Tasks   []models.Task
	Claimed models.ClaimedRewards
	// Carried counts tasks whose date was reassigned to today.
	Carried int
}

// Apply returns a copy of tasks in which every incomplete task dated before
// (or simply other than) today is re-dated to today. Completed tasks keep
// their original date, and tasks already dated today pass through as-is.
// Order is preserved. Applying it twice on the same day is a no-op the
// second time.
func Apply(tasks []models.Task, today string) ([]models.Task, int) {
	out := make([]models.Task, len(tasks))
	carried := 0
	for i, task := range tasks {
		if task.Date != today && !task.Completed {
			task.Date = today
			task.Completed = false
			carried++
		}
		out[i] = task
	}
	return out, carried
}

// ClaimsFor selects today's claimed-rewards record from the history,
// defaulting to an empty record.
func ClaimsFor(history models.RewardHistory, today string) models.ClaimedRewards {
	return history[today].Clone()
}

// Run applies the task rollover and selects today's claims in one step.
func Run(tasks []models.Task, history models.RewardHistory, today string) Result {
	reconciled, carried := Apply(tasks, today)
	return Result{
		Tasks:   reconciled,
		Claimed: ClaimsFor(history, today),
		Carried: carried,
	}
}
