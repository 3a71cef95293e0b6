// Package tracker owns today's tasks and claimed rewards. Every mutation is
// followed by a full write of both persisted entries; derived metrics are
// recomputed on each read.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/models"
	"github.com/julianstephens/focusblocks/internal/rollover"
	"github.com/julianstephens/focusblocks/internal/storage"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock used for the calendar day and task IDs.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithRewards replaces the reward table.
func WithRewards(rules []models.RewardRule) Option {
	return func(t *Tracker) {
		t.rules = append([]models.RewardRule(nil), rules...)
		models.SortRewards(t.rules)
	}
}

// WithNotifier registers a callback receiving the congratulatory message of
// every successful claim.
func WithNotifier(fn func(string)) Option {
	return func(t *Tracker) {
		t.notify = fn
	}
}

// Tracker is the single writer of the task collection and reward history.
// It is not safe for concurrent use.
type Tracker struct {
	store  storage.Provider
	now    func() time.Time
	rules  []models.RewardRule
	notify func(string)

	today   string
	tasks   []models.Task
	history models.RewardHistory
	claimed models.ClaimedRewards
	lastID  int64
	lastErr error
}

// Open reads both entries from store (substituting empty defaults for absent
// or malformed data), reconciles them against today, and writes the result
// back. A nil store yields a non-persistent session.
func Open(store storage.Provider, opts ...Option) *Tracker {
	if store == nil {
		store = storage.NewMemoryStore()
	}

	t := &Tracker{
		store: store,
		now:   time.Now,
		rules: models.DefaultRewards(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.tasks = t.readTasks()
	t.history = t.readHistory()
	for _, task := range t.tasks {
		if task.ID > t.lastID {
			t.lastID = task.ID
		}
	}

	t.reconcile(constants.Today(t.now()))
	return t
}

func (t *Tracker) readTasks() []models.Task {
	data, err := t.store.Get(constants.TasksKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read tasks, starting empty", "error", err)
		}
		return []models.Task{}
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		logger.Warn("Stored tasks are malformed, starting empty", "error", err)
		return []models.Task{}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks
}

func (t *Tracker) readHistory() models.RewardHistory {
	data, err := t.store.Get(constants.ClaimedRewardsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read claimed rewards, starting empty", "error", err)
		}
		return models.RewardHistory{}
	}

	var history models.RewardHistory
	if err := json.Unmarshal(data, &history); err != nil {
		logger.Warn("Stored claimed rewards are malformed, starting empty", "error", err)
		return models.RewardHistory{}
	}
	if history == nil {
		history = models.RewardHistory{}
	}
	return history
}

// reconcile runs rollover for day, selects day's claims, and flushes.
func (t *Tracker) reconcile(day string) {
	res := rollover.Run(t.tasks, t.history, day)
	t.today = day
	t.tasks = res.Tasks
	t.claimed = res.Claimed
	t.history[day] = t.claimed

	logger.Debug("Reconciled tasks", "day", day, "tasks", len(t.tasks), "carried", res.Carried)
	t.flush()
}

// flush writes the complete task collection and reward history.
func (t *Tracker) flush() {
	t.lastErr = nil

	tasks, err := json.Marshal(t.tasks)
	if err == nil {
		err = t.store.Put(constants.TasksKey, tasks)
	}
	if err != nil {
		t.fail(fmt.Errorf("failed to save tasks: %w", err))
	}

	history, err := json.Marshal(t.history)
	if err == nil {
		err = t.store.Put(constants.ClaimedRewardsKey, history)
	}
	if err != nil {
		t.fail(fmt.Errorf("failed to save claimed rewards: %w", err))
	}
}

func (t *Tracker) fail(err error) {
	logger.Warn("Persistence write failed", "error", err)
	if t.lastErr == nil {
		t.lastErr = err
	}
}

// LastError returns the first persistence failure of the most recent write,
// or nil. Failures never abort an operation; this lets callers report them.
func (t *Tracker) LastError() error {
	return t.lastErr
}

// Today returns the calendar day the state is currently reconciled to.
func (t *Tracker) Today() string {
	return t.today
}

// Sync re-runs rollover when the wall clock has moved to a new calendar day
// since the last reconciliation, and reports whether it did.
func (t *Tracker) Sync() bool {
	day := constants.Today(t.now())
	if day == t.today {
		return false
	}
	logger.Info("Calendar day changed", "from", t.today, "to", day)
	t.reconcile(day)
	return true
}

// StorePath identifies where state is persisted.
func (t *Tracker) StorePath() string {
	return t.store.GetConfigPath()
}
