package tracker

import (
	"iter"
	"strings"

	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/models"
)

// nextID derives an ID from the creation time, bumped past the largest ID
// already seen so IDs stay unique within a session.
func (t *Tracker) nextID() int64 {
	id := t.now().UnixMilli()
	if id <= t.lastID {
		id = t.lastID + 1
	}
	t.lastID = id
	return id
}

// AddTask appends a new incomplete task dated today. It does nothing and
// returns false when the trimmed text is empty or the block is unknown.
func (t *Tracker) AddTask(text string, block models.Block) (models.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !block.Valid() {
		return models.Task{}, false
	}

	task := models.Task{
		ID:        t.nextID(),
		Text:      text,
		Block:     block,
		Completed: false,
		Date:      t.today,
	}
	t.tasks = append(t.tasks, task)
	logger.Debug("Added task", "id", task.ID, "block", block)

	t.flush()
	return task, true
}

// ToggleTask flips the completion of the task with the given ID and returns
// the updated task. It does nothing when no such task exists.
func (t *Tracker) ToggleTask(id int64) (models.Task, bool) {
	for i := range t.tasks {
		if t.tasks[i].ID == id {
			t.tasks[i].Completed = !t.tasks[i].Completed
			logger.Debug("Toggled task", "id", id, "completed", t.tasks[i].Completed)
			t.flush()
			return t.tasks[i], true
		}
	}
	return models.Task{}, false
}

// DeleteTask removes the task with the given ID. It does nothing when no
// such task exists.
func (t *Tracker) DeleteTask(id int64) bool {
	for i := range t.tasks {
		if t.tasks[i].ID == id {
			t.tasks = append(t.tasks[:i:i], t.tasks[i+1:]...)
			logger.Debug("Deleted task", "id", id)
			t.flush()
			return true
		}
	}
	return false
}

// Task looks up any stored task by ID, whatever its date.
func (t *Tracker) Task(id int64) (models.Task, bool) {
	for _, task := range t.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return models.Task{}, false
}

// Tasks returns a copy of every stored task, including completed tasks of
// earlier days.
func (t *Tracker) Tasks() []models.Task {
	out := make([]models.Task, len(t.tasks))
	copy(out, t.tasks)
	return out
}

// TodayTasks returns today's tasks in insertion order.
func (t *Tracker) TodayTasks() []models.Task {
	var out []models.Task
	for _, task := range t.tasks {
		if task.Date == t.today {
			out = append(out, task)
		}
	}
	return out
}

// TasksForBlock yields today's tasks in block, in insertion order. The
// sequence reads the live collection each time it is ranged over.
func (t *Tracker) TasksForBlock(block models.Block) iter.Seq[models.Task] {
	return func(yield func(models.Task) bool) {
		for _, task := range t.tasks {
			if task.Date != t.today || task.Block != block {
				continue
			}
			if !yield(task) {
				return
			}
		}
	}
}
