package tracker

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/models"
	"github.com/julianstephens/focusblocks/internal/storage"
	"github.com/julianstephens/focusblocks/internal/storage/mocks"
)

// fakeClock is a settable wall clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, time.October, 16, 9, 30, 0, 0, time.Local)}
}

func openTest(t *testing.T, store storage.Provider, clock *fakeClock) *Tracker {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	return Open(store, WithClock(clock.Now))
}

func seed(t *testing.T, store storage.Provider, tasks []models.Task, history models.RewardHistory) {
	t.Helper()
	if tasks != nil {
		data, err := json.Marshal(tasks)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.Put(constants.TasksKey, data); err != nil {
			t.Fatal(err)
		}
	}
	if history != nil {
		data, err := json.Marshal(history)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.Put(constants.ClaimedRewardsKey, data); err != nil {
			t.Fatal(err)
		}
	}
}

func blockTasks(tr *Tracker, b models.Block) []models.Task {
	return slices.Collect(tr.TasksForBlock(b))
}

func TestOpenEmptyStore(t *testing.T) {
	tr := openTest(t, nil, newClock())

	if tr.Today() != "Fri Oct 16 2026" {
		t.Errorf("Today() = %q", tr.Today())
	}
	if got := tr.Progress(); got != (models.Progress{}) {
		t.Errorf("Progress() = %+v, want zero", got)
	}
	if got := tr.AvailableRewards(); len(got) != 0 {
		t.Errorf("AvailableRewards() = %v, want none", got)
	}
}

func TestOpenNilStore(t *testing.T) {
	tr := Open(nil)
	if tr.StorePath() != constants.MemoryConfig {
		t.Errorf("StorePath() = %q, want memory", tr.StorePath())
	}
	if _, ok := tr.AddTask("works without storage", models.BlockMorning); !ok {
		t.Error("AddTask failed on in-memory session")
	}
}

func TestAddTask(t *testing.T) {
	tr := openTest(t, nil, newClock())

	task, ok := tr.AddTask("  write report  ", models.BlockMorning)
	if !ok {
		t.Fatal("AddTask returned false")
	}
	if task.Text != "write report" {
		t.Errorf("text = %q, want trimmed", task.Text)
	}
	if task.Completed {
		t.Error("new task is completed")
	}
	if task.Date != tr.Today() {
		t.Errorf("date = %q, want %q", task.Date, tr.Today())
	}
	if task.Block != models.BlockMorning {
		t.Errorf("block = %q", task.Block)
	}
	if got := tr.Progress().Total; got != 1 {
		t.Errorf("Total = %d, want 1", got)
	}
}

func TestAddTaskRejectsEmptyText(t *testing.T) {
	tr := openTest(t, nil, newClock())
	tr.AddTask("keep", models.BlockEvening)
	before := tr.Tasks()

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, ok := tr.AddTask(text, models.BlockMorning); ok {
			t.Errorf("AddTask(%q) returned true", text)
		}
	}
	if _, ok := tr.AddTask("valid", models.Block("afternoon")); ok {
		t.Error("AddTask with unknown block returned true")
	}

	if !reflect.DeepEqual(before, tr.Tasks()) {
		t.Errorf("collection changed: %+v", tr.Tasks())
	}
}

func TestAddTaskCountProperty(t *testing.T) {
	tr := openTest(t, nil, newClock())
	texts := []string{"a", " b", "c ", "日本語", "with  inner  spaces", "x\ty"}

	for i, text := range texts {
		block := models.Blocks()[i%3].Block
		before := tr.Progress().Total
		task, ok := tr.AddTask(text, block)
		if !ok {
			t.Fatalf("AddTask(%q) failed", text)
		}
		if tr.Progress().Total != before+1 {
			t.Errorf("AddTask(%q) did not increase count by one", text)
		}
		if task.Completed {
			t.Errorf("AddTask(%q) created a completed task", text)
		}
	}
}

func TestTaskIDsAreUniqueAndIncreasing(t *testing.T) {
	clock := newClock()
	tr := openTest(t, nil, clock)

	// Same millisecond for every add.
	var ids []int64
	for i := 0; i < 5; i++ {
		task, _ := tr.AddTask("same instant", models.BlockMorning)
		ids = append(ids, task.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("IDs not strictly increasing: %v", ids)
		}
	}
	if ids[0] != clock.t.UnixMilli() {
		t.Errorf("first ID = %d, want creation time %d", ids[0], clock.t.UnixMilli())
	}
}

func TestTaskIDsContinueAfterStoredTasks(t *testing.T) {
	store := storage.NewMemoryStore()
	clock := newClock()
	future := clock.t.Add(time.Hour).UnixMilli()
	seed(t, store, []models.Task{{ID: future, Text: "x", Block: models.BlockMorning, Date: "Fri Oct 16 2026"}}, nil)

	tr := openTest(t, store, clock)
	task, _ := tr.AddTask("next", models.BlockMorning)
	if task.ID != future+1 {
		t.Errorf("ID = %d, want %d", task.ID, future+1)
	}
}

func TestToggleTask(t *testing.T) {
	tr := openTest(t, nil, newClock())
	task, _ := tr.AddTask("toggle me", models.BlockEvening)

	toggled, ok := tr.ToggleTask(task.ID)
	if !ok || !toggled.Completed {
		t.Fatalf("first toggle: ok=%v completed=%v", ok, toggled.Completed)
	}
	toggled, ok = tr.ToggleTask(task.ID)
	if !ok || toggled.Completed != task.Completed {
		t.Errorf("toggling twice did not restore completion: %+v", toggled)
	}

	before := tr.Tasks()
	if _, ok := tr.ToggleTask(12345); ok {
		t.Error("toggle of missing ID returned true")
	}
	if !reflect.DeepEqual(before, tr.Tasks()) {
		t.Error("toggle of missing ID changed the collection")
	}
}

func TestDeleteTask(t *testing.T) {
	tr := openTest(t, nil, newClock())
	a, _ := tr.AddTask("a", models.BlockMorning)
	b, _ := tr.AddTask("b", models.BlockMorning)
	c, _ := tr.AddTask("c", models.BlockMorning)

	if !tr.DeleteTask(b.ID) {
		t.Fatal("DeleteTask returned false")
	}
	got := tr.Tasks()
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != c.ID {
		t.Errorf("after delete: %+v", got)
	}

	if tr.DeleteTask(b.ID) {
		t.Error("deleting an absent ID returned true")
	}
	if len(tr.Tasks()) != 2 {
		t.Error("deleting an absent ID changed the collection")
	}
}

func TestTasksForBlockOrderAndRestart(t *testing.T) {
	tr := openTest(t, nil, newClock())
	m1, _ := tr.AddTask("m1", models.BlockMorning)
	tr.AddTask("e1", models.BlockEvening)
	m2, _ := tr.AddTask("m2", models.BlockMorning)

	seq := tr.TasksForBlock(models.BlockMorning)
	first := slices.Collect(seq)
	if len(first) != 2 || first[0].ID != m1.ID || first[1].ID != m2.ID {
		t.Fatalf("morning tasks = %+v", first)
	}

	// Restartable and lazy: ranging again sees later additions.
	m3, _ := tr.AddTask("m3", models.BlockMorning)
	second := slices.Collect(seq)
	if len(second) != 3 || second[2].ID != m3.ID {
		t.Errorf("second pass = %+v", second)
	}

	// Early termination.
	count := 0
	for range seq {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break visited %d tasks", count)
	}

	if got := blockTasks(tr, models.BlockLateNight); len(got) != 0 {
		t.Errorf("late night tasks = %+v", got)
	}
}

func TestRolloverOnOpen(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, []models.Task{
		{ID: 1, Text: "carry me", Block: models.BlockMorning, Date: "Thu Oct 15 2026"},
	}, nil)

	tr := openTest(t, store, newClock())

	got := blockTasks(tr, models.BlockMorning)
	if len(got) != 1 {
		t.Fatalf("morning tasks = %+v", got)
	}
	if got[0].Date != "Fri Oct 16 2026" || got[0].Completed || got[0].Block != models.BlockMorning {
		t.Errorf("carried task = %+v", got[0])
	}

	// Reconciled state is written back.
	data, _ := store.Get(constants.TasksKey)
	var stored []models.Task
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatal(err)
	}
	if stored[0].Date != "Fri Oct 16 2026" {
		t.Errorf("stored date = %q", stored[0].Date)
	}
}

func TestCompletedTaskFromPreviousDayIsHidden(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, []models.Task{
		{ID: 1, Text: "done yesterday", Block: models.BlockEvening, Completed: true, Date: "Thu Oct 15 2026"},
	}, nil)

	tr := openTest(t, store, newClock())

	if got := blockTasks(tr, models.BlockEvening); len(got) != 0 {
		t.Errorf("completed task from yesterday visible today: %+v", got)
	}
	if tr.Progress().Total != 0 {
		t.Errorf("Total = %d, want 0", tr.Progress().Total)
	}
	// Still retained in storage.
	if all := tr.Tasks(); len(all) != 1 || all[0].Date != "Thu Oct 15 2026" {
		t.Errorf("stored tasks = %+v", all)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, []models.Task{
		{ID: 1, Text: "a", Block: models.BlockMorning, Date: "Wed Oct 14 2026"},
		{ID: 2, Text: "b", Block: models.BlockEvening, Completed: true, Date: "Wed Oct 14 2026"},
	}, nil)

	clock := newClock()
	first := openTest(t, store, clock).Tasks()
	second := openTest(t, store, clock).Tasks()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second open differs:\n%+v\n%+v", first, second)
	}
}

func TestSyncAcrossMidnight(t *testing.T) {
	clock := newClock()
	tr := openTest(t, nil, clock)

	open, _ := tr.AddTask("unfinished", models.BlockLateNight)
	done, _ := tr.AddTask("finished", models.BlockLateNight)
	tr.ToggleTask(done.ID)
	tr.AddTask("other", models.BlockMorning)
	tr.ToggleTask(open.ID)
	tr.ToggleTask(open.ID)
	// 1 of 3 done
	if tr.Sync() {
		t.Error("Sync reported a day change on the same day")
	}

	clock.t = clock.t.Add(24 * time.Hour)
	if !tr.Sync() {
		t.Fatal("Sync did not detect the new day")
	}
	if tr.Today() != "Sat Oct 17 2026" {
		t.Errorf("Today() = %q", tr.Today())
	}

	got := blockTasks(tr, models.BlockLateNight)
	if len(got) != 1 || got[0].ID != open.ID {
		t.Errorf("late night after rollover = %+v", got)
	}
	if p := tr.Progress(); p.Total != 2 || p.Completed != 0 {
		t.Errorf("progress after rollover = %+v", p)
	}
	if len(tr.Claimed()) != 0 {
		t.Errorf("claims leaked into the new day: %v", tr.Claimed())
	}
}

func TestMalformedStorageFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name    string
		tasks   string
		rewards string
	}{
		{name: "not json", tasks: "{oops", rewards: "nope"},
		{name: "wrong shape", tasks: `{"id":1}`, rewards: `[1,2,3]`},
		{name: "null", tasks: "null", rewards: "null"},
		{name: "non-numeric threshold", tasks: "[]", rewards: `{"Fri Oct 16 2026":{"fifty":true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			_ = store.Put(constants.TasksKey, []byte(tt.tasks))
			_ = store.Put(constants.ClaimedRewardsKey, []byte(tt.rewards))

			tr := openTest(t, store, newClock())
			if len(tr.Tasks()) != 0 {
				t.Errorf("tasks = %+v, want empty", tr.Tasks())
			}
			if len(tr.Claimed()) != 0 {
				t.Errorf("claimed = %v, want empty", tr.Claimed())
			}

			// The defaults are written back as well-formed JSON.
			data, _ := store.Get(constants.TasksKey)
			if string(data) != "[]" {
				t.Errorf("stored tasks = %s, want []", data)
			}
		})
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusblocks.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	clock := newClock()
	tr := openTest(t, store, clock)
	a, _ := tr.AddTask("a", models.BlockMorning)
	tr.AddTask("b", models.BlockEvening)
	tr.ToggleTask(a.ID)
	if _, err := tr.ClaimReward(50); err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}

	reloaded := storage.NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	again := openTest(t, reloaded, clock)
	if !reflect.DeepEqual(tr.Tasks(), again.Tasks()) {
		t.Errorf("tasks differ after reload:\n%+v\n%+v", tr.Tasks(), again.Tasks())
	}
	if !reflect.DeepEqual(again.Claimed(), models.ClaimedRewards{50: true}) {
		t.Errorf("claimed after reload = %v", again.Claimed())
	}

	// Wire format keys thresholds by their decimal string.
	raw, _ := reloaded.Get(constants.ClaimedRewardsKey)
	var wire map[string]map[string]bool
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatal(err)
	}
	if !wire["Fri Oct 16 2026"]["50"] {
		t.Errorf("wire format = %s", raw)
	}
}

func TestEveryMutationWritesBothEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProvider(ctrl)

	store.EXPECT().Get(constants.TasksKey).Return(nil, storage.ErrNotFound)
	store.EXPECT().Get(constants.ClaimedRewardsKey).Return(nil, storage.ErrNotFound)

	// Open + add + toggle + delete: four full writes, tasks before rewards.
	for i := 0; i < 4; i++ {
		gomock.InOrder(
			store.EXPECT().Put(constants.TasksKey, gomock.Any()).Return(nil),
			store.EXPECT().Put(constants.ClaimedRewardsKey, gomock.Any()).Return(nil),
		)
	}

	tr := Open(store, WithClock(newClock().Now))
	task, _ := tr.AddTask("mocked", models.BlockMorning)
	tr.ToggleTask(task.ID)
	tr.DeleteTask(task.ID)

	// No-ops never write.
	tr.AddTask("   ", models.BlockMorning)
	tr.ToggleTask(999)
	tr.DeleteTask(999)
}

func TestWriteFailuresAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProvider(ctrl)
	boom := errors.New("disk full")

	store.EXPECT().Get(gomock.Any()).Return(nil, errors.New("unreadable")).Times(2)
	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(boom).AnyTimes()

	tr := Open(store, WithClock(newClock().Now))
	if !errors.Is(tr.LastError(), boom) {
		t.Errorf("LastError() = %v, want %v", tr.LastError(), boom)
	}

	task, ok := tr.AddTask("still works", models.BlockMorning)
	if !ok {
		t.Fatal("AddTask failed when storage writes fail")
	}
	if got := blockTasks(tr, models.BlockMorning); len(got) != 1 || got[0].ID != task.ID {
		t.Errorf("in-memory state lost: %+v", got)
	}
}

func newMemory() *storage.MemoryStore {
	return storage.NewMemoryStore()
}
