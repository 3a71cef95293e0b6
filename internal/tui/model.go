package tui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/models"
	"github.com/julianstephens/focusblocks/internal/tracker"
	"github.com/julianstephens/focusblocks/internal/tui/components/blocklist"
)

type TaskFormModel struct {
	Text  string
	Block models.Block
}

type ClaimFormModel struct {
	Threshold int
}

// syncMsg fires once per SyncInterval so a session left open across
// midnight rolls over.
type syncMsg time.Time

type Model struct {
	tracker       *tracker.Tracker
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	progress      progress.Model
	lists         []blocklist.Model
	active        int
	form          *huh.Form
	taskForm      *TaskFormModel
	claimForm     *ClaimFormModel
	taskToDelete  int64
	celebration   string
	status        string
	quitting      bool
	width         int
	height        int
}

func NewModel(tr *tracker.Tracker) Model {
	m := Model{
		tracker:  tr,
		state:    constants.StateBlocks,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	for _, info := range models.Blocks() {
		m.lists = append(m.lists, blocklist.New(info, nil, 0, 0))
	}
	m.refresh()
	return m
}

// refresh reloads every block list from the tracker and records any
// persistence failure of the last write.
func (m *Model) refresh() {
	for i := range m.lists {
		m.lists[i].SetTasks(slices.Collect(m.tracker.TasksForBlock(m.lists[i].Block().Block)))
	}
	if err := m.tracker.LastError(); err != nil {
		m.status = "⚠ Changes may not be saved: " + err.Error()
	}
}

func (m Model) activeBlock() models.BlockInfo {
	return m.lists[m.active].Block()
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateConfirmDelete:
		return []key.Binding{m.keys.Yes, m.keys.No}
	case constants.StateBlocks:
		return m.keys.ShortHelp()
	}
	return nil
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state != constants.StateBlocks {
		return [][]key.Binding{m.ShortHelp()}
	}
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tickSync()
}

func tickSync() tea.Cmd {
	return tea.Tick(constants.SyncInterval, func(t time.Time) tea.Msg {
		return syncMsg(t)
	})
}
