package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/logger"
	"github.com/julianstephens/focusblocks/internal/models"
	"github.com/julianstephens/focusblocks/internal/tui/components/blocklist"
)

// headerHeight is the number of lines above the block list.
const headerHeight = 14

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-16, 10)
		for i := range m.lists {
			m.lists[i].SetSize(max(msg.Width-4, 0), max(msg.Height-headerHeight, 3))
		}
		return m, nil

	case syncMsg:
		if m.tracker.Sync() {
			m.refresh()
		}
		return m, tickSync()
	}

	switch m.state {
	case constants.StateAddTask:
		return m.updateAddTask(msg)
	case constants.StateClaimReward:
		return m.updateClaimReward(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case constants.StateCelebrate:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.celebration = ""
			m.state = constants.StateBlocks
		}
		return m, nil
	}

	return m.updateBlocks(msg)
}

func (m Model) updateBlocks(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.active = (m.active + 1) % len(m.lists)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.active = (m.active - 1 + len(m.lists)) % len(m.lists)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Claim):
			return m.startClaim()
		}

	case blocklist.AddTaskMsg:
		return m.startAddTask(msg.Block)

	case blocklist.ToggleTaskMsg:
		m.toggle(msg.ID)
		return m, nil

	case blocklist.DeleteTaskMsg:
		m.taskToDelete = msg.ID
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.lists[m.active], cmd = m.lists[m.active].Update(msg)
	return m, cmd
}

func (m *Model) toggle(id int64) {
	task, ok := m.tracker.ToggleTask(id)
	if !ok {
		return
	}
	logger.Debug("Toggled task from view", "id", id, "completed", task.Completed)
	m.status = ""
	m.refresh()
}

func (m Model) startAddTask(block models.Block) (tea.Model, tea.Cmd) {
	m.taskForm = &TaskFormModel{Block: block}
	m.form = newTaskForm(m.taskForm)
	m.previousState = m.state
	m.state = constants.StateAddTask
	return m, m.form.Init()
}

func (m Model) updateAddTask(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.addTask(m.taskForm.Text, m.taskForm.Block)
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) addTask(text string, block models.Block) {
	if _, ok := m.tracker.AddTask(text, block); !ok {
		return
	}
	for i := range m.lists {
		if m.lists[i].Block().Block == block {
			m.active = i
		}
	}
	m.status = ""
	m.refresh()
}

func (m Model) startClaim() (tea.Model, tea.Cmd) {
	available := m.tracker.AvailableRewards()
	if len(available) == 0 {
		m.status = "No rewards available yet. Keep going!"
		return m, nil
	}

	rules := make([]models.RewardRule, 0, len(available))
	for _, threshold := range available {
		if r, ok := m.tracker.Reward(threshold); ok {
			rules = append(rules, r)
		}
	}
	m.claimForm = &ClaimFormModel{Threshold: available[0]}
	m.form = newClaimForm(m.claimForm, rules)
	m.previousState = m.state
	m.state = constants.StateClaimReward
	return m, m.form.Init()
}

func (m Model) updateClaimReward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.claim(m.claimForm.Threshold)
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

// claim records the reward and opens the celebration modal; refusals are
// shown on the status line.
func (m *Model) claim(threshold int) {
	msg, err := m.tracker.ClaimReward(threshold)
	if err != nil {
		m.status = "⚠ " + err.Error()
		m.state = constants.StateBlocks
		return
	}
	m.status = ""
	m.refresh()
	m.celebration = msg
	m.state = constants.StateCelebrate
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		if m.tracker.DeleteTask(m.taskToDelete) {
			m.status = ""
			m.refresh()
		}
		m.taskToDelete = 0
		m.state = m.previousState
	case key.Matches(keyMsg, m.keys.No):
		m.taskToDelete = 0
		m.state = m.previousState
	}
	return m, nil
}
