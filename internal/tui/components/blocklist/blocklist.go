// Package blocklist renders one block's tasks for today as a selectable list.
package blocklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusblocks/internal/constants"
	"github.com/julianstephens/focusblocks/internal/models"
)

type AddTaskMsg struct {
	Block models.Block
}

type ToggleTaskMsg struct {
	ID int64
}

type DeleteTaskMsg struct {
	ID int64
}

var doneStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("240"))

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	if i.Task.Completed {
		return "✓ " + doneStyle.Render(i.Task.Text)
	}
	return "○ " + i.Task.Text
}

func (i Item) Description() string {
	if i.Task.Completed {
		return fmt.Sprintf("done · +%d points", constants.PointsPerTask)
	}
	return "to do"
}

func (i Item) FilterValue() string { return i.Task.Text }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	info models.BlockInfo
	list list.Model
	keys KeyMap
}

func New(info models.BlockInfo, tasks []models.Task, width, height int) Model {
	l := list.New(toItems(tasks), list.NewDefaultDelegate(), width, height)
	l.Title = info.Name
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	// q and ? belong to the main model.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	return Model{info: info, list: l, keys: DefaultKeyMap()}
}

func toItems(tasks []models.Task) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Task: t}
	}
	return items
}

func (m Model) Block() models.BlockInfo {
	return m.info
}

func (m *Model) SetTasks(tasks []models.Task) {
	m.list.SetItems(toItems(tasks))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the highlighted task, if any.
func (m Model) Selected() (models.Task, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Task, true
	}
	return models.Task{}, false
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			block := m.info.Block
			return m, func() tea.Msg { return AddTaskMsg{Block: block} }
		case key.Matches(msg, m.keys.Toggle):
			if task, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleTaskMsg{ID: task.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if task, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteTaskMsg{ID: task.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No tasks yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
