package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusblocks/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddTask, constants.StateClaimReward:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateCelebrate:
		content = m.viewCelebrate()
	default:
		content = docStyle.Render(m.lists[m.active].View())
	}

	parts := []string{
		m.viewHeader(),
		m.viewProgress(),
		m.viewRewards(),
		m.viewTabs(),
		content,
	}
	if m.status != "" {
		parts = append(parts, warningStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Daily Focus Blocks"),
		subtitleStyle.Render("Progress over perfection ✨  ·  "+m.tracker.Today()),
	)
}

func (m Model) viewProgress() string {
	p := m.tracker.Progress()
	lines := []string{
		fmt.Sprintf("%d of %d tasks completed", p.Completed, p.Total),
		fmt.Sprintf("%d / %d points  ·  %d%%", p.EarnedPoints, p.TotalPoints, p.Percent),
		m.progress.ViewAs(float64(p.Percent) / 100),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewRewards() string {
	percent := m.tracker.Progress().Percent
	claimed := m.tracker.Claimed()

	var chips []string
	for _, r := range m.tracker.Rewards() {
		label := fmt.Sprintf("%s %s %d%%", r.Emoji, r.Name, r.Threshold)
		switch {
		case claimed[r.Threshold]:
			chips = append(chips, chipStyle(r.Color, true).Render("✓ "+label))
		case percent >= r.Threshold:
			chips = append(chips, chipStyle(r.Color, false).Render("★ "+label))
		default:
			chips = append(chips, lockedChipStyle.Render("🔒 "+label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, l := range m.lists {
		info := l.Block()
		title := fmt.Sprintf("%s %s (%d)", info.Emoji, info.Name, l.Len())
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return lipgloss.JoinVertical(lipgloss.Left, row, subtitleStyle.Render("  "+m.activeBlock().Time))
}

func (m Model) viewConfirmDelete() string {
	text := "this task"
	if task, ok := m.tracker.Task(m.taskToDelete); ok {
		text = fmt.Sprintf("%q", task.Text)
	}
	return lipgloss.Place(m.width, max(m.height-headerHeight, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete "+text+"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewCelebrate() string {
	return lipgloss.Place(m.width, max(m.height-headerHeight, 7),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			modalStyle.Render(m.celebration),
			"",
			subtitleStyle.Render("press any key"),
		),
	)
}
