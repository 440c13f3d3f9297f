package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/tracker"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport  viewport.Model
	summary   tracker.Summary
	daily     []models.Habit
	weekly    []models.Habit
	lastReset []models.Habit
	checked   bool
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// Refresh reloads the numbers from the analytics view.
func (m *Model) Refresh(a *tracker.Analytics) {
	m.summary = a.Summary()
	m.daily = a.GetHabitsByPeriodicity(models.PeriodicityDaily)
	m.weekly = a.GetHabitsByPeriodicity(models.PeriodicityWeekly)
	m.Render()
}

// SetBroken records the result of the last broken-habit check.
func (m *Model) SetBroken(broken []models.Habit) {
	m.lastReset = broken
	m.checked = true
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	s := m.summary
	row("Habits tracked", fmt.Sprintf("%d", s.Total))
	row("Daily / weekly", fmt.Sprintf("%d / %d", s.Daily, s.Weekly))
	row("Never completed", fmt.Sprintf("%d", s.NeverCompleted))
	row("Currently broken", fmt.Sprintf("%d", s.Broken))
	if s.HasLongest {
		row("Longest streak", s.Longest.String())
	} else {
		row("Longest streak", "-")
	}

	section := func(title string, habits []models.Habit) {
		b.WriteString(headerStyle.Render(title) + "\n")
		if len(habits) == 0 {
			b.WriteString(mutedStyle.Render("  none") + "\n")
			return
		}
		for _, h := range habits {
			b.WriteString(fmt.Sprintf("  %s: %d\n", h.Task, h.Streak))
		}
	}
	section("Daily", m.daily)
	section("Weekly", m.weekly)

	if m.checked {
		section("Reset by last broken check", m.lastReset)
	}

	m.viewport.SetContent(b.String())
}
