package habitlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habits/internal/models"
)

type AddHabitMsg struct{}

type CompleteHabitMsg struct {
	Task string
}

type DeleteHabitMsg struct {
	Task string
}

type CheckBrokenMsg struct{}

type ResetAllMsg struct{}

type Item struct {
	Habit  models.Habit
	Broken bool
}

func (i Item) Title() string {
	if i.Broken {
		return "✗ " + i.Habit.Task
	}
	if i.Habit.IsCompleted() {
		return "✓ " + i.Habit.Task
	}
	return "○ " + i.Habit.Task
}

func (i Item) Description() string {
	last := "never completed"
	if i.Habit.IsCompleted() {
		last = "last " + i.Habit.CompletedAt.String()
	}
	desc := fmt.Sprintf("%s | streak %d | %s", i.Habit.Periodicity, i.Habit.Streak, last)
	if i.Broken {
		desc += " | broken"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Task }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
	Delete   key.Binding
	Broken   key.Binding
	Reset    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c/space", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Broken: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "check broken"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset all"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, now time.Time, width, height int) Model {
	l := list.New(toItems(habits, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Delete, keys.Broken}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Delete, keys.Broken, keys.Reset}
	}

	return Model{list: l, keys: keys}
}

func toItems(habits []models.Habit, now time.Time) []list.Item {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, Broken: h.IsBroken(now)}
	}
	return items
}

func (m *Model) SetHabits(habits []models.Habit, now time.Time) {
	m.list.SetItems(toItems(habits, now))
}

// Selected returns the highlighted habit.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Habit, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CompleteHabitMsg{Task: h.Task} }
			}
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{Task: h.Task} }
			}
		case key.Matches(msg, m.keys.Broken):
			return m, func() tea.Msg { return CheckBrokenMsg{} }
		case key.Matches(msg, m.keys.Reset):
			return m, func() tea.Msg { return ResetAllMsg{} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
