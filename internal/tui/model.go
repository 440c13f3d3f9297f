package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/tracker"
	"github.com/julianstephens/habits/internal/tui/components/habitlist"
	"github.com/julianstephens/habits/internal/tui/components/stats"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateStats
	StateAddHabit
	StateConfirmDelete
	StateConfirmReset
)

// tabCount is the number of states reachable with tab.
const tabCount = 2

type HabitFormModel struct {
	Task        string
	Periodicity models.Periodicity
}

type Model struct {
	tracker       *tracker.Tracker
	analytics     *tracker.Analytics
	now           func() time.Time
	state         SessionState
	keys          KeyMap
	help          help.Model
	habitList     habitlist.Model
	statsModel    stats.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	habitToDelete string
	status        string
	err           string
	quitting      bool
	width         int
	height        int
}

func NewModel(t *tracker.Tracker, a *tracker.Analytics) Model {
	m := Model{
		tracker:    t,
		analytics:  a,
		now:        time.Now,
		state:      StateHabits,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		habitList:  habitlist.New(t.GetAllHabits(), time.Now(), 0, 0),
		statsModel: stats.New(0, 0),
	}
	m.statsModel.Refresh(a)
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateHabits {
		keys = append(keys, m.keys.Add, m.keys.Complete, m.keys.Delete, m.keys.Broken)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateHabits {
		actions = []key.Binding{m.keys.Add, m.keys.Complete, m.keys.Delete, m.keys.Broken, m.keys.Reset}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh redraws both tabs from the tracker.
func (m *Model) refresh() {
	m.habitList.SetHabits(m.tracker.GetAllHabits(), m.now())
	m.statsModel.Refresh(m.analytics)
}

func (m *Model) setResult(status string, err error) {
	if err != nil {
		m.err = err.Error()
		m.status = ""
		return
	}
	m.err = ""
	m.status = status
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Value(&fm.Task).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.Periodicity]().
				Title("Periodicity").
				Options(
					huh.NewOption("Daily", models.PeriodicityDaily),
					huh.NewOption("Weekly", models.PeriodicityWeekly),
				).
				Value(&fm.Periodicity),
		),
	).WithTheme(huh.ThemeDracula())
}
