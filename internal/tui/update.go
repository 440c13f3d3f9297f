package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, status line, help footer and padding
		h, v := docStyle.GetFrameSize()
		m.habitList.SetSize(msg.Width-h, msg.Height-v-4)
		m.statsModel.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		cmd := m.updateAddHabit(msg)
		return m, cmd
	case StateConfirmDelete:
		cmd := m.updateConfirm(msg, func() {
			task := m.habitToDelete
			m.habitToDelete = ""
			m.setResult("Deleted "+task, m.tracker.DeleteHabit(task))
		})
		return m, cmd
	case StateConfirmReset:
		cmd := m.updateConfirm(msg, func() {
			m.setResult("All habits removed", m.tracker.ResetAll())
		})
		return m, cmd
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	}
	return m, cmd
}

// handleHabitMessages applies the actions requested by the habit list.
func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{Periodicity: models.PeriodicityDaily}
		m.form = NewHabitForm(m.habitForm)
		m.err = ""
		m.state = StateAddHabit
		return true, m.form.Init()

	case habitlist.CompleteHabitMsg:
		habit, ok, err := m.tracker.CompleteTask(msg.Task)
		switch {
		case err != nil:
			m.setResult("", err)
		case !ok:
			m.setResult("", fmt.Errorf("habit %q no longer exists", msg.Task))
		default:
			m.setResult(fmt.Sprintf("Completed %s (streak %d)", habit.Task, habit.Streak), nil)
		}
		m.refresh()
		return true, nil

	case habitlist.DeleteHabitMsg:
		m.habitToDelete = msg.Task
		m.state = StateConfirmDelete
		return true, nil

	case habitlist.CheckBrokenMsg:
		broken, err := m.analytics.GetBrokenHabits()
		if err == nil {
			m.statsModel.SetBroken(broken)
			if len(broken) == 0 {
				m.setResult("No broken habits", nil)
			} else {
				names := make([]string, len(broken))
				for i, h := range broken {
					names[i] = h.Task
				}
				m.setResult("Streaks reset: "+strings.Join(names, ", "), nil)
			}
		} else {
			m.setResult("", err)
		}
		m.refresh()
		return true, nil

	case habitlist.ResetAllMsg:
		m.state = StateConfirmReset
		return true, nil
	}
	return false, nil
}

func (m *Model) updateAddHabit(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.err = ""
		m.state = StateHabits
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitHabitForm()
	case huh.StateAborted:
		m.state = StateHabits
	}
	return cmd
}

// submitHabitForm creates the habit from the form. On failure the form
// is reopened so the user can fix the name or cancel with esc.
func (m *Model) submitHabitForm() {
	habit, err := m.tracker.CreateHabit(strings.TrimSpace(m.habitForm.Task), m.habitForm.Periodicity)
	if err != nil {
		m.err = err.Error()
		m.form.State = huh.StateNormal
		return
	}
	m.setResult(fmt.Sprintf("Added %s habit %s", habit.Periodicity, habit.Task), nil)
	m.refresh()
	m.state = StateHabits
}

// updateConfirm runs action on y and returns to the habit list on y or n.
func (m *Model) updateConfirm(msg tea.Msg, action func()) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			action()
			m.refresh()
			m.state = StateHabits
		case "n", "N", "esc":
			m.habitToDelete = ""
			m.state = StateHabits
		}
	}
	return nil
}
