package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habits/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Tracker, ctx.Analytics), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
