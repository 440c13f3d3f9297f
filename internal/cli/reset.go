package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	n := len(ctx.Tracker.GetAllHabits())
	if n == 0 {
		// still rewrite the store so a missing data file becomes an empty one
		if err := ctx.Tracker.ResetAll(); err != nil {
			return fmt.Errorf("failed to reset habits: %w", err)
		}
		ctx.println("Nothing to reset")
		return nil
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d habits?", n)).
			Description("A backup is taken first when auto_backup is enabled.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.ResetAll(); err != nil {
		return fmt.Errorf("failed to reset habits: %w", err)
	}

	ctx.printf("✓ Removed %d habits\n", n)
	return nil
}
