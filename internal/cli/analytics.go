package cli

import (
	"fmt"

	"github.com/julianstephens/habits/internal/models"
)

type LongestCmd struct {
	JSON bool `help:"Print the result as JSON." name:"json"`
}

func (c *LongestCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	record, ok := ctx.Analytics.GetLongestStreakOverall()
	if c.JSON {
		if !ok {
			return ctx.writeJSON(nil)
		}
		return ctx.writeJSON(record)
	}

	if !ok {
		ctx.println("No habits tracked yet")
		return nil
	}
	ctx.printf("Longest streak: %s\n", record)
	return nil
}

type BrokenCmd struct {
	DryRun bool `help:"Only report broken habits; keep their streaks." name:"dry-run"`
	JSON   bool `help:"Print broken habits as JSON." name:"json"`
}

func (c *BrokenCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	var broken []models.Habit
	if c.DryRun {
		broken = ctx.Tracker.DetectBroken()
	} else {
		var err error
		broken, err = ctx.Analytics.GetBrokenHabits()
		if err != nil {
			return fmt.Errorf("failed to check broken habits: %w", err)
		}
	}

	if c.JSON {
		return ctx.writeJSON(broken)
	}

	if len(broken) == 0 {
		ctx.println("✓ No broken habits")
		return nil
	}

	verb := "reset to 0"
	if c.DryRun {
		verb = "would be reset"
	}
	ctx.printf("Broken habits (%d, streaks %s):\n", len(broken), verb)
	for _, h := range broken {
		ctx.printf("  %s\n", FormatHabit(h))
	}
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	s := ctx.Analytics.Summary()
	ctx.printf("Habits tracked:   %d (%d daily, %d weekly)\n", s.Total, s.Daily, s.Weekly)
	ctx.printf("Never completed:  %d\n", s.NeverCompleted)
	ctx.printf("Currently broken: %d\n", s.Broken)
	if s.HasLongest {
		ctx.printf("Longest streak:   %s\n", s.Longest)
	}
	return nil
}
