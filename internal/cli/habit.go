package cli

import (
	"fmt"
	"slices"

	"github.com/julianstephens/habits/internal/models"
)

type AddCmd struct {
	Task        string `arg:"" help:"Name of the habit."`
	Periodicity string `short:"p" help:"How often the habit repeats (daily or weekly)." default:"daily"`
}

func (c *AddCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	p, err := ParsePeriodicity(c.Periodicity)
	if err != nil {
		return err
	}
	habit, err := ctx.Tracker.CreateHabit(c.Task, p)
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}

	ctx.printf("✓ Added %s habit: %s\n", habit.Periodicity, habit.Task)
	return nil
}

type DeleteCmd struct {
	Task string `arg:"" help:"Exact name of the habit to delete."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	exists := slices.ContainsFunc(ctx.Tracker.GetAllHabits(), func(h models.Habit) bool {
		return h.Task == c.Task
	})
	if err := ctx.Tracker.DeleteHabit(c.Task); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	if !exists {
		ctx.printf("No habit named %q (names must match exactly)\n", c.Task)
		return nil
	}
	ctx.printf("✓ Deleted habit: %s\n", c.Task)
	return nil
}

type CompleteCmd struct {
	Task string `arg:"" help:"Exact name of the habit to complete."`
	At   string `help:"Completion time as \"YYYY-MM-DD HH:MM:SS\" (defaults to now)."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	at, err := models.ParseTimestamp(c.At)
	if err != nil {
		return err
	}

	habit, ok, err := ctx.Tracker.CompleteTaskAt(c.Task, at.Time)
	if err != nil {
		return fmt.Errorf("failed to complete habit: %w", err)
	}
	if !ok {
		ctx.printf("No habit named %q (names must match exactly)\n", c.Task)
		return nil
	}

	ctx.printf("✓ Completed %s (streak %d)\n", habit.Task, habit.Streak)
	return nil
}

type ListCmd struct {
	Periodicity string `short:"p" help:"Only show habits with this periodicity (daily or weekly)."`
	JSON        bool   `help:"Print habits as JSON." name:"json"`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	habits := ctx.Analytics.GetAllTrackedHabits()
	if c.Periodicity != "" {
		p, err := ParsePeriodicity(c.Periodicity)
		if err != nil {
			return err
		}
		habits = ctx.Analytics.GetHabitsByPeriodicity(p)
	}

	if c.JSON {
		return ctx.writeJSON(habits)
	}

	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	ctx.println("Habits:")
	for _, h := range habits {
		ctx.printf("  %s\n", FormatHabit(h))
	}
	return nil
}

type StreakCmd struct {
	Task string `arg:"" help:"Name of the habit (case-insensitive)."`
}

func (c *StreakCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.Load(); err != nil {
		return err
	}

	streak, err := ctx.Tracker.GetLongestStreakForHabit(c.Task)
	if err != nil {
		return err
	}

	ctx.printf("%s: %d\n", c.Task, streak)
	return nil
}
