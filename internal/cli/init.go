package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habits/internal/config"
	"github.com/julianstephens/habits/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing data file before initialization."`
	Source string `help:"Data file or connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *Context) error {
	dataPath := ctx.Store.GetConfigPath()
	_, remote := ctx.Store.(*storage.PostgresStore)

	if c.Force && !remote {
		if c.Source != "" && samePath(c.Source, dataPath) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dataPath)
		}
		if _, err := os.Stat(dataPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing data file: %w", err)
			}
			if err := os.Remove(dataPath); err != nil {
				return fmt.Errorf("failed to delete existing data file: %w", err)
			}
			ctx.printf("Deleted existing data file at: %s\n", dataPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing data file: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habits storage at: %s\n", dataPath)

	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) && ctx.Config != nil {
			if err := config.Save(ctx.ConfigPath, ctx.Config); err != nil {
				return err
			}
			ctx.printf("Wrote default config to: %s\n", ctx.ConfigPath)
		}
	}

	if c.Source != "" {
		ctx.printf("Copying habits from: %s\n", c.Source)
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.printf("✓ Copied %d habits\n", n)
	}

	return nil
}

func (c *InitCmd) copyFrom(ctx *Context) (int, error) {
	source, err := storage.Open(c.Source, false)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	habits, err := source.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load source: %w", err)
	}
	if err := ctx.Store.Save(habits); err != nil {
		return 0, fmt.Errorf("failed to save habits to destination: %w", err)
	}
	return len(habits), nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
