package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habits/internal/backup"
	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/validation"
)

// schemaValidator is implemented by the SQL-backed stores.
type schemaValidator interface {
	ValidateSchema() error
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.printf("✓ %s: OK\n", name)
	}

	habits, loadErr := ctx.Store.Load()
	report("Data store reachable", loadErr)

	if v, ok := ctx.Store.(schemaValidator); ok && loadErr == nil {
		report("Schema version", v.ValidateSchema())
	}

	if loadErr == nil {
		report("Habit integrity", checkIntegrity(habits, time.Now()))
	} else {
		ctx.println("⊘ Habit integrity: SKIPPED (data store not reachable)")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		ctx.println("⚠ Backups present: WARNING")
		ctx.printf("   %v\n", err)
	} else {
		ctx.println("✓ Backups present: OK")
	}

	report("Clock/timezone", checkClockTimezone())

	ctx.println()
	if hasError {
		return errors.New("some checks failed")
	}
	ctx.println("All checks passed.")
	return nil
}

// checkIntegrity reports records no tracker operation could have produced.
func checkIntegrity(habits []models.Habit, now time.Time) error {
	result := validation.New().WithNow(now).ValidateHabits(habits)
	if !result.HasConflicts() {
		return nil
	}
	return errors.New(strings.ReplaceAll(strings.TrimSpace(result.FormatReport()), "\n", "\n     "))
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.BackupManager()
	if errors.Is(err, backup.ErrUnsupported) {
		return errors.New("backups are not managed for PostgreSQL; use pg_dump")
	}
	if err != nil {
		return err
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups in %s (run 'habits backup create')", mgr.GetBackupDir())
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if name, _ := now.Zone(); name == "" {
		return errors.New("local timezone has no name")
	}
	return nil
}
