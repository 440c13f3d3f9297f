package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/habits/internal/backup"
	"github.com/julianstephens/habits/internal/config"
	"github.com/julianstephens/habits/internal/logger"
	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/storage"
	"github.com/julianstephens/habits/internal/tracker"
)

type Context struct {
	Store      storage.Provider
	Tracker    *tracker.Tracker
	Analytics  *tracker.Analytics
	Config     *config.Config
	ConfigPath string

	// Out receives command output; nil means os.Stdout.
	Out io.Writer
}

// NewContext wires a tracker and its analytics view around store.
func NewContext(store storage.Provider, cfg *config.Config, opts ...tracker.Option) *Context {
	t := tracker.New(store, opts...)
	return &Context{
		Store:     store,
		Tracker:   t,
		Analytics: tracker.NewAnalytics(t),
		Config:    cfg,
	}
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) writeJSON(v any) error {
	enc := json.NewEncoder(c.out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *Context) maxBackups() int {
	if c.Config == nil {
		return 0
	}
	return c.Config.MaxBackups
}

// BackupManager returns a backup manager for the current data file.
func (c *Context) BackupManager() (*backup.Manager, error) {
	return backup.NewManager(c.Store.GetConfigPath(), backup.WithMaxBackups(c.maxBackups()))
}

// PerformAutomaticBackup snapshots the data file when auto_backup is on.
// Failures are logged, never returned.
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && !c.Config.AutoBackup {
		return
	}
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Automatic backup skipped", "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FormatHabit renders one habit as a single list line.
func FormatHabit(h models.Habit) string {
	last := "never"
	if h.IsCompleted() {
		last = h.CompletedAt.String()
	}
	return fmt.Sprintf("%-24s %-7s streak %-4d last completed %s", h.Task, h.Periodicity, h.Streak, last)
}

// ParsePeriodicity accepts "daily" or "weekly" in any case.
func ParsePeriodicity(s string) (models.Periodicity, error) {
	p := models.Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: got %q", tracker.ErrInvalidPeriodicity, s)
	}
	return p, nil
}
