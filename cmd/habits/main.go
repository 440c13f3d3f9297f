package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habits/internal/cli"
	"github.com/julianstephens/habits/internal/config"
	"github.com/julianstephens/habits/internal/constants"
	"github.com/julianstephens/habits/internal/errors"
	"github.com/julianstephens/habits/internal/logger"
	"github.com/julianstephens/habits/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config}"`
	Data    string `help:"Data file (.json, .db) or postgres:// URL; overrides data_file." placeholder:"PATH"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habits storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      cli.AddCmd      `cmd:"" help:"Create a habit."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit."`
	Complete cli.CompleteCmd `cmd:"" help:"Mark a habit as completed."`
	List     cli.ListCmd     `cmd:"" help:"List habits."`
	Streak   cli.StreakCmd   `cmd:"" help:"Show the streak of one habit."`
	Longest  cli.LongestCmd  `cmd:"" help:"Show the habit with the longest streak."`
	Broken   cli.BrokenCmd   `cmd:"" help:"Find broken habits and reset their streaks."`
	Stats    cli.StatsCmd    `cmd:"" help:"Summarize tracked habits."`
	Reset    cli.ResetCmd    `cmd:"" help:"Delete all habits."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run diagnostics on the data store."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the data file."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the data file from a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily and weekly habits and their streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version": constants.Version,
			"config":  config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: filepath.Dir(CLI.Config)}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	location, trusted := dataLocation(cfg)
	cfg.DataFile = location

	var store storage.Provider
	if strings.HasPrefix(kctx.Command(), "keyring") {
		// keyring commands must work while the configured store is unreachable
		store = storage.NewJSONStore(location)
	} else {
		store, err = storage.Open(location, trusted)
		if err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(store, cfg)
	appCtx.ConfigPath = CLI.Config

	err = kctx.Run(appCtx)
	if closeErr := appCtx.Tracker.Close(); closeErr != nil {
		logger.Warn("Failed to close data store", "error", closeErr)
	}
	if err != nil {
		errors.Fatal(err)
	}
	logger.Close()
}

// dataLocation resolves where habits live. The --data flag wins, then
// HABITS_DB_CONNECTION, then data_file from config. Only locations that
// did not come from the command line may embed a password.
func dataLocation(cfg *config.Config) (string, bool) {
	if CLI.Data != "" {
		if expanded, err := config.ExpandPath(CLI.Data); err == nil {
			return expanded, false
		}
		return CLI.Data, false
	}
	if conn := os.Getenv(constants.EnvConnection); conn != "" {
		return conn, true
	}
	return cfg.DataFile, true
}
