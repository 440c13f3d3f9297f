// Package logger owns the process-wide charmbracelet logger. Records go to
// a rotating file under <dir>/logs; --debug mirrors them to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habits/internal/constants"
)

const (
	maxLogSizeMB  = 5
	maxLogFiles   = 3
	maxLogAgeDays = 30
)

// Logger is the global logger. Nil until Init; every helper tolerates that.
var Logger *log.Logger

var (
	file    *lumberjack.Logger
	discard = log.New(io.Discard)
)

// Config holds logger configuration
type Config struct {
	Debug bool
	// Dir is the config directory; the log file lives in Dir/logs.
	Dir string
	// Mirror receives a copy of every record in debug mode. Nil means stderr.
	Mirror io.Writer
}

// Init opens the log file and installs the global logger. Without Debug
// only warnings and errors are recorded.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	file = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogFiles,
		MaxAge:     maxLogAgeDays,
	}

	var w io.Writer = file
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		mirror := cfg.Mirror
		if mirror == nil {
			mirror = os.Stderr
		}
		w = io.MultiWriter(mirror, file)
	}

	Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
		Prefix:          constants.AppName,
	})
	return nil
}

// Close flushes and closes the log file.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func current() *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger
}

// Habit returns a logger whose records carry the habit's task.
func Habit(task string) *log.Logger {
	return current().With("habit", task)
}

// Store returns a logger whose records carry the data location.
func Store(location string) *log.Logger {
	return current().With("store", location)
}

func Debug(msg string, keyvals ...interface{}) {
	current().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	current().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	current().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	current().Error(msg, keyvals...)
}
