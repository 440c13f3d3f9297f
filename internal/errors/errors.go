package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habits/internal/logger"
	"github.com/julianstephens/habits/internal/storage"
	"github.com/julianstephens/habits/internal/tracker"
)

var hints = []struct {
	target error
	hint   string
}{
	{tracker.ErrDuplicateHabit, "task names are compared case-insensitively; pick a different name"},
	{tracker.ErrInvalidPeriodicity, "use --periodicity daily or --periodicity weekly"},
	{tracker.ErrStorage, "run 'habits doctor' to check the data file"},
	{storage.ErrEmbeddedCredentials, "store the connection string with 'habits keyring set' or HABITS_DB_CONNECTION"},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a follow-up suggestion for known failures, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
