package tracker

import "errors"

var (
	// ErrDuplicateHabit is returned when a task already exists under case-insensitive comparison.
	ErrDuplicateHabit = errors.New("habit already exists")
	// ErrNotFound is returned by lookups that need the habit to exist.
	ErrNotFound = errors.New("habit not found")
	// ErrStorage wraps every persistence failure. The in-memory collection
	// is left at the last successfully persisted state.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidTask is returned for blank task names.
	ErrInvalidTask = errors.New("task name cannot be empty")
	// ErrInvalidPeriodicity is returned for cadences other than daily or weekly.
	ErrInvalidPeriodicity = errors.New("periodicity must be daily or weekly")
	// ErrInvalidCompletion is returned for completion times later than now.
	ErrInvalidCompletion = errors.New("completion time is in the future")
)
