// Package validation finds habit records that no tracker operation could
// have produced, typically after a data file was edited by hand.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habits/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictEmptyTask           ConflictType = "empty_task"
	ConflictDuplicateTask       ConflictType = "duplicate_task"
	ConflictInvalidPeriodicity  ConflictType = "invalid_periodicity"
	ConflictNegativeStreak      ConflictType = "negative_streak"
	ConflictStreakWithoutRecord ConflictType = "streak_without_completion"
	ConflictMissingCreatedAt    ConflictType = "missing_created_at"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
)

// Conflict represents one problem with one habit record
type Conflict struct {
	Type        ConflictType
	Description string
	Index       int      // position in the collection, 0-based
	Items       []string // tasks involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d problem(s):\n", len(vr.Conflicts))
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks habit collections against the tracker's invariants
type Validator struct {
	now func() time.Time
}

// New creates a new Validator
func New() *Validator {
	return &Validator{now: time.Now}
}

// WithNow returns a copy of v that judges future completions against now.
func (v *Validator) WithNow(now time.Time) *Validator {
	return &Validator{now: func() time.Time { return now }}
}

// ValidateHabits checks every record and the collection as a whole.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	now := v.now()

	add := func(t ConflictType, i int, format string, args ...any) {
		h := habits[i]
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        t,
			Description: fmt.Sprintf("#%d %q: ", i+1, h.Task) + fmt.Sprintf(format, args...),
			Index:       i,
			Items:       []string{h.Task},
		})
	}

	// Creation compares tasks case-insensitively, so a case-only pair
	// can only come from an edited file
	seen := make(map[string]string, len(habits))
	for i, h := range habits {
		if strings.TrimSpace(h.Task) == "" {
			add(ConflictEmptyTask, i, "empty task name")
		} else if prev, ok := seen[strings.ToLower(h.Task)]; ok {
			add(ConflictDuplicateTask, i, "duplicates %q", prev)
			result.Conflicts[len(result.Conflicts)-1].Items = []string{prev, h.Task}
		} else {
			seen[strings.ToLower(h.Task)] = h.Task
		}

		if !h.Periodicity.Valid() {
			add(ConflictInvalidPeriodicity, i, "unknown periodicity %q", h.Periodicity)
		}

		if h.Streak < 0 {
			add(ConflictNegativeStreak, i, "negative streak %d", h.Streak)
		}
		if h.Streak > 0 && !h.IsCompleted() {
			add(ConflictStreakWithoutRecord, i, "streak %d without a completion", h.Streak)
		}

		if !h.CreatedAt.IsSet() {
			add(ConflictMissingCreatedAt, i, "missing created_at")
		}
		if h.IsCompleted() {
			if h.CompletedAt.After(now) {
				add(ConflictInvalidDateTime, i, "completed_at %s is in the future", h.CompletedAt)
			}
			if h.CreatedAt.IsSet() && h.CompletedAt.Before(h.CreatedAt.Time) {
				add(ConflictInvalidDateTime, i, "completed_at %s precedes created_at %s", h.CompletedAt, h.CreatedAt)
			}
		}
	}

	return result
}
