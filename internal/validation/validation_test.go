package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habits/internal/models"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

func conflictTypes(result ValidationResult) []ConflictType {
	types := []ConflictType{}
	for _, c := range result.Conflicts {
		types = append(types, c.Type)
	}
	return types
}

func TestValidateHabits(t *testing.T) {
	created := models.NewTimestamp(now.AddDate(0, 0, -5))

	tests := []struct {
		name   string
		habits []models.Habit
		want   []ConflictType
	}{
		{
			name: "clean collection",
			habits: []models.Habit{
				{Task: "Exercise", Periodicity: models.PeriodicityDaily, CreatedAt: created},
				{Task: "Running", Periodicity: models.PeriodicityWeekly, CreatedAt: created, CompletedAt: models.NewTimestamp(now), Streak: 2},
			},
			want: []ConflictType{},
		},
		{
			name:   "empty task",
			habits: []models.Habit{{Task: "  ", Periodicity: models.PeriodicityDaily, CreatedAt: created}},
			want:   []ConflictType{ConflictEmptyTask},
		},
		{
			name: "case-only duplicate",
			habits: []models.Habit{
				{Task: "Exercise", Periodicity: models.PeriodicityDaily, CreatedAt: created},
				{Task: "EXERCISE", Periodicity: models.PeriodicityDaily, CreatedAt: created},
			},
			want: []ConflictType{ConflictDuplicateTask},
		},
		{
			name:   "unknown periodicity",
			habits: []models.Habit{{Task: "A", Periodicity: "Daily", CreatedAt: created}},
			want:   []ConflictType{ConflictInvalidPeriodicity},
		},
		{
			name:   "negative streak",
			habits: []models.Habit{{Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created, Streak: -1}},
			want:   []ConflictType{ConflictNegativeStreak},
		},
		{
			name:   "streak without completion",
			habits: []models.Habit{{Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created, Streak: 3}},
			want:   []ConflictType{ConflictStreakWithoutRecord},
		},
		{
			name:   "missing created_at",
			habits: []models.Habit{{Task: "A", Periodicity: models.PeriodicityDaily}},
			want:   []ConflictType{ConflictMissingCreatedAt},
		},
		{
			name: "completion in the future",
			habits: []models.Habit{{
				Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created,
				CompletedAt: models.NewTimestamp(now.Add(time.Hour)), Streak: 1,
			}},
			want: []ConflictType{ConflictInvalidDateTime},
		},
		{
			name: "completion before creation",
			habits: []models.Habit{{
				Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created,
				CompletedAt: models.NewTimestamp(now.AddDate(0, 0, -9)), Streak: 1,
			}},
			want: []ConflictType{ConflictInvalidDateTime},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().WithNow(now).ValidateHabits(tt.habits)
			if diff := cmp.Diff(tt.want, conflictTypes(result)); diff != "" {
				t.Errorf("conflict types mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDuplicateConflictNamesBothTasks(t *testing.T) {
	habits := []models.Habit{
		{Task: "Exercise", Periodicity: models.PeriodicityDaily, CreatedAt: models.NewTimestamp(now)},
		{Task: "exercise", Periodicity: models.PeriodicityDaily, CreatedAt: models.NewTimestamp(now)},
	}

	result := New().WithNow(now).ValidateHabits(habits)
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	c := result.Conflicts[0]
	if c.Index != 1 {
		t.Errorf("Index = %d, want 1", c.Index)
	}
	if diff := cmp.Diff([]string{"Exercise", "exercise"}, c.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatReport(t *testing.T) {
	var empty ValidationResult
	if got := empty.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() on empty result = %q", got)
	}

	result := New().WithNow(now).ValidateHabits([]models.Habit{{Task: "A", Periodicity: "monthly"}})
	report := result.FormatReport()
	if !strings.HasPrefix(report, "2 problem(s):") {
		t.Errorf("FormatReport() = %q", report)
	}
	if !strings.Contains(report, `unknown periodicity "monthly"`) {
		t.Errorf("FormatReport() missing periodicity line: %q", report)
	}
}
