package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habits/internal/config"
	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/storage"
	"github.com/julianstephens/habits/internal/tracker"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

type runner interface {
	Run(*Context) error
}

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataFile = filepath.Join(dir, "habits.json")

	ctx := NewContext(storage.NewJSONStore(cfg.DataFile), cfg, tracker.WithClock(func() time.Time { return testNow }))
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.ConfigPath = filepath.Join(dir, "config.yaml")
	return ctx, out
}

func run(t *testing.T, ctx *Context, out *bytes.Buffer, cmd runner) string {
	t.Helper()
	out.Reset()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("%T.Run() failed: %v", cmd, err)
	}
	return out.String()
}

func TestAddListDeleteWorkflow(t *testing.T) {
	ctx, out := setupTestContext(t)

	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})
	run(t, ctx, out, &AddCmd{Task: "Running", Periodicity: "WEEKLY"})

	got := run(t, ctx, out, &ListCmd{})
	if !strings.Contains(got, "Exercise") || !strings.Contains(got, "Running") {
		t.Errorf("list output missing habits:\n%s", got)
	}

	got = run(t, ctx, out, &ListCmd{Periodicity: "weekly"})
	if strings.Contains(got, "Exercise") || !strings.Contains(got, "Running") {
		t.Errorf("weekly list output wrong:\n%s", got)
	}

	got = run(t, ctx, out, &DeleteCmd{Task: "exercise"})
	if !strings.Contains(got, "No habit named") {
		t.Errorf("case-different delete should report no match:\n%s", got)
	}

	run(t, ctx, out, &DeleteCmd{Task: "Exercise"})
	if habits := ctx.Tracker.GetAllHabits(); len(habits) != 1 || habits[0].Task != "Running" {
		t.Errorf("habits after delete = %+v", habits)
	}
}

func TestAddRejectsDuplicateAndBadPeriodicity(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})

	if err := (&AddCmd{Task: "EXERCISE", Periodicity: "daily"}).Run(ctx); !errors.Is(err, tracker.ErrDuplicateHabit) {
		t.Errorf("duplicate add error = %v, want %v", err, tracker.ErrDuplicateHabit)
	}
	if err := (&AddCmd{Task: "Yoga", Periodicity: "monthly"}).Run(ctx); !errors.Is(err, tracker.ErrInvalidPeriodicity) {
		t.Errorf("bad periodicity error = %v, want %v", err, tracker.ErrInvalidPeriodicity)
	}
}

func TestCompleteAndStreak(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})

	for i := 0; i < 3; i++ {
		run(t, ctx, out, &CompleteCmd{Task: "Exercise"})
	}
	if got := run(t, ctx, out, &StreakCmd{Task: "exercise"}); got != "exercise: 3\n" {
		t.Errorf("streak output = %q", got)
	}

	got := run(t, ctx, out, &CompleteCmd{Task: "Exercise", At: "2024-03-14 07:30:00"})
	if !strings.Contains(got, "streak 4") {
		t.Errorf("complete --at output = %q", got)
	}

	if err := (&CompleteCmd{Task: "Exercise", At: "tomorrow"}).Run(ctx); err == nil {
		t.Error("malformed --at should fail")
	}
	if err := (&CompleteCmd{Task: "Exercise", At: "2024-03-16 00:00:00"}).Run(ctx); !errors.Is(err, tracker.ErrInvalidCompletion) {
		t.Errorf("future --at error = %v, want %v", err, tracker.ErrInvalidCompletion)
	}
	if err := (&StreakCmd{Task: "Missing"}).Run(ctx); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("missing streak error = %v, want %v", err, tracker.ErrNotFound)
	}
}

func TestLongestJSON(t *testing.T) {
	ctx, out := setupTestContext(t)

	if got := run(t, ctx, out, &LongestCmd{JSON: true}); strings.TrimSpace(got) != "null" {
		t.Errorf("longest on empty = %q, want null", got)
	}

	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})
	run(t, ctx, out, &AddCmd{Task: "Running", Periodicity: "weekly"})
	for i := 0; i < 3; i++ {
		run(t, ctx, out, &CompleteCmd{Task: "Exercise"})
	}
	run(t, ctx, out, &CompleteCmd{Task: "Running"})

	var record models.StreakRecord
	if err := json.Unmarshal([]byte(run(t, ctx, out, &LongestCmd{JSON: true})), &record); err != nil {
		t.Fatalf("decode longest: %v", err)
	}
	if record != (models.StreakRecord{Task: "Exercise", Streak: 3}) {
		t.Errorf("longest = %+v, want Exercise: 3", record)
	}
}

func TestBrokenCommand(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "A", Periodicity: "daily"})
	run(t, ctx, out, &CompleteCmd{Task: "A", At: "2024-03-13 12:00:00"})

	got := run(t, ctx, out, &BrokenCmd{DryRun: true})
	if !strings.Contains(got, "A") {
		t.Errorf("dry run output = %q", got)
	}
	if streak, _ := ctx.Tracker.GetLongestStreakForHabit("A"); streak != 1 {
		t.Errorf("dry run changed streak to %d", streak)
	}

	var broken []models.Habit
	if err := json.Unmarshal([]byte(run(t, ctx, out, &BrokenCmd{JSON: true})), &broken); err != nil {
		t.Fatalf("decode broken: %v", err)
	}
	if len(broken) != 1 || broken[0].Task != "A" {
		t.Errorf("broken = %+v, want [A]", broken)
	}
	if streak, _ := ctx.Tracker.GetLongestStreakForHabit("A"); streak != 0 {
		t.Errorf("streak after broken = %d, want 0", streak)
	}

	// completed_at is kept, so the habit stays broken until completed again
	if got := run(t, ctx, out, &BrokenCmd{}); !strings.Contains(got, "Broken habits (1") {
		t.Errorf("second check output = %q", got)
	}
	run(t, ctx, out, &CompleteCmd{Task: "A"})
	if got := run(t, ctx, out, &BrokenCmd{}); !strings.Contains(got, "No broken habits") {
		t.Errorf("check after completion output = %q", got)
	}
}

func TestListJSONMatchesDocumentFormat(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})

	var raw []map[string]any
	if err := json.Unmarshal([]byte(run(t, ctx, out, &ListCmd{JSON: true})), &raw); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	want := []map[string]any{{
		"task":         "Exercise",
		"periodicity":  "daily",
		"created_at":   "2024-03-15 12:00:00",
		"completed_at": "",
		"streak":       float64(0),
	}}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("list --json mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsCommand(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})
	run(t, ctx, out, &AddCmd{Task: "Running", Periodicity: "weekly"})
	run(t, ctx, out, &CompleteCmd{Task: "Exercise"})

	got := run(t, ctx, out, &StatsCmd{})
	for _, want := range []string{"2 (1 daily, 1 weekly)", "Never completed:  1", "Exercise: 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}
}

func TestResetWithBackup(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})

	run(t, ctx, out, &ResetCmd{Yes: true})
	if n := len(ctx.Tracker.GetAllHabits()); n != 0 {
		t.Errorf("habits after reset = %d, want 0", n)
	}

	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatalf("BackupManager() failed: %v", err)
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 automatic backup before reset, got %d", len(backups))
	}

	if got := run(t, ctx, out, &ResetCmd{Yes: true}); !strings.Contains(got, "Nothing to reset") {
		t.Errorf("reset on empty store output = %q", got)
	}
}

func TestResetOnEmptyStoreWritesDocument(t *testing.T) {
	ctx, out := setupTestContext(t)
	dataPath := ctx.Store.GetConfigPath()

	if got := run(t, ctx, out, &ResetCmd{Yes: true}); !strings.Contains(got, "Nothing to reset") {
		t.Errorf("reset output = %q", got)
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("reset did not write the data file: %v", err)
	}
	var habits []models.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		t.Fatalf("data file is not a habit document: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("habits = %+v, want none", habits)
	}
}

func TestParsePeriodicityNormalizesCase(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Periodicity
		wantErr bool
	}{
		{in: "daily", want: models.PeriodicityDaily},
		{in: "Daily", want: models.PeriodicityDaily},
		{in: " WEEKLY ", want: models.PeriodicityWeekly},
		{in: "monthly", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriodicity(tt.in)
			if tt.wantErr {
				if !errors.Is(err, tracker.ErrInvalidPeriodicity) {
					t.Errorf("ParsePeriodicity(%q) error = %v, want %v", tt.in, err, tracker.ErrInvalidPeriodicity)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePeriodicity(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestListPeriodicityFlagIgnoresCase(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})
	run(t, ctx, out, &AddCmd{Task: "Running", Periodicity: "weekly"})

	got := run(t, ctx, out, &ListCmd{Periodicity: "Daily"})
	if !strings.Contains(got, "Exercise") || strings.Contains(got, "Running") {
		t.Errorf("list -p Daily output:\n%s", got)
	}

	// the tracker itself stays exact
	if n := len(ctx.Tracker.GetHabitsByPeriodicity("Daily")); n != 0 {
		t.Errorf("GetHabitsByPeriodicity(\"Daily\") returned %d habits, want 0", n)
	}
}

func TestBackupCommands(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})

	if got := run(t, ctx, out, &BackupListCmd{}); !strings.Contains(got, "No backups found") {
		t.Errorf("empty backup list output = %q", got)
	}

	got := run(t, ctx, out, &BackupCreateCmd{})
	name := strings.TrimSpace(strings.TrimPrefix(got, "✓ Backup created: "))
	if !strings.HasPrefix(name, "habits-") {
		t.Fatalf("backup create output = %q", got)
	}

	run(t, ctx, out, &AddCmd{Task: "Running", Periodicity: "weekly"})
	run(t, ctx, out, &BackupRestoreCmd{BackupFile: name, Yes: true})

	if err := ctx.Tracker.Load(); err != nil {
		t.Fatalf("Load() after restore failed: %v", err)
	}
	if habits := ctx.Tracker.GetAllHabits(); len(habits) != 1 || habits[0].Task != "Exercise" {
		t.Errorf("habits after restore = %+v, want only Exercise", habits)
	}

	if err := (&BackupRestoreCmd{BackupFile: "missing.json", Yes: true}).Run(ctx); err == nil {
		t.Error("restoring a missing backup should fail")
	}
}

func TestInitCommand(t *testing.T) {
	ctx, out := setupTestContext(t)

	run(t, ctx, out, &InitCmd{})
	if _, err := os.Stat(ctx.Store.GetConfigPath()); err != nil {
		t.Errorf("data file not created: %v", err)
	}
	if _, err := os.Stat(ctx.ConfigPath); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	if err := (&InitCmd{}).Run(ctx); err == nil {
		t.Error("second init without --force should fail")
	}

	source := filepath.Join(t.TempDir(), "old.json")
	old := []models.Habit{{Task: "Legacy", Periodicity: models.PeriodicityWeekly, CreatedAt: models.NewTimestamp(testNow)}}
	if err := storage.NewJSONStore(source).Save(old); err != nil {
		t.Fatalf("seed source: %v", err)
	}
	got := run(t, ctx, out, &InitCmd{Force: true, Source: source})
	if !strings.Contains(got, "Copied 1 habits") {
		t.Errorf("init --source output = %q", got)
	}
	if err := ctx.Tracker.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if habits := ctx.Tracker.GetAllHabits(); len(habits) != 1 || habits[0].Task != "Legacy" {
		t.Errorf("habits after init --source = %+v", habits)
	}
}

func TestDoctorCommand(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, out, &AddCmd{Task: "Exercise", Periodicity: "daily"})

	got := run(t, ctx, out, &DoctorCmd{})
	if !strings.Contains(got, "Habit integrity: OK") {
		t.Errorf("doctor output = %q", got)
	}

	if err := os.WriteFile(ctx.Store.GetConfigPath(), []byte("{oops"), 0600); err != nil {
		t.Fatalf("corrupt data file: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on a corrupt data file")
	}
}

func TestCheckIntegrity(t *testing.T) {
	created := models.NewTimestamp(testNow.AddDate(0, 0, -5))
	tests := []struct {
		name    string
		habits  []models.Habit
		wantErr bool
	}{
		{
			name:   "clean",
			habits: []models.Habit{{Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created}},
		},
		{
			name: "case-only duplicate",
			habits: []models.Habit{
				{Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created},
				{Task: "a", Periodicity: models.PeriodicityDaily, CreatedAt: created},
			},
			wantErr: true,
		},
		{
			name:    "unknown periodicity",
			habits:  []models.Habit{{Task: "A", Periodicity: "monthly", CreatedAt: created}},
			wantErr: true,
		},
		{
			name:    "streak without completion",
			habits:  []models.Habit{{Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created, Streak: 2}},
			wantErr: true,
		},
		{
			name: "completion before creation",
			habits: []models.Habit{{
				Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created,
				CompletedAt: models.NewTimestamp(testNow.AddDate(0, 0, -9)), Streak: 1,
			}},
			wantErr: true,
		},
		{
			name: "completion in the future",
			habits: []models.Habit{{
				Task: "A", Periodicity: models.PeriodicityDaily, CreatedAt: created,
				CompletedAt: models.NewTimestamp(testNow.Add(time.Hour)), Streak: 1,
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkIntegrity(tt.habits, testNow)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkIntegrity() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
