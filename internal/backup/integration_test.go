package backup

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/tracker"
)

// TestIntegrationBackupRestoreWorkflow drives the tracker, snapshots its
// data file, mutates it, and restores.
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	for _, name := range []string{"habits.json", "habits.db"} {
		t.Run(name, func(t *testing.T) {
			store, path := setupTestStore(t, name)
			tr, err := tracker.Open(store)
			if err != nil {
				t.Fatalf("tracker.Open() failed: %v", err)
			}
			before := tr.GetAllHabits()

			mgr, err := NewManager(path, WithClock(tickingClock()))
			if err != nil {
				t.Fatalf("NewManager() failed: %v", err)
			}
			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}

			if _, err := tr.CreateHabit("Reading", models.PeriodicityDaily); err != nil {
				t.Fatalf("CreateHabit() failed: %v", err)
			}
			if err := tr.DeleteHabit("Exercise"); err != nil {
				t.Fatalf("DeleteHabit() failed: %v", err)
			}
			if err := tr.Close(); err != nil {
				t.Fatalf("Close() failed: %v", err)
			}

			preRestore, err := mgr.RestoreBackup(backupPath)
			if err != nil {
				t.Fatalf("RestoreBackup failed: %v", err)
			}
			if preRestore == "" {
				t.Fatal("RestoreBackup should snapshot the current data first")
			}

			if diff := cmp.Diff(before, loadHabits(t, path)); diff != "" {
				t.Errorf("restored data mismatch (-want +got):\n%s", diff)
			}

			// The pre-restore snapshot holds the modified collection
			snapshot := loadHabits(t, preRestore)
			got := make([]string, 0, len(snapshot))
			for _, h := range snapshot {
				got = append(got, h.Task)
			}
			if !cmp.Equal(got, []string{"Running", "Reading"}) {
				t.Errorf("pre-restore snapshot tasks = %v, want [Running Reading]", got)
			}

			backups, err := mgr.ListBackups()
			if err != nil {
				t.Fatalf("ListBackups failed: %v", err)
			}
			if len(backups) != 2 {
				t.Errorf("expected 2 backups after restore, got %d", len(backups))
			}
		})
	}
}

func TestRestoreBackupMissingFile(t *testing.T) {
	_, path := setupTestStore(t, "habits.json")
	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("RestoreBackup should fail for a missing backup")
	}
}
