package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "logs", "habits.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func initForTest(t *testing.T, cfg Config) {
	t.Helper()
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() {
		Close()
		Logger = nil
	})
}

func TestInitWritesWarningsOnly(t *testing.T) {
	dir := t.TempDir()
	initForTest(t, Config{Dir: dir})

	Debug("loaded habits", "count", 3)
	Warn("automatic backup failed", "error", "disk full")

	content := readLog(t, dir)
	if !strings.Contains(content, "automatic backup failed") {
		t.Errorf("log file missing warning:\n%s", content)
	}
	if strings.Contains(content, "loaded habits") {
		t.Errorf("debug record written without debug mode:\n%s", content)
	}
}

func TestDebugModeMirrorsRecords(t *testing.T) {
	dir := t.TempDir()
	var mirror bytes.Buffer
	initForTest(t, Config{Debug: true, Dir: dir, Mirror: &mirror})

	Debug("loaded habits", "count", 3)

	if !strings.Contains(mirror.String(), "loaded habits") {
		t.Errorf("mirror missing debug record: %q", mirror.String())
	}
	if !strings.Contains(readLog(t, dir), "loaded habits") {
		t.Error("log file missing debug record")
	}
}

func TestHabitAndStoreFields(t *testing.T) {
	dir := t.TempDir()
	initForTest(t, Config{Dir: dir})

	Habit("Exercise").Warn("streak reset", "streak", 4)
	Store("/tmp/habits.json").Error("save failed")

	content := readLog(t, dir)
	for _, want := range []string{"habit=Exercise", "streak=4", "store=/tmp/habits.json"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q:\n%s", want, content)
		}
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil

	Debug("no logger yet")
	Warn("no logger yet")
	Habit("Exercise").Error("no logger yet")
	if err := Close(); err != nil {
		t.Errorf("Close() without Init = %v", err)
	}
}
