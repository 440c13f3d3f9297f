// Package tracker owns the habit collection: creation, completion,
// streak bookkeeping and broken-habit detection, persisted through a
// storage.Provider after every mutation.
package tracker

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/habits/internal/logger"
	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/internal/storage"
)

// Tracker is the habit store. Task lookups follow two rules kept from
// the original data files: creation and streak lookup compare tasks
// case-insensitively, while delete and complete require an exact match.
//
// Mutations are copy-on-write: the candidate collection is persisted
// first and only replaces the in-memory one once the write succeeded.
type Tracker struct {
	mu     sync.Mutex
	store  storage.Provider
	habits []models.Habit
	now    func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New returns an empty tracker backed by store. Call Load to read
// existing state.
func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		habits: []models.Habit{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open builds a tracker and loads the persisted collection.
func Open(store storage.Provider, opts ...Option) (*Tracker, error) {
	t := New(store, opts...)
	if err := t.Load(); err != nil {
		return nil, err
	}
	return t, nil
}

// Close releases the underlying store.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Close()
}

// Store returns the backing provider.
func (t *Tracker) Store() storage.Provider {
	return t.store
}

// Load replaces the in-memory collection with the persisted one.
// A store with no prior state loads as empty.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	habits, err := t.store.Load()
	if err != nil {
		return fmt.Errorf("%w: loading habits: %w", ErrStorage, err)
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	t.habits = habits
	logger.Store(t.store.GetConfigPath()).Debug("Loaded habits", "count", len(habits))
	return nil
}

// Save flushes the current collection.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.persist(t.habits)
}

// commit persists next and, on success, makes it the current collection.
// Callers hold t.mu.
func (t *Tracker) commit(next []models.Habit) error {
	if err := t.persist(next); err != nil {
		return err
	}
	t.habits = next
	return nil
}

func (t *Tracker) persist(habits []models.Habit) error {
	if err := t.store.Save(habits); err != nil {
		logger.Store(t.store.GetConfigPath()).Error("Failed to persist habits", "error", err)
		return fmt.Errorf("%w: saving habits: %w", ErrStorage, err)
	}
	return nil
}

func (t *Tracker) clock() time.Time {
	return t.now().Truncate(time.Second)
}

// CreateHabit adds a habit with no completions and a zero streak.
func (t *Tracker) CreateHabit(task string, periodicity models.Periodicity) (models.Habit, error) {
	if strings.TrimSpace(task) == "" {
		return models.Habit{}, ErrInvalidTask
	}
	if !periodicity.Valid() {
		return models.Habit{}, fmt.Errorf("%w: got %q", ErrInvalidPeriodicity, periodicity)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.indexFold(task); ok {
		return models.Habit{}, fmt.Errorf("%w: %q", ErrDuplicateHabit, task)
	}

	habit := models.Habit{
		Task:        task,
		Periodicity: periodicity,
		CreatedAt:   models.NewTimestamp(t.clock()),
	}

	next := append(slices.Clone(t.habits), habit)
	if err := t.commit(next); err != nil {
		return models.Habit{}, err
	}

	logger.Habit(task).Debug("Created habit", "periodicity", periodicity)
	return habit, nil
}

// DeleteHabit removes every habit whose task matches exactly.
// Unknown tasks are a no-op; the collection is still flushed.
func (t *Tracker) DeleteHabit(task string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(t.habits), func(h models.Habit) bool {
		return h.Task == task
	})
	removed := len(t.habits) - len(next)
	if err := t.commit(next); err != nil {
		return err
	}

	logger.Habit(task).Debug("Deleted habit", "removed", removed)
	return nil
}

// CompleteTask records a completion now.
func (t *Tracker) CompleteTask(task string) (models.Habit, bool, error) {
	return t.CompleteTaskAt(task, time.Time{})
}

// CompleteTaskAt records a completion at the given time (zero means now)
// on the first habit whose task matches exactly, and increments its
// streak. The bool result is false when no habit matched, which is not
// an error.
func (t *Tracker) CompleteTaskAt(task string, at time.Time) (models.Habit, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	if at.IsZero() {
		at = now
	}
	at = at.Truncate(time.Second)
	if at.After(now) {
		return models.Habit{}, false, fmt.Errorf("%w: %s", ErrInvalidCompletion, models.NewTimestamp(at))
	}

	i := slices.IndexFunc(t.habits, func(h models.Habit) bool {
		return h.Task == task
	})
	if i < 0 {
		logger.Habit(task).Debug("Complete ignored, no exact match")
		return models.Habit{}, false, nil
	}

	next := slices.Clone(t.habits)
	next[i].CompletedAt = models.NewTimestamp(at)
	next[i].Streak++
	if err := t.commit(next); err != nil {
		return models.Habit{}, false, err
	}

	logger.Habit(task).Debug("Completed habit", "streak", next[i].Streak)
	return next[i], true, nil
}

// GetAllHabits returns a copy of the collection in insertion order.
func (t *Tracker) GetAllHabits() []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.habits)
}

// GetHabitsByPeriodicity returns the habits whose periodicity matches
// exactly, in insertion order.
func (t *Tracker) GetHabitsByPeriodicity(periodicity models.Periodicity) []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	matched := []models.Habit{}
	for _, h := range t.habits {
		if h.Periodicity == periodicity {
			matched = append(matched, h)
		}
	}
	return matched
}

// GetLongestStreakForHabit returns the streak of the habit whose task
// matches case-insensitively.
func (t *Tracker) GetLongestStreakForHabit(task string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.indexFold(task)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, task)
	}
	return t.habits[i].Streak, nil
}

// GetLongestStreakOverall returns the habit with the highest streak.
// Ties go to the habit created first. The bool result is false when
// there are no habits.
func (t *Tracker) GetLongestStreakOverall() (models.StreakRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.habits) == 0 {
		return models.StreakRecord{}, false
	}

	best := t.habits[0]
	for _, h := range t.habits[1:] {
		if h.Streak > best.Streak {
			best = h
		}
	}
	return models.StreakRecord{Task: best.Task, Streak: best.Streak}, true
}

// DetectBroken returns the habits whose last completion is older than
// their periodicity allows. It does not modify anything.
func (t *Tracker) DetectBroken() []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detectBroken(t.clock())
}

func (t *Tracker) detectBroken(now time.Time) []models.Habit {
	broken := []models.Habit{}
	for _, h := range t.habits {
		if h.IsBroken(now) {
			broken = append(broken, h)
		}
	}
	return broken
}

// ResetBrokenStreaks zeroes the streak of each listed task (exact match)
// and persists once. completed_at is left untouched.
func (t *Tracker) ResetBrokenStreaks(tasks []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resetStreaks(tasks)
}

func (t *Tracker) resetStreaks(tasks []string) error {
	if len(tasks) == 0 {
		return nil
	}

	next := slices.Clone(t.habits)
	for i := range next {
		if slices.Contains(tasks, next[i].Task) {
			next[i].Streak = 0
		}
	}
	if err := t.commit(next); err != nil {
		return err
	}

	for _, task := range tasks {
		logger.Habit(task).Info("Streak reset, habit broken")
	}
	return nil
}

// GetBrokenHabits detects broken habits and resets their streaks to 0
// in the same call. Checking is not read-only: callers that only want
// to look should use DetectBroken.
//
// The returned habits are snapshots taken before the reset, so their
// Streak is the run that was just broken, not the stored 0. Callers that
// need the persisted records read them back with GetAllHabits.
func (t *Tracker) GetBrokenHabits() ([]models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	broken := t.detectBroken(t.clock())
	tasks := make([]string, 0, len(broken))
	for _, h := range broken {
		tasks = append(tasks, h.Task)
	}
	if err := t.resetStreaks(tasks); err != nil {
		return nil, err
	}
	return broken, nil
}

// ResetAll clears the collection and persists the empty store.
func (t *Tracker) ResetAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.commit([]models.Habit{}); err != nil {
		return err
	}
	logger.Info("Reset all habits")
	return nil
}

// indexFold finds the first habit whose task equals task ignoring case.
func (t *Tracker) indexFold(task string) (int, bool) {
	i := slices.IndexFunc(t.habits, func(h models.Habit) bool {
		return strings.EqualFold(h.Task, task)
	})
	return i, i >= 0
}
