package tracker

import "github.com/julianstephens/habits/internal/models"

// Analytics is the read-side view over a Tracker. It has no state of its own.
type Analytics struct {
	tracker *Tracker
}

// Summary aggregates the collection for dashboards.
type Summary struct {
	Total          int
	Daily          int
	Weekly         int
	NeverCompleted int
	Broken         int
	Longest        models.StreakRecord
	HasLongest     bool
}

func NewAnalytics(t *Tracker) *Analytics {
	return &Analytics{tracker: t}
}

func (a *Analytics) GetAllTrackedHabits() []models.Habit {
	return a.tracker.GetAllHabits()
}

func (a *Analytics) GetHabitsByPeriodicity(periodicity models.Periodicity) []models.Habit {
	return a.tracker.GetHabitsByPeriodicity(periodicity)
}

func (a *Analytics) GetLongestStreakOverall() (models.StreakRecord, bool) {
	return a.tracker.GetLongestStreakOverall()
}

// GetBrokenHabits forwards to Tracker.GetBrokenHabits and therefore
// also resets the streaks of the habits it returns.
func (a *Analytics) GetBrokenHabits() ([]models.Habit, error) {
	return a.tracker.GetBrokenHabits()
}

// Summary counts habits without touching any streak; broken habits are
// detected, not reset.
func (a *Analytics) Summary() Summary {
	habits := a.tracker.GetAllHabits()
	s := Summary{
		Total:  len(habits),
		Broken: len(a.tracker.DetectBroken()),
	}
	for _, h := range habits {
		switch h.Periodicity {
		case models.PeriodicityDaily:
			s.Daily++
		case models.PeriodicityWeekly:
			s.Weekly++
		}
		if !h.IsCompleted() {
			s.NeverCompleted++
		}
	}
	s.Longest, s.HasLongest = a.tracker.GetLongestStreakOverall()
	return s
}
