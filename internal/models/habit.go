package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habits/internal/constants"
)

// Periodicity is the expected cadence of a habit
type Periodicity string

const (
	PeriodicityDaily  Periodicity = "daily"
	PeriodicityWeekly Periodicity = "weekly"
)

// Valid reports whether p is one of the supported cadences.
func (p Periodicity) Valid() bool {
	return p == PeriodicityDaily || p == PeriodicityWeekly
}

// MaxGapDays returns how many whole days may pass after a completion
// before a habit with this periodicity counts as broken.
func (p Periodicity) MaxGapDays() (int, bool) {
	switch p {
	case PeriodicityDaily:
		return constants.DailyMaxGapDays, true
	case PeriodicityWeekly:
		return constants.WeeklyMaxGapDays, true
	default:
		return 0, false
	}
}

// Timestamp is a second-precision local time stored as "YYYY-MM-DD HH:MM:SS".
// The zero value means "absent".
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds in the local zone.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second).Local()}
}

// ParseTimestamp parses the storage layout. An empty string yields the zero Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	t, err := time.ParseInLocation(constants.TimestampFormat, s, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q (expected YYYY-MM-DD HH:MM:SS): %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

// IsSet reports whether the timestamp carries a value.
func (t Timestamp) IsSet() bool {
	return !t.Time.IsZero()
}

func (t Timestamp) String() string {
	if !t.IsSet() {
		return ""
	}
	return t.Time.Format(constants.TimestampFormat)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts a formatted string, "", null, or an empty array.
// Older data files recorded "never completed" as [].
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("timestamp must be a string: %w", err)
		}
		if len(items) != 0 {
			return fmt.Errorf("timestamp must be a string or an empty array, got %d elements", len(items))
		}
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Habit represents a recurring task with a running completion streak
type Habit struct {
	Task        string      `json:"task"`
	Periodicity Periodicity `json:"periodicity"`
	CreatedAt   Timestamp   `json:"created_at"`
	CompletedAt Timestamp   `json:"completed_at"` // most recent completion only
	Streak      int         `json:"streak"`
}

// IsCompleted reports whether the habit has ever been completed.
func (h Habit) IsCompleted() bool {
	return h.CompletedAt.IsSet()
}

// ElapsedDays returns the whole days between the last completion and now.
// The second result is false when the habit was never completed.
func (h Habit) ElapsedDays(now time.Time) (int, bool) {
	if !h.IsCompleted() {
		return 0, false
	}
	elapsed := now.Sub(h.CompletedAt.Time)
	days := int(elapsed / (24 * time.Hour))
	if elapsed < 0 && elapsed%(24*time.Hour) != 0 {
		days--
	}
	return days, true
}

// IsBroken reports whether the time since the last completion exceeds
// the allowed gap for the habit's periodicity.
func (h Habit) IsBroken(now time.Time) bool {
	days, ok := h.ElapsedDays(now)
	if !ok {
		return false
	}
	maxGap, ok := h.Periodicity.MaxGapDays()
	if !ok {
		return false
	}
	return days > maxGap
}

// StreakRecord pairs a habit task with its streak
type StreakRecord struct {
	Task   string `json:"task"`
	Streak int    `json:"streak"`
}

func (r StreakRecord) String() string {
	return fmt.Sprintf("%s: %d", r.Task, r.Streak)
}
