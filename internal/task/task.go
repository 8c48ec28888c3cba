// Package task defines the todo record shared by the store, the scheduler
// and the UI.
package task

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the minute-precision wall-clock format used in snapshots
// and in the add form.
const TimeLayout = "2006-01-02 15:04"

// Recurrence is how a task's deadline repeats.
type Recurrence int

const (
	None Recurrence = iota
	Daily
	Weekly
	Monthly
)

var recurrenceLabels = [...]string{"none", "daily", "weekly", "monthly"}

// legacyLabels are the repeat labels written by the desktop widget.
var legacyLabels = map[string]Recurrence{
	"不重复": None,
	"每天":  Daily,
	"每周":  Weekly,
	"每月":  Monthly,
}

func (r Recurrence) String() string {
	if r < None || r > Monthly {
		return fmt.Sprintf("recurrence(%d)", int(r))
	}
	return recurrenceLabels[r]
}

// Recurring reports whether r is anything other than None.
func (r Recurrence) Recurring() bool {
	return r != None
}

// Next cycles through the recurrence labels in order, wrapping after Monthly.
func (r Recurrence) Next() Recurrence {
	return (r + 1) % Recurrence(len(recurrenceLabels))
}

// ParseRecurrence accepts the current labels (case-insensitive), the
// legacy labels and the empty string, which means None.
func ParseRecurrence(v string) (Recurrence, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return None, nil
	}
	if r, ok := legacyLabels[v]; ok {
		return r, nil
	}
	lower := strings.ToLower(v)
	for i, label := range recurrenceLabels {
		if lower == label {
			return Recurrence(i), nil
		}
	}
	return None, fmt.Errorf("unknown recurrence %q", v)
}

func (r Recurrence) MarshalText() ([]byte, error) {
	if r < None || r > Monthly {
		return nil, fmt.Errorf("invalid recurrence %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Recurrence) UnmarshalText(b []byte) error {
	parsed, err := ParseRecurrence(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Task is a single todo item.
type Task struct {
	ID          int
	Description string
	Deadline    time.Time
	Recurrence  Recurrence
	Completed   bool
	CreatedAt   time.Time
	// AnchorDay is the day of month a Monthly deadline aims for once a short
	// month has clamped it. Zero means the deadline's own day.
	AnchorDay   int
}

// Truncate drops sub-minute precision so a value survives a snapshot
// round-trip unchanged.
func Truncate(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// ParseTime parses a TimeLayout string in the local time zone.
func ParseTime(v string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, strings.TrimSpace(v), time.Local)
}

// FormatTime renders t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
