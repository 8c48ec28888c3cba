package schedule

import (
	"time"

	"todopet/internal/task"
)

const (
	DefaultUrgentWithin  = time.Hour
	DefaultWarningWithin = 12 * time.Hour
)

// Thresholds bound the urgent and warning windows measured from now.
// Zero fields fall back to the defaults.
type Thresholds struct {
	UrgentWithin  time.Duration
	WarningWithin time.Duration
}

// Normalized fills in defaults for unset windows.
func (th Thresholds) Normalized() Thresholds {
	if th.UrgentWithin <= 0 {
		th.UrgentWithin = DefaultUrgentWithin
	}
	if th.WarningWithin <= 0 {
		th.WarningWithin = DefaultWarningWithin
	}
	if th.WarningWithin < th.UrgentWithin {
		th.WarningWithin = th.UrgentWithin
	}
	return th
}

// Urgency is the bucket a single pending task falls into.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyWarning
	UrgencyUrgent
)

func (u Urgency) String() string {
	switch u {
	case UrgencyWarning:
		return "warning"
	case UrgencyUrgent:
		return "urgent"
	default:
		return "none"
	}
}

// Mood is what the pet shows.
type Mood int

const (
	MoodNormal Mood = iota
	MoodWarning
	MoodUrgent
)

func (m Mood) String() string {
	switch m {
	case MoodWarning:
		return "warning"
	case MoodUrgent:
		return "urgent"
	default:
		return "normal"
	}
}

// Counts is the result of a classification pass.
type Counts struct {
	Urgent  int
	Warning int
}

// Mood maps the counts to a pet mood; urgent wins over warning.
func (c Counts) Mood() Mood {
	switch {
	case c.Urgent > 0:
		return MoodUrgent
	case c.Warning > 0:
		return MoodWarning
	default:
		return MoodNormal
	}
}

// UrgencyOf classifies one task. Completed tasks are never urgent.
// Overdue tasks count as urgent.
func UrgencyOf(t task.Task, now time.Time, th Thresholds) Urgency {
	if t.Completed {
		return UrgencyNone
	}
	th = th.Normalized()
	remaining := t.Deadline.Sub(now)
	switch {
	case remaining <= th.UrgentWithin:
		return UrgencyUrgent
	case remaining <= th.WarningWithin:
		return UrgencyWarning
	default:
		return UrgencyNone
	}
}

// Classify counts the pending tasks in the urgent and warning buckets.
func Classify(tasks []task.Task, now time.Time, th Thresholds) Counts {
	var c Counts
	for _, t := range tasks {
		switch UrgencyOf(t, now, th) {
		case UrgencyUrgent:
			c.Urgent++
		case UrgencyWarning:
			c.Warning++
		}
	}
	return c
}
