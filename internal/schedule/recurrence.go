// Package schedule rolls recurring deadlines forward and classifies how
// urgent the pending tasks are.
package schedule

import (
	"time"

	"todopet/internal/task"
)

const week = 7 * 24 * time.Hour

// Advance returns t with its deadline moved to the next occurrence that is
// not before now. Recurring tasks come back with Completed cleared; tasks
// without a recurrence are returned unchanged. Calling Advance again with
// the same now is a no-op.
func Advance(t task.Task, now time.Time) task.Task {
	switch t.Recurrence {
	case task.Daily:
		t.Deadline = nextDaily(t.Deadline, now)
	case task.Weekly:
		t.Deadline = nextWeekly(t.Deadline, now)
	case task.Monthly:
		if t.AnchorDay == 0 {
			t.AnchorDay = t.Deadline.Day()
		}
		t.Deadline = nextMonthly(t.Deadline, t.AnchorDay, now)
	default:
		return t
	}
	t.Completed = false
	return t
}

// AdvanceAll applies Advance to every task in place and returns how many
// records changed.
func AdvanceAll(tasks []task.Task, now time.Time) int {
	changed := 0
	for i := range tasks {
		next := Advance(tasks[i], now)
		if !next.Deadline.Equal(tasks[i].Deadline) || next.Completed != tasks[i].Completed {
			changed++
		}
		tasks[i] = next
	}
	return changed
}

// nextDaily places the deadline's clock time on now's calendar day, or the
// day after if that has already passed.
func nextDaily(deadline, now time.Time) time.Time {
	deadline = deadline.In(now.Location())
	y, m, d := now.Date()
	candidate := time.Date(y, m, d, deadline.Hour(), deadline.Minute(), 0, 0, now.Location())
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func nextWeekly(deadline, now time.Time) time.Time {
	if !deadline.Before(now) {
		return deadline
	}
	// Jump close to now first; DST shifts can leave it an hour short, which
	// the loop below absorbs.
	weeks := int(now.Sub(deadline) / week)
	candidate := deadline.AddDate(0, 0, 7*weeks)
	for candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// nextMonthly steps whole calendar months from deadline, aiming each
// candidate at day so a clamped short month does not shorten the months
// after it.
func nextMonthly(deadline time.Time, day int, now time.Time) time.Time {
	if !deadline.Before(now) {
		return deadline
	}
	months := monthsBetween(deadline, now) - 1
	if months < 1 {
		months = 1
	}
	candidate := addMonthsClamped(deadline, months, day)
	for candidate.Before(now) {
		months++
		candidate = addMonthsClamped(deadline, months, day)
	}
	return candidate
}

// addMonthsClamped moves t forward n calendar months onto day d, keeping
// the clock time and clamping d to the last day of the target month.
func addMonthsClamped(t time.Time, n, d int) time.Time {
	y, m, _ := t.Date()
	total := int(m) - 1 + n
	ty := y + total/12
	tm := time.Month(total%12 + 1)
	if last := daysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthsBetween(from, to time.Time) int {
	fy, fm, _ := from.Date()
	ty, tm, _ := to.Date()
	return (ty-fy)*12 + int(tm) - int(fm)
}
