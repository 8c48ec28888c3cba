package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todopet/internal/task"
)

func dueIn(now time.Time, d time.Duration) task.Task {
	return task.Task{Deadline: now.Add(d)}
}

func TestClassifyUrgentBeatsWarning(t *testing.T) {
	now := at(2024, 9, 1, 12, 0)
	tasks := []task.Task{dueIn(now, 30*time.Minute), dueIn(now, 5*time.Hour)}

	c := Classify(tasks, now, Thresholds{})
	assert.Equal(t, Counts{Urgent: 1, Warning: 1}, c)
	assert.Equal(t, MoodUrgent, c.Mood())
}

func TestClassifyAllFarAway(t *testing.T) {
	now := at(2024, 9, 1, 12, 0)
	tasks := []task.Task{dueIn(now, 13*time.Hour), dueIn(now, 72*time.Hour)}

	c := Classify(tasks, now, Thresholds{})
	assert.Equal(t, Counts{}, c)
	assert.Equal(t, MoodNormal, c.Mood())
}

func TestClassifyBoundaries(t *testing.T) {
	now := at(2024, 9, 1, 12, 0)
	tests := []struct {
		name      string
		remaining time.Duration
		want      Urgency
	}{
		{"long overdue", -48 * time.Hour, UrgencyUrgent},
		{"due now", 0, UrgencyUrgent},
		{"one hour", time.Hour, UrgencyUrgent},
		{"just over an hour", time.Hour + time.Minute, UrgencyWarning},
		{"twelve hours", 12 * time.Hour, UrgencyWarning},
		{"just over twelve hours", 12*time.Hour + time.Minute, UrgencyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UrgencyOf(dueIn(now, tt.remaining), now, Thresholds{}))
		})
	}
}

func TestClassifySkipsCompleted(t *testing.T) {
	now := at(2024, 9, 1, 12, 0)
	done := dueIn(now, -time.Hour)
	done.Completed = true

	c := Classify([]task.Task{done, dueIn(now, 6*time.Hour)}, now, Thresholds{})
	assert.Equal(t, Counts{Warning: 1}, c)
	assert.Equal(t, MoodWarning, c.Mood())
}

func TestClassifyCustomThresholds(t *testing.T) {
	now := at(2024, 9, 1, 12, 0)
	th := Thresholds{UrgentWithin: 10 * time.Minute, WarningWithin: 2 * time.Hour}
	tasks := []task.Task{dueIn(now, 30*time.Minute), dueIn(now, 5*time.Hour)}

	assert.Equal(t, Counts{Warning: 1}, Classify(tasks, now, th))
}

func TestMoodStrings(t *testing.T) {
	assert.Equal(t, "normal", MoodNormal.String())
	assert.Equal(t, "warning", MoodWarning.String())
	assert.Equal(t, "urgent", MoodUrgent.String())
}
