package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todopet/internal/schedule"
	"todopet/internal/storage"
	"todopet/internal/task"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func newTestSession(t *testing.T, path string) (*Session, *clock) {
	t.Helper()

	c := &clock{t: time.Date(2024, 6, 3, 10, 0, 0, 0, time.Local)}
	st, _, err := storage.Open(path, storage.WithClock(c.now))
	require.NoError(t, err)
	return New(st, schedule.Thresholds{}, nil, WithClock(c.now)), c
}

func TestTickRollsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	s, c := newTestSession(t, path)

	_, ok, _ := s.Add("stand-up", time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local), task.Daily)
	require.True(t, ok)
	_, ok, _ = s.Add("report", c.t.Add(5*time.Hour), task.None)
	require.True(t, ok)

	ok, r := s.Toggle(1)
	require.True(t, ok)
	require.NoError(t, r.SaveErr)

	r = s.Tick()
	require.NoError(t, r.SaveErr)
	require.Len(t, r.Tasks, 2)

	// The stand-up already happened today, so it moves to tomorrow and is
	// open again.
	standup := r.Tasks[1]
	assert.Equal(t, 1, standup.ID)
	assert.False(t, standup.Completed)
	assert.True(t, standup.Deadline.Equal(time.Date(2024, 6, 4, 9, 0, 0, 0, time.Local)))

	assert.Equal(t, schedule.Counts{Warning: 1}, r.Counts)
	assert.Equal(t, schedule.MoodWarning, r.Mood)
	assert.Equal(t, 2, r.Pending)

	reloaded := storage.ReadSnapshot(path)
	require.Equal(t, storage.LoadOK, reloaded.Status)
	for _, tk := range reloaded.Tasks {
		if tk.ID == 1 {
			assert.True(t, tk.Deadline.Equal(standup.Deadline))
		}
	}
}

func TestTickMoodFollowsClock(t *testing.T) {
	s, c := newTestSession(t, filepath.Join(t.TempDir(), "todos.json"))
	s.Add("deploy", c.t.Add(20*time.Hour), task.None)

	assert.Equal(t, schedule.MoodNormal, s.Tick().Mood)

	c.t = c.t.Add(10 * time.Hour)
	assert.Equal(t, schedule.MoodWarning, s.Tick().Mood)

	c.t = c.t.Add(9*time.Hour + 30*time.Minute)
	assert.Equal(t, schedule.MoodUrgent, s.Tick().Mood)

	c.t = c.t.Add(24 * time.Hour)
	r := s.Tick()
	assert.Equal(t, schedule.MoodUrgent, r.Mood)
	assert.Equal(t, 1, r.Counts.Urgent)

	s.Toggle(1)
	assert.Equal(t, schedule.MoodNormal, s.Tick().Mood)
}

func TestActionsByIndex(t *testing.T) {
	s, c := newTestSession(t, filepath.Join(t.TempDir(), "todos.json"))
	s.Add("later", c.t.Add(48*time.Hour), task.None)
	s.Add("sooner", c.t.Add(2*time.Hour), task.None)

	ok, r := s.ToggleAt(0)
	require.True(t, ok)
	assert.Equal(t, "later", r.Tasks[0].Description)
	assert.Equal(t, "sooner", r.Tasks[1].Description)
	assert.True(t, r.Tasks[1].Completed)

	ok, _ = s.ToggleAt(2)
	assert.False(t, ok)
	ok, _ = s.DeleteAt(-1)
	assert.False(t, ok)

	ok, r = s.DeleteAt(1)
	require.True(t, ok)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "later", r.Tasks[0].Description)
}

func TestAddBlankIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	s, c := newTestSession(t, path)

	_, ok, r := s.Add("  ", c.t, task.None)
	assert.False(t, ok)
	assert.Empty(t, r.Tasks)
	assert.NoFileExists(t, path)
}

func TestSaveErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	s, c := newTestSession(t, filepath.Join(blocker, "todos.json"))

	_, ok, r := s.Add("still here", c.t.Add(time.Hour), task.None)
	require.True(t, ok)
	assert.Error(t, r.SaveErr)
	assert.Len(t, r.Tasks, 1)

	r = s.Tick()
	assert.Error(t, r.SaveErr)
	assert.Equal(t, schedule.MoodUrgent, r.Mood)
}

func TestToggleRecurringReopensAtOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	s, c := newTestSession(t, path)
	due := c.t.Add(30 * time.Minute)

	s.Add("standup", due, task.Daily)
	require.Equal(t, schedule.MoodUrgent, s.Tick().Mood)

	ok, r := s.Toggle(1)
	require.True(t, ok)
	require.Len(t, r.Tasks, 1)
	assert.False(t, r.Tasks[0].Completed)
	assert.True(t, r.Tasks[0].Deadline.Equal(due))
	assert.Equal(t, schedule.Counts{Urgent: 1}, r.Counts)
	assert.Equal(t, schedule.MoodUrgent, r.Mood)

	saved := storage.ReadSnapshot(path)
	require.Equal(t, storage.LoadOK, saved.Status)
	require.Len(t, saved.Tasks, 1)
	assert.False(t, saved.Tasks[0].Completed)
}

func TestAddRollsDailyDeadlineIn(t *testing.T) {
	s, c := newTestSession(t, filepath.Join(t.TempDir(), "todos.json"))

	added, ok, r := s.Add("vitamins", c.t.AddDate(0, 0, 5).Add(-time.Hour), task.Daily)
	require.True(t, ok)
	want := time.Date(2024, 6, 4, 9, 0, 0, 0, time.Local)
	assert.True(t, added.Deadline.Equal(want), "got %s", added.Deadline)
	require.Len(t, r.Tasks, 1)
	assert.True(t, r.Tasks[0].Deadline.Equal(want))
	assert.Equal(t, schedule.MoodNormal, r.Mood)
}
