// Package session ties the store to the scheduler. It is what the UI talks
// to: user actions and the periodic tick both go through a Session, and
// each returns a Report describing what the pet should show.
package session

import (
	"time"

	"go.uber.org/zap"

	"todopet/internal/schedule"
	"todopet/internal/storage"
	"todopet/internal/task"
)

// Report is the state handed to the presentation layer after every action.
type Report struct {
	At      time.Time
	Tasks   []task.Task
	Counts  schedule.Counts
	Mood    schedule.Mood
	Pending int
	// SaveErr is set when the snapshot could not be written. The in-memory
	// tasks are still current.
	SaveErr error
}

type Session struct {
	store      *storage.Store
	thresholds schedule.Thresholds
	log        *zap.SugaredLogger
	now        func() time.Time
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func New(store *storage.Store, th schedule.Thresholds, log *zap.SugaredLogger, opts ...Option) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Session{
		store:      store,
		thresholds: th,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Thresholds() schedule.Thresholds {
	return s.thresholds
}

// Tick rolls recurring deadlines forward, classifies the pending tasks and
// saves the snapshot.
func (s *Session) Tick() Report {
	r := s.commit()
	s.log.Debugw("tick", "urgent", r.Counts.Urgent, "warning", r.Counts.Warning, "mood", r.Mood.String())
	return r
}

// Status reports the current state without advancing or saving.
func (s *Session) Status() Report {
	return s.report(s.now())
}

// Add creates a task, rolls recurring deadlines and saves. A blank
// description changes nothing and returns ok=false.
func (s *Session) Add(description string, deadline time.Time, rec task.Recurrence) (task.Task, bool, Report) {
	t, ok := s.store.Add(description, deadline, rec)
	if !ok {
		return t, false, s.Status()
	}
	s.log.Infow("added task", "id", t.ID, "deadline", task.FormatTime(t.Deadline), "recurrence", rec.String())
	r := s.commit()
	if rolled, ok := s.store.Get(t.ID); ok {
		t = rolled
	}
	return t, true, r
}

// Toggle flips completion of the task with the given id. A recurring task
// marked complete is rolled to its next occurrence and reopened straight
// away.
func (s *Session) Toggle(id int) (bool, Report) {
	if !s.store.Toggle(id) {
		return false, s.Status()
	}
	s.log.Infow("toggled task", "id", id)
	return true, s.commit()
}

func (s *Session) Delete(id int) (bool, Report) {
	if !s.store.Delete(id) {
		return false, s.Status()
	}
	s.log.Infow("deleted task", "id", id)
	return true, s.commit()
}

// ToggleAt toggles the task at a position in display order. Positions
// outside the list are ignored.
func (s *Session) ToggleAt(index int) (bool, Report) {
	id, ok := s.idAt(index)
	if !ok {
		return false, s.Status()
	}
	return s.Toggle(id)
}

func (s *Session) DeleteAt(index int) (bool, Report) {
	id, ok := s.idAt(index)
	if !ok {
		return false, s.Status()
	}
	return s.Delete(id)
}

func (s *Session) idAt(index int) (int, bool) {
	tasks := s.store.List()
	if index < 0 || index >= len(tasks) {
		return 0, false
	}
	return tasks[index].ID, true
}

// commit rolls recurring deadlines forward, then classifies and saves.
// Tick and every user action go through it.
func (s *Session) commit() Report {
	now := s.now()
	var rolled int
	s.store.Mutate(func(tasks []task.Task) {
		rolled = schedule.AdvanceAll(tasks, now)
	})
	if rolled > 0 {
		s.log.Infow("rolled recurring tasks", "count", rolled)
	}
	r := s.report(now)
	r.SaveErr = s.save()
	return r
}

func (s *Session) save() error {
	if err := s.store.Save(); err != nil {
		s.log.Errorw("saving snapshot", "path", s.store.Path(), "error", err)
		return err
	}
	return nil
}

func (s *Session) report(now time.Time) Report {
	tasks := s.store.List()
	counts := schedule.Classify(tasks, now, s.thresholds)
	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}
	return Report{
		At:      now,
		Tasks:   tasks,
		Counts:  counts,
		Mood:    counts.Mood(),
		Pending: pending,
	}
}
