package storage

import (
	"errors"
	"sort"
	"strings"
	"time"

	"todopet/internal/task"
)

// Store is the in-memory task list backed by a JSON snapshot file. It is
// not safe for concurrent use; the UI loop is its only caller.
type Store struct {
	path  string
	tasks []task.Task
	now   func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open reads the snapshot at path. A missing or corrupt snapshot is not an
// error: the store starts empty and the LoadResult says why.
func Open(path string, opts ...Option) (*Store, LoadResult, error) {
	if path == "" {
		return nil, LoadResult{}, errors.New("snapshot path is empty")
	}
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	res := s.Load()
	return s, res, nil
}

// Path is the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory tasks with the snapshot contents, or with an
// empty list when the snapshot is missing or corrupt.
func (s *Store) Load() LoadResult {
	res := ReadSnapshot(s.path)
	if res.Status != LoadOK {
		s.tasks = nil
		return res
	}
	s.tasks = res.Tasks
	return res
}

// Save writes every task to the snapshot. On failure the in-memory list is
// left as it was.
func (s *Store) Save() error {
	return WriteSnapshot(s.path, s.tasks)
}

// Add appends a task and returns it. A blank description is ignored and
// reported with ok=false.
func (s *Store) Add(description string, deadline time.Time, recurrence task.Recurrence) (t task.Task, ok bool) {
	description = strings.TrimSpace(description)
	if description == "" {
		return task.Task{}, false
	}
	t = task.Task{
		ID:          s.nextID(),
		Description: description,
		Deadline:    task.Truncate(deadline),
		Recurrence:  recurrence,
		CreatedAt:   task.Truncate(s.now()),
	}
	s.tasks = append(s.tasks, t)
	return t, true
}

// nextID is one past the highest id currently stored, so ids freed by
// deleting the newest task are handed out again.
func (s *Store) nextID() int {
	maxID := 0
	for _, t := range s.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// Toggle flips the completed flag of the task with the given id.
func (s *Store) Toggle(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return true
}

// Delete removes the task with the given id.
func (s *Store) Delete(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

func (s *Store) Get(id int) (task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// Mutate hands fn the stored tasks for in-place edits. fn must not retain
// the slice.
func (s *Store) Mutate(fn func(tasks []task.Task)) {
	fn(s.tasks)
}

// List returns the tasks in display order: pending before completed, then
// by deadline, then by id.
func (s *Store) List() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}
		return a.ID < b.ID
	})
	return out
}

func (s *Store) index(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
