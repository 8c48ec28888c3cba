package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"todopet/internal/task"
)

// LoadStatus says where the tasks in a LoadResult came from.
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadMissing
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// LoadResult is the outcome of reading a snapshot. Tasks is empty unless
// Status is LoadOK; Err holds the cause of a LoadCorrupt result.
type LoadResult struct {
	Status LoadStatus
	Tasks  []task.Task
	Err    error
}

// record is the on-disk shape of a task. The legacy fields are what the
// desktop widget wrote; they are only read, never written.
type record struct {
	ID          int             `json:"id"`
	Description string          `json:"description,omitempty"`
	Deadline    string          `json:"deadline"`
	Recurrence  task.Recurrence `json:"recurrence"`
	AnchorDay   int             `json:"anchor_day,omitempty"`
	Completed   bool            `json:"completed"`
	CreatedAt   string          `json:"created_at,omitempty"`

	LegacyTask    string `json:"task,omitempty"`
	LegacyRepeat  string `json:"repeat,omitempty"`
	LegacyCreated string `json:"created,omitempty"`
}

func toRecord(t task.Task) record {
	r := record{
		ID:          t.ID,
		Description: t.Description,
		Deadline:    task.FormatTime(t.Deadline),
		Recurrence:  t.Recurrence,
		Completed:   t.Completed,
	}
	if t.Recurrence == task.Monthly {
		r.AnchorDay = t.AnchorDay
	}
	if !t.CreatedAt.IsZero() {
		r.CreatedAt = task.FormatTime(t.CreatedAt)
	}
	return r
}

func (r record) toTask() (task.Task, error) {
	desc := r.Description
	if desc == "" {
		desc = r.LegacyTask
	}
	if strings.TrimSpace(desc) == "" {
		return task.Task{}, fmt.Errorf("task %d has no description", r.ID)
	}
	deadline, err := task.ParseTime(r.Deadline)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %d deadline: %w", r.ID, err)
	}
	recurrence := r.Recurrence
	if recurrence == task.None && r.LegacyRepeat != "" {
		if recurrence, err = task.ParseRecurrence(r.LegacyRepeat); err != nil {
			return task.Task{}, fmt.Errorf("task %d: %w", r.ID, err)
		}
	}
	if r.AnchorDay < 0 || r.AnchorDay > 31 {
		return task.Task{}, fmt.Errorf("task %d anchor_day %d out of range", r.ID, r.AnchorDay)
	}
	created := r.CreatedAt
	if created == "" {
		created = r.LegacyCreated
	}
	var createdAt time.Time
	if created != "" {
		if createdAt, err = task.ParseTime(created); err != nil {
			return task.Task{}, fmt.Errorf("task %d created_at: %w", r.ID, err)
		}
	}
	return task.Task{
		ID:          r.ID,
		Description: desc,
		Deadline:    deadline,
		Recurrence:  recurrence,
		Completed:   r.Completed,
		CreatedAt:   createdAt,
		AnchorDay:   r.AnchorDay,
	}, nil
}

// ReadSnapshot loads the task list stored at path. It never fails outright:
// a missing or unreadable file is reported through the result instead.
func ReadSnapshot(path string) LoadResult {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return LoadResult{Status: LoadMissing}
	}
	if err != nil {
		return LoadResult{Status: LoadCorrupt, Err: fmt.Errorf("reading snapshot %s: %w", path, err)}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return LoadResult{Status: LoadMissing}
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return LoadResult{Status: LoadCorrupt, Err: fmt.Errorf("parsing snapshot %s: %w", path, err)}
	}

	tasks := make([]task.Task, 0, len(records))
	for _, r := range records {
		t, err := r.toTask()
		if err != nil {
			return LoadResult{Status: LoadCorrupt, Err: fmt.Errorf("parsing snapshot %s: %w", path, err)}
		}
		tasks = append(tasks, t)
	}
	renumberDuplicates(tasks)
	return LoadResult{Status: LoadOK, Tasks: tasks}
}

// renumberDuplicates gives every task whose id is non-positive or already
// taken a fresh id past the current maximum. Older snapshots derived ids
// from the list length and can repeat them after a delete.
func renumberDuplicates(tasks []task.Task) {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	seen := make(map[int]struct{}, len(tasks))
	for i := range tasks {
		if _, dup := seen[tasks[i].ID]; dup || tasks[i].ID <= 0 {
			maxID++
			tasks[i].ID = maxID
		}
		seen[tasks[i].ID] = struct{}{}
	}
}

// WriteSnapshot replaces the file at path with tasks. The data goes to a
// temporary file in the same directory first, so a failed write leaves the
// previous snapshot intact.
func WriteSnapshot(path string, tasks []task.Task) error {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, toRecord(t))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot %s: %w", path, err)
	}
	return nil
}
