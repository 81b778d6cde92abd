package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"todo-board/model"
)

var (
	ErrEmptyMessage   = errors.New("task message must not be empty")
	ErrInvalidMessage = errors.New("task message is not valid UTF-8")
	ErrInvalidStatus  = errors.New("invalid status")
)

// Persister writes the two persisted records. Each call replaces the whole record.
type Persister interface {
	SaveTasks(ctx context.Context, tasks []model.Task) error
	SaveDarkMode(ctx context.Context, dark bool) error
}

// Discard accepts every write and stores nothing.
var Discard Persister = discardPersister{}

type discardPersister struct{}

func (discardPersister) SaveTasks(context.Context, []model.Task) error { return nil }
func (discardPersister) SaveDarkMode(context.Context, bool) error      { return nil }

// Service holds domain rules and in-memory state.
// It has a single mutator; callers must not share it across goroutines.
type Service struct {
	tasks    []model.Task
	darkMode bool
	persist  Persister
	ids      *idSource
	fold     cases.Caser
	repaired int
}

// NewService creates a service from loaded state. Duplicate ids in the loaded
// list are re-issued so ids stay unique for the session.
func NewService(state model.AppState, p Persister) *Service {
	if p == nil {
		p = Discard
	}
	s := &Service{
		tasks:    copyTasks(state.Tasks),
		darkMode: state.DarkMode,
		persist:  p,
		ids:      newIDSource(),
		fold:     cases.Fold(),
	}
	s.repairIDs()
	return s
}

// RepairedIDs reports how many duplicate ids were replaced at construction.
func (s *Service) RepairedIDs() int {
	return s.repaired
}

// Tasks returns every task, deleted ones included, in insertion order.
func (s *Service) Tasks() []model.Task {
	return copyTasks(s.tasks)
}

// Task returns a task by id.
func (s *Service) Task(id string) (model.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *Service) DarkMode() bool {
	return s.darkMode
}

// Create appends a new To Do task. The message is stored as entered.
func (s *Service) Create(ctx context.Context, message string) (model.Task, error) {
	if strings.TrimSpace(message) == "" {
		return model.Task{}, ErrEmptyMessage
	}
	if !utf8.ValidString(message) {
		return model.Task{}, ErrInvalidMessage
	}
	task := model.Task{
		ID:      s.ids.next(s.hasID),
		Message: message,
		Status:  model.StatusToDo,
		Deleted: false,
	}
	s.tasks = append(s.tasks, task)
	return task, s.saveTasks(ctx)
}

// SetStatus moves a task to another column. An unknown id is a no-op.
func (s *Service) SetStatus(ctx context.Context, id string, status model.Status) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Status = status
	return true, s.saveTasks(ctx)
}

// SoftDelete hides a task from every view. An unknown id is a no-op.
func (s *Service) SoftDelete(ctx context.Context, id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Deleted = true
	return true, s.saveTasks(ctx)
}

// SoftDeleteAll marks every task deleted and returns how many were not already.
func (s *Service) SoftDeleteAll(ctx context.Context) (int, error) {
	n := 0
	for i := range s.tasks {
		if !s.tasks[i].Deleted {
			n++
		}
		s.tasks[i].Deleted = true
	}
	return n, s.saveTasks(ctx)
}

// ToggleDarkMode flips the theme preference and writes only that record.
func (s *Service) ToggleDarkMode(ctx context.Context) (bool, error) {
	s.darkMode = !s.darkMode
	if err := s.persist.SaveDarkMode(ctx, s.darkMode); err != nil {
		return s.darkMode, fmt.Errorf("persist dark mode: %w", err)
	}
	return s.darkMode, nil
}

// SetDarkMode writes the preference only when it changes.
func (s *Service) SetDarkMode(ctx context.Context, dark bool) error {
	if s.darkMode == dark {
		return nil
	}
	_, err := s.ToggleDarkMode(ctx)
	return err
}

// VisibleTasks projects the list through the filter and a case-insensitive search.
func (s *Service) VisibleTasks(filter model.Filter, query string) []model.Task {
	q := s.fold.String(query)
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Deleted {
			continue
		}
		if !filter.Matches(t.Status) {
			continue
		}
		if q != "" && !strings.Contains(s.fold.String(t.Message), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Stats counts the list for the debug footer and the stats command.
func (s *Service) Stats(filter model.Filter, query string) model.Stats {
	st := model.Stats{
		Total:    len(s.tasks),
		ByStatus: make(map[model.Status]int, len(model.Statuses)),
	}
	for _, status := range model.Statuses {
		st.ByStatus[status] = 0
	}
	for _, t := range s.tasks {
		if t.Deleted {
			st.Deleted++
			continue
		}
		st.ByStatus[t.Status]++
	}
	st.Visible = len(s.VisibleTasks(filter, query))
	return st
}

func (s *Service) saveTasks(ctx context.Context) error {
	if err := s.persist.SaveTasks(ctx, copyTasks(s.tasks)); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func (s *Service) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) hasID(id string) bool {
	return s.indexOf(id) >= 0
}

func (s *Service) repairIDs() {
	seen := make(map[string]bool, len(s.tasks))
	for i := range s.tasks {
		id := s.tasks[i].ID
		if id != "" && !seen[id] {
			seen[id] = true
			continue
		}
		fresh := s.ids.next(func(c string) bool { return seen[c] || s.hasID(c) })
		s.tasks[i].ID = fresh
		seen[fresh] = true
		s.repaired++
	}
}

func copyTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}
