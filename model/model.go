package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the workflow column of a task.
// The persisted spelling of "done" is "document"; existing stored lists depend on it.
type Status string

const (
	StatusToDo  Status = "toDo"
	StatusDoing Status = "doing"
	StatusDone  Status = "document"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusToDo, StatusDoing, StatusDone}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusDoing, StatusDone:
		return true
	default:
		return false
	}
}

// Label is the human-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusToDo:
		return "To Do"
	case StatusDoing:
		return "Doing"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Next returns the following status, wrapping from Done to To Do.
func (s Status) Next() Status {
	switch s {
	case StatusToDo:
		return StatusDoing
	case StatusDoing:
		return StatusDone
	default:
		return StatusToDo
	}
}

// Prev returns the preceding status, wrapping from To Do to Done.
func (s Status) Prev() Status {
	switch s {
	case StatusDone:
		return StatusDoing
	case StatusDoing:
		return StatusToDo
	default:
		return StatusDone
	}
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch Status(raw) {
	case StatusToDo, StatusDoing, StatusDone:
		*s = Status(raw)
	case "done":
		*s = StatusDone
	default:
		return fmt.Errorf("unknown status %q", raw)
	}
	return nil
}

// ParseStatus accepts the persisted literals and the spellings a user would type.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "todo", "to-do", "to do", "to_do":
		return StatusToDo, nil
	case "doing":
		return StatusDoing, nil
	case "done", "document":
		return StatusDone, nil
	default:
		return "", fmt.Errorf("unknown status %q (valid: todo, doing, done)", v)
	}
}

// Filter selects which statuses a view shows.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterToDo  Filter = "todo"
	FilterDoing Filter = "doing"
	FilterDone  Filter = "done"
)

// Matches reports whether a task in status s passes the filter.
func (f Filter) Matches(s Status) bool {
	switch f {
	case FilterToDo:
		return s == StatusToDo
	case FilterDoing:
		return s == StatusDoing
	case FilterDone:
		return s == StatusDone
	default:
		return true
	}
}

func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterToDo
	case FilterToDo:
		return FilterDoing
	case FilterDoing:
		return FilterDone
	default:
		return FilterAll
	}
}

func (f Filter) Label() string {
	switch f {
	case FilterToDo:
		return "To Do"
	case FilterDoing:
		return "Doing"
	case FilterDone:
		return "Done"
	default:
		return "All"
	}
}

// ParseFilter maps user input to a Filter. Empty input means all.
func ParseFilter(v string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return FilterAll, nil
	case "todo", "to-do", "to do", "to_do":
		return FilterToDo, nil
	case "doing":
		return FilterDoing, nil
	case "done", "document":
		return FilterDone, nil
	default:
		return "", fmt.Errorf("unknown filter %q (valid: all, todo, doing, done)", v)
	}
}

// Task is one entry of the board. Field order matches the stored encoding.
type Task struct {
	ID      string `json:"id"`
	Message string `json:"msg"`
	Status  Status `json:"status"`
	Deleted bool   `json:"isDeleted"`
}

// AppState is everything that survives a restart.
type AppState struct {
	Tasks    []Task
	DarkMode bool
}

// NewState returns an initialized empty state.
func NewState() AppState {
	return AppState{
		Tasks:    []Task{},
		DarkMode: false,
	}
}

// View is the transient projection selected by the user. It is never persisted.
type View struct {
	Filter Filter
	Query  string
}

// Stats summarizes the list the way the debug footer shows it.
type Stats struct {
	Total    int            `json:"total"`
	Visible  int            `json:"visible"`
	Deleted  int            `json:"deleted"`
	ByStatus map[Status]int `json:"byStatus"`
}
