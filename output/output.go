// Package output formats CLI results for terminals and for scripts.
package output

import (
	"todo-board/model"
	"todo-board/version"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t model.Task) string
	FormatTaskList(tasks []model.Task) string
	FormatStats(s model.Stats) string
	FormatTheme(dark bool) string
	FormatError(err error) string
	FormatMessage(msg string) string
	FormatVersion(v version.Info) string
}

// New returns the JSON formatter when asJSON is set, the human one otherwise.
func New(asJSON bool) Formatter {
	if asJSON {
		return NewJSONFormatter()
	}
	return NewHumanFormatter()
}
