package output

import (
	"encoding/json"

	"todo-board/model"
	"todo-board/version"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) FormatTask(t model.Task) string {
	return marshalJSON(t)
}

func (f *JSONFormatter) FormatTaskList(tasks []model.Task) string {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return marshalJSON(tasks)
}

func (f *JSONFormatter) FormatStats(s model.Stats) string {
	return marshalJSON(s)
}

type themeJSON struct {
	DarkMode bool `json:"darkMode"`
}

func (f *JSONFormatter) FormatTheme(dark bool) string {
	return marshalJSON(themeJSON{DarkMode: dark})
}

type errorJSON struct {
	Error string `json:"error"`
}

func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

type messageJSON struct {
	Message string `json:"message"`
}

func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}

func (f *JSONFormatter) FormatVersion(v version.Info) string {
	return marshalJSON(v)
}
