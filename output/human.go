package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"todo-board/model"
	"todo-board/version"
)

// HumanFormatter formats output for terminal display. Colors follow
// color.NoColor, so piped output stays plain.
type HumanFormatter struct {
	id      *color.Color
	todo    *color.Color
	doing   *color.Color
	done    *color.Color
	deleted *color.Color
	err     *color.Color
	label   *color.Color
}

func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{
		id:      color.New(color.FgHiBlack),
		todo:    color.New(color.FgYellow),
		doing:   color.New(color.FgCyan),
		done:    color.New(color.FgGreen),
		deleted: color.New(color.Faint, color.CrossedOut),
		err:     color.New(color.FgRed, color.Bold),
		label:   color.New(color.Bold),
	}
}

func (f *HumanFormatter) FormatTask(t model.Task) string {
	return f.formatTaskLine(t)
}

func (f *HumanFormatter) FormatTaskList(tasks []model.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}
	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

func (f *HumanFormatter) formatTaskLine(t model.Task) string {
	msg := t.Message
	suffix := ""
	if t.Deleted {
		msg = f.deleted.Sprint(msg)
		suffix = " (deleted)"
	}
	return fmt.Sprintf("%s %s %s%s\n", f.statusMark(t.Status), f.id.Sprintf("[%s]", t.ID), msg, suffix)
}

func (f *HumanFormatter) statusMark(s model.Status) string {
	switch s {
	case model.StatusToDo:
		return f.todo.Sprint("[ ]")
	case model.StatusDoing:
		return f.doing.Sprint("[*]")
	case model.StatusDone:
		return f.done.Sprint("[x]")
	default:
		return "[?]"
	}
}

func (f *HumanFormatter) FormatStats(s model.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d\n", f.label.Sprint("Total:  "), s.Total)
	fmt.Fprintf(&sb, "%s %d\n", f.label.Sprint("Visible:"), s.Visible)
	fmt.Fprintf(&sb, "%s %d\n", f.label.Sprint("Deleted:"), s.Deleted)
	for _, status := range model.Statuses {
		fmt.Fprintf(&sb, "  %-6s %d\n", status.Label()+":", s.ByStatus[status])
	}
	return sb.String()
}

func (f *HumanFormatter) FormatTheme(dark bool) string {
	if dark {
		return "Theme: dark\n"
	}
	return "Theme: light\n"
}

func (f *HumanFormatter) FormatError(err error) string {
	return f.err.Sprint("Error:") + " " + err.Error() + "\n"
}

func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

func (f *HumanFormatter) FormatVersion(v version.Info) string {
	return "todo-board " + v.String() + "\n"
}
