package tui

import (
	"github.com/charmbracelet/lipgloss"

	"todo-board/model"
)

type theme struct {
	name     string
	base     lipgloss.Style
	title    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	frame    lipgloss.Color
	ok       lipgloss.Style
	err      lipgloss.Style
	prompt   lipgloss.Style
	status   map[model.Status]lipgloss.Style
}

func themeFor(dark bool) theme {
	if dark {
		return darkTheme()
	}
	return lightTheme()
}

func darkTheme() theme {
	return theme{
		name:     "dark",
		base:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		frame:    lipgloss.Color("39"),
		ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		status: map[model.Status]lipgloss.Style{
			model.StatusToDo:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			model.StatusDoing: lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
			model.StatusDone:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		},
	}
}

func lightTheme() theme {
	return theme{
		name:     "light",
		base:     lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		frame:    lipgloss.Color("25"),
		ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		status: map[model.Status]lipgloss.Style{
			model.StatusToDo:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
			model.StatusDoing: lipgloss.NewStyle().Foreground(lipgloss.Color("31")),
			model.StatusDone:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		},
	}
}

// statusBadge renders the selector for one task, e.g. "‹ Doing ›".
func (t theme) statusBadge(s model.Status) string {
	style, ok := t.status[s]
	if !ok {
		style = t.muted
	}
	return style.Render("‹ " + padLabel(s.Label()) + " ›")
}

func padLabel(label string) string {
	const w = 5
	for len([]rune(label)) < w {
		label += " "
	}
	return label
}
