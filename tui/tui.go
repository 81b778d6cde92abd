package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"todo-board/app"
	"todo-board/logging"
	"todo-board/model"
	"todo-board/store"
)

const (
	emptyText       = "No tasks yet. Add your first task above!"
	noMatchText     = "No tasks match the current filter or search."
	confirmAllText  = "Delete all tasks? [y/N]"
	defaultWidth    = 80
	readyStatusText = "Ready"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeAdd
	modeSearch
	modeConfirmDeleteAll
)

// SlotProber reports whether a storage slot currently holds data.
// store.Repository implements it.
type SlotProber interface {
	Exists(ctx context.Context, key string) (bool, error)
}

type Options struct {
	Context context.Context
	Logger  *log.Logger
	Probe   SlotProber
	// StartupStatus replaces the initial status line, e.g. load diagnostics.
	StartupStatus string
	StartupError  bool
}

type Model struct {
	ctx    context.Context
	svc    *app.Service
	logger *log.Logger
	probe  SlotProber

	mode   uiMode
	cursor int
	view   model.View

	add    textinput.Model
	search textinput.Model
	keys   keyMap
	help   help.Model

	showHelp  bool
	status    string
	statusErr bool
	slotState string

	width  int
	height int
	theme  theme
}

func NewModel(svc *app.Service, opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	add := textinput.New()
	add.Prompt = "+ "
	add.Placeholder = "What needs to be done?"

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search tasks"

	m := &Model{
		ctx:    ctx,
		svc:    svc,
		logger: logger,
		probe:  opts.Probe,
		mode:   modeNormal,
		view:   model.View{Filter: model.FilterAll},
		add:    add,
		search: search,
		keys:   defaultKeyMap(),
		help:   help.New(),
		theme:  themeFor(svc.DarkMode()),
	}

	status := strings.TrimSpace(opts.StartupStatus)
	switch {
	case status != "":
		m.setStatus(status, opts.StartupError)
	case len(svc.VisibleTasks(model.FilterAll, "")) == 0:
		m.setStatus("Press a to add your first task", false)
	default:
		m.setStatus(readyStatusText, false)
	}
	m.refreshSlotState()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.add.Width = m.inputWidth()
		m.search.Width = m.inputWidth()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m, m.updateAddMode(msg)
		case modeSearch:
			return m, m.updateSearchMode(msg)
		case modeConfirmDeleteAll:
			m.updateConfirmMode(msg)
		default:
			return m, m.updateNormalMode(msg)
		}
	}
	return m, nil
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.add.Reset()
		return m.add.Focus()
	case key.Matches(msg, m.keys.Prev):
		m.shiftSelectedStatus(-1)
	case key.Matches(msg, m.keys.Next):
		m.shiftSelectedStatus(1)
	case key.Matches(msg, m.keys.ToDo):
		m.setSelectedStatus(model.StatusToDo)
	case key.Matches(msg, m.keys.Doing):
		m.setSelectedStatus(model.StatusDoing)
	case key.Matches(msg, m.keys.Done):
		m.setSelectedStatus(model.StatusDone)
	case key.Matches(msg, m.keys.Delete):
		m.deleteSelected()
	case key.Matches(msg, m.keys.DeleteAll):
		m.startDeleteAll()
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.view.Query)
		m.setStatus("Incremental search: type to filter, Enter keeps it, Esc clears", false)
		return m.search.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.view.Filter = m.view.Filter.Next()
		m.cursor = 0
		m.setStatus("Filter: "+m.view.Filter.Label(), false)
	case key.Matches(msg, m.keys.Clear):
		if m.showHelp {
			m.showHelp = false
			break
		}
		if m.view.Query != "" {
			m.clearSearch()
			m.setStatus("Search cleared", false)
		}
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	m.ensureSelection()
	return nil
}

func (m *Model) updateAddMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.add.Blur()
		m.add.Reset()
		m.mode = modeNormal
		m.setStatus(readyStatusText, false)
		return nil
	case tea.KeyEnter:
		m.submitAdd()
		return nil
	}
	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	return cmd
}

// submitAdd creates a task from the input line. Blank input is ignored and
// the line stays focused so several tasks can be entered in a row.
func (m *Model) submitAdd() {
	task, err := m.svc.Create(m.ctx, m.add.Value())
	if errors.Is(err, app.ErrEmptyMessage) {
		return
	}
	if errors.Is(err, app.ErrInvalidMessage) {
		m.setStatus(err.Error(), true)
		return
	}
	m.add.Reset()
	m.selectTask(task.ID)
	m.afterWrite("Task added", err)
}

func (m *Model) updateSearchMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.clearSearch()
		m.setStatus("Search cleared", false)
		return nil
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeNormal
		if m.view.Query == "" {
			m.setStatus("Search cleared", false)
		} else {
			m.setStatus(fmt.Sprintf("Search: %q", m.view.Query), false)
		}
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.Query = m.search.Value()
	m.cursor = 0
	m.ensureSelection()
	return cmd
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) {
	m.mode = modeNormal
	if msg.String() != "y" && msg.String() != "Y" {
		m.setStatus("Delete all cancelled", false)
		return
	}
	n, err := m.svc.SoftDeleteAll(m.ctx)
	m.cursor = 0
	m.afterWrite(fmt.Sprintf("Deleted %d tasks", n), err)
}

func (m *Model) startDeleteAll() {
	if len(m.svc.VisibleTasks(model.FilterAll, "")) == 0 {
		m.setStatus("Nothing to delete", false)
		return
	}
	m.mode = modeConfirmDeleteAll
	m.setStatus(confirmAllText, false)
}

func (m *Model) shiftSelectedStatus(delta int) {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	next := task.Status.Next()
	if delta < 0 {
		next = task.Status.Prev()
	}
	m.applyStatus(task, next)
}

func (m *Model) setSelectedStatus(status model.Status) {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	if task.Status == status {
		m.setStatus("Already "+status.Label(), false)
		return
	}
	m.applyStatus(task, status)
}

func (m *Model) applyStatus(task model.Task, status model.Status) {
	changed, err := m.svc.SetStatus(m.ctx, task.ID, status)
	if !changed && err == nil {
		return
	}
	m.logger.Debug("status changed", "id", task.ID, "from", task.Status, "to", status)
	if m.view.Filter.Matches(status) {
		m.selectTask(task.ID)
	}
	m.afterWrite(fmt.Sprintf("Moved to %s", status.Label()), err)
}

func (m *Model) deleteSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	changed, err := m.svc.SoftDelete(m.ctx, task.ID)
	if !changed && err == nil {
		return
	}
	m.afterWrite("Task deleted", err)
}

func (m *Model) toggleTheme() {
	dark, err := m.svc.ToggleDarkMode(m.ctx)
	m.theme = themeFor(dark)
	m.afterWrite("Theme: "+m.theme.name, err)
}

// afterWrite reports the outcome of a mutation. The in-memory change stands
// even when saving failed.
func (m *Model) afterWrite(success string, err error) {
	m.ensureSelection()
	m.refreshSlotState()
	if err != nil {
		m.logger.Error("save failed", "action", success, "err", err)
		m.setStatus(success+", but saving failed: "+err.Error(), true)
		return
	}
	m.setStatus(success, false)
}

func (m *Model) clearSearch() {
	m.search.Blur()
	m.search.Reset()
	m.view.Query = ""
	m.cursor = 0
	m.mode = modeNormal
	m.ensureSelection()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) refreshSlotState() {
	if m.probe == nil {
		m.slotState = ""
		return
	}
	exists, err := m.probe.Exists(m.ctx, store.KeyTasks)
	switch {
	case err != nil:
		m.logger.Warn("probe slot", "key", store.KeyTasks, "err", err)
		m.slotState = "unknown"
	case exists:
		m.slotState = "exists"
	default:
		m.slotState = "empty"
	}
}

func (m *Model) visibleTasks() []model.Task {
	return m.svc.VisibleTasks(m.view.Filter, m.view.Query)
}

func (m *Model) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	m.cursor = clamp(m.cursor, 0, len(tasks)-1)
	return tasks[m.cursor], true
}

func (m *Model) selectTask(id string) {
	for i, t := range m.visibleTasks() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) moveCursor(delta int) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(tasks)-1)
}

func (m *Model) ensureSelection() {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, len(tasks)-1)
}

func (m *Model) View() string {
	t := m.theme
	viewW := m.viewportWidth()

	summary := fmt.Sprintf("filter: %s • theme: %s", m.view.Filter.Label(), t.name)
	if m.view.Query != "" {
		summary += fmt.Sprintf(" • search: %q", m.view.Query)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		t.title.Render("todo-board"),
		t.muted.Render("  "+summary),
	)

	lines := []string{m.add.View()}
	if m.mode == modeSearch || m.view.Query != "" {
		lines = append(lines, m.search.View())
	}
	lines = append(lines, "")
	lines = append(lines, m.renderTasks(viewW-4)...)

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.frame).
		Padding(0, 1).
		Width(viewW - 2).
		Render(strings.Join(lines, "\n"))

	statusStyle := t.ok
	if m.statusErr {
		statusStyle = t.err
	}
	if m.mode == modeConfirmDeleteAll {
		statusStyle = t.prompt
	}

	parts := []string{
		header,
		panel,
		m.renderFooter(statusStyle),
		t.muted.Render(m.renderStats()),
	}
	m.help.ShowAll = m.showHelp
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n")
}

func (m *Model) renderTasks(width int) []string {
	t := m.theme
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		if len(m.svc.VisibleTasks(model.FilterAll, "")) == 0 {
			return []string{t.muted.Italic(true).Render(emptyText)}
		}
		return []string{t.muted.Italic(true).Render(noMatchText)}
	}

	const badgeW = 10
	msgW := width - badgeW - 3
	if msgW < 8 {
		msgW = 8
	}

	lines := make([]string, 0, len(tasks))
	for i, task := range tasks {
		cursor := "  "
		textStyle := t.base
		if task.Status == model.StatusDone {
			textStyle = t.muted.Strikethrough(true)
		}
		if i == m.cursor {
			cursor = "▸ "
			textStyle = textStyle.Inherit(t.selected)
		}
		msg := truncateRunes(singleLine(task.Message), msgW)
		pad := msgW - utf8.RuneCountInString(msg)
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, cursor+textStyle.Render(msg)+strings.Repeat(" ", pad+1)+t.statusBadge(task.Status))
	}
	return lines
}

func (m *Model) renderFooter(statusStyle lipgloss.Style) string {
	left := strings.TrimSpace(m.status)
	if left == "" {
		left = readyStatusText
	}
	right := "? help"
	if m.showHelp {
		right = "? close help"
	}

	width := m.viewportWidth()
	rightW := utf8.RuneCountInString(right)
	if utf8.RuneCountInString(left)+rightW+1 > width {
		maxLeft := width - rightW - 1
		if maxLeft < 8 {
			maxLeft = 8
		}
		left = truncateRunes(left, maxLeft)
	}
	padding := width - utf8.RuneCountInString(left) - rightW
	if padding < 1 {
		padding = 1
	}
	return statusStyle.Render(left) + strings.Repeat(" ", padding) + m.theme.muted.Render(right)
}

// renderStats is the debug footer: counts plus whether the tasks slot is stored.
func (m *Model) renderStats() string {
	st := m.svc.Stats(m.view.Filter, m.view.Query)
	parts := []string{
		fmt.Sprintf("total: %d", st.Total),
		fmt.Sprintf("visible: %d", st.Visible),
		fmt.Sprintf("deleted: %d", st.Deleted),
	}
	for _, s := range model.Statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", strings.ToLower(s.Label()), st.ByStatus[s]))
	}
	if m.slotState != "" {
		parts = append(parts, fmt.Sprintf("slot %s: %s", store.KeyTasks, m.slotState))
	}
	return strings.Join(parts, " • ")
}

func (m *Model) viewportWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	// Keep the last column free; some terminals wrap on it.
	if m.width > 1 {
		return m.width - 1
	}
	return m.width
}

func (m *Model) inputWidth() int {
	w := m.viewportWidth() - 10
	if w < 10 {
		w = 10
	}
	return w
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Run starts the full-screen program and blocks until it exits.
func Run(svc *app.Service, opts Options) error {
	p := tea.NewProgram(NewModel(svc, opts), tea.WithAltScreen(), tea.WithContext(contextOf(opts)))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func contextOf(opts Options) context.Context {
	if opts.Context == nil {
		return context.Background()
	}
	return opts.Context
}
