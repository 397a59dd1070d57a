package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"steward/command"
	"steward/config"
	"steward/engine"
	"steward/llm"
	"steward/task"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	outcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F2C14E"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#874BFD"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Strikethrough(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type viewMode int

const (
	viewChat viewMode = iota
	viewTasks
	viewDue
)

// turnMsg carries the engine's answer for one user message.
type turnMsg struct {
	turn engine.Turn
	err  error
}

// tasksMsg carries a fresh load of the task table.
type tasksMsg struct {
	tasks []task.Task
	err   error
}

// tableChangedMsg fires when the task file changes on disk.
type tableChangedMsg struct{}

type model struct {
	workspacePath string
	config        *config.Config
	engine        *engine.Engine
	store         *task.Store
	watcher       *task.Watcher

	input    textinput.Model
	viewport viewport.Model
	ready    bool

	currentView viewMode
	lines       []string
	tasks       []task.Task
	waiting     bool
	status      string
	width       int
	height      int
}

func newModel(workspacePath string, cfg *config.Config, eng *engine.Engine, store *task.Store, watcher *task.Watcher) model {
	input := textinput.New()
	input.Placeholder = "Tell me what you need to get done..."
	input.Prompt = "> "
	input.Focus()
	input.CharLimit = 0

	m := model{
		workspacePath: workspacePath,
		config:        cfg,
		engine:        eng,
		store:         store,
		watcher:       watcher,
		input:         input,
		currentView:   viewChat,
	}
	m.appendStyled(assistantStyle, "Welcome to Steward! Ask me to add, update, or complete tasks.")
	m.appendStyled(helpStyle, "Try: /tasks to see the table, /due for the week ahead, /quit to leave.")
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.reloadTasks(), m.watchForChanges())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			m.currentView = viewTasks
			m.syncViewport()
			return m, m.reloadTasks()
		case "ctrl+d":
			m.currentView = viewDue
			m.syncViewport()
			return m, m.reloadTasks()
		case "esc":
			if m.currentView != viewChat {
				m.currentView = viewChat
				m.syncViewport()
				return m, nil
			}
		case "ctrl+r":
			m.engine.Conversation().Reset()
			m.appendStyled(helpStyle, "Conversation reset. The task table is untouched.")
			m.syncViewport()
			return m, nil
		case "enter":
			if m.currentView == viewChat {
				return m, m.submit()
			}
			return m, m.reloadTasks()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		contentHeight := msg.Height - 6
		if contentHeight < 3 {
			contentHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentHeight
		}
		m.syncViewport()
		return m, nil

	case turnMsg:
		m.waiting = false
		if msg.err != nil {
			m.appendStyled(errorStyle, fmt.Sprintf("Error: %v", msg.err))
			m.syncViewport()
			return m, nil
		}
		m.appendTurn(msg.turn)
		m.syncViewport()
		if msg.turn.Changed() {
			return m, m.reloadTasks()
		}
		return m, nil

	case tasksMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not read the task table: %v", msg.err)
			return m, nil
		}
		m.tasks = msg.tasks
		m.syncViewport()
		return m, nil

	case tableChangedMsg:
		m.status = "Task table changed on disk."
		return m, tea.Batch(m.reloadTasks(), m.watchForChanges())
	}

	var cmds []tea.Cmd
	if m.currentView == viewChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "Starting steward..."
	}

	title := titleStyle.Render("Steward - Task Assistant")
	info := infoStyle.Render(fmt.Sprintf("Model: %s (%s) • Tasks: %d • Workspace: %s",
		llm.GetModelFromModel(m.config.Model),
		llm.GetProviderFromModel(m.config.Model),
		len(m.tasks),
		m.workspacePath,
	))

	sections := []string{title, info, m.viewport.View()}

	if m.status != "" {
		sections = append(sections, helpStyle.Render(m.status))
	}

	if m.currentView == viewChat {
		if m.waiting {
			sections = append(sections, helpStyle.Render("Thinking..."))
		}
		sections = append(sections, m.input.View())
		sections = append(sections, helpStyle.Render("Enter to send • Ctrl+T tasks • Ctrl+D due • Ctrl+R reset • Ctrl+C quit"))
	} else {
		sections = append(sections, helpStyle.Render("Esc to return to chat • Enter to refresh • Ctrl+C quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// submit sends the current input line, either to the model or to the
// slash command handler.
func (m *model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return nil
	}
	m.input.SetValue("")
	m.status = ""

	if strings.HasPrefix(text, "/") {
		return m.runSlashCommand(text)
	}

	m.appendStyled(userStyle, "> "+text)
	m.syncViewport()
	m.waiting = true

	eng := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), llm.DefaultTimeout)
		defer cancel()
		turn, err := eng.ProcessTurn(ctx, text)
		return turnMsg{turn: turn, err: err}
	}
}

// runSlashCommand handles the local commands that never reach the model.
func (m *model) runSlashCommand(text string) tea.Cmd {
	switch text {
	case "/tasks":
		m.currentView = viewTasks
		m.syncViewport()
		return m.reloadTasks()
	case "/due":
		m.currentView = viewDue
		m.syncViewport()
		return m.reloadTasks()
	case "/reset":
		m.engine.Conversation().Reset()
		m.appendStyled(helpStyle, "Conversation reset. The task table is untouched.")
		m.syncViewport()
		return nil
	case "/quit":
		return tea.Quit
	default:
		m.status = fmt.Sprintf("Unknown command: %s", text)
		return nil
	}
}

// appendTurn folds an engine turn into the chat transcript.
func (m *model) appendTurn(turn engine.Turn) {
	text := command.StripBlocks(turn.Reply)
	if text != "" {
		m.appendStyled(assistantStyle, text)
	}

	if turn.Outcome == nil {
		return
	}
	if turn.Outcome.Clarification {
		if !strings.Contains(text, turn.Outcome.Message) {
			m.appendStyled(assistantStyle, turn.Outcome.Message)
		}
		return
	}
	m.appendStyled(outcomeStyle, "✔ "+turn.Outcome.Message)
}

func (m *model) appendStyled(style lipgloss.Style, text string) {
	for _, line := range wrapText(text, m.wrapWidth()) {
		m.lines = append(m.lines, style.Render(line))
	}
}

func (m *model) wrapWidth() int {
	if m.width > 4 {
		return m.width - 2
	}
	return 80
}

// syncViewport rebuilds the viewport content for the current view.
func (m *model) syncViewport() {
	if !m.ready {
		return
	}
	switch m.currentView {
	case viewTasks:
		m.viewport.SetContent(renderTaskTable(m.tasks, "All tasks"))
	case viewDue:
		due := task.DueWithin(m.tasks, time.Now(), 7)
		m.viewport.SetContent(renderTaskTable(due, "Due within 7 days"))
	default:
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
	}
}

// reloadTasks loads the task table off the Update loop.
func (m model) reloadTasks() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		tasks, err := store.Load()
		return tasksMsg{tasks: tasks, err: err}
	}
}

// watchForChanges blocks on the file watcher and re-arms after each hit.
func (m model) watchForChanges() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return tableChangedMsg{}
	}
}

// renderTaskTable formats tasks as a fixed-width table.
func renderTaskTable(tasks []task.Task, title string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	if len(tasks) == 0 {
		b.WriteString("Nothing here.")
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-30s %-12s %-16s %-10s",
		"ID", "Task", "Due Date", "Assigned To", "Status")))
	b.WriteString("\n")

	for _, t := range tasks {
		row := fmt.Sprintf("%-4d %-30s %-12s %-16s %-10s",
			t.ID,
			truncate(t.Title, 30),
			truncate(t.DueDate, 12),
			truncate(t.AssignedTo, 16),
			t.Status,
		)
		if t.Status == task.StatusCompleted {
			row = completedStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

// truncate shortens s to at most max characters.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// wrapText wraps text to the given width, preserving explicit newlines.
func wrapText(text string, width int) []string {
	if width <= 0 {
		width = 80
	}

	var wrapped []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			wrapped = append(wrapped, paragraph)
			continue
		}

		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) >= width {
				wrapped = append(wrapped, line)
				line = word
				continue
			}
			line += " " + word
		}
		wrapped = append(wrapped, line)
	}

	return wrapped
}

// StartTUI initializes and starts the TUI interface
func StartTUI(workspacePath string, cfg *config.Config, eng *engine.Engine, store *task.Store, watcher *task.Watcher) error {
	m := newModel(workspacePath, cfg, eng, store, watcher)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("TUI exited with error")
		return err
	}
	return nil
}
