package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mooreolith/todo-docker/internal/models"
	"github.com/mooreolith/todo-docker/internal/services"
)

const (
	defaultWidth  = 80
	defaultHeight = 20
	chromeHeight  = 4
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	client services.TodoClient
	logger *log.Logger
	todos  []models.Todo
	list   list.Model
	input  textinput.Model
	adding bool
	err    string // failure payload of the last list; replaces the rows
	notice string // failure payload of the last mutation
	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model talking to client.
func NewModel(ctx context.Context, client services.TodoClient, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}

	input := textinput.New()
	input.Prompt = "New todo: "
	input.Placeholder = "buy milk"
	input.CharLimit = 200

	return &Model{
		ctx:    ctx,
		client: client,
		logger: logger,
		todos:  []models.Todo{},
		list:   newTodoList(defaultWidth, defaultHeight),
		input:  input,
		width:  defaultWidth,
		height: defaultHeight,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Run starts the program in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, client services.TodoClient, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(ctx, client, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads the list.
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-chromeHeight, 1))
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgListed:
			return m.handleListed(msg.data.(listed))
		case MsgMutated:
			return m.handleMutated(msg.data.(mutated))
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.handleInputKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleListed rebuilds the rows from scratch on success.
func (m *Model) handleListed(res listed) (tea.Model, tea.Cmd) {
	if res.err != nil {
		var apiErr *services.APIError
		if errors.As(res.err, &apiErr) {
			m.err = apiErr.Error()
			m.todos = []models.Todo{}
			return m, m.list.SetItems(nil)
		}
		m.logger.Error("refresh failed", "error", res.err)
		return m, nil
	}

	m.err = ""
	m.todos = res.todos
	cmd := m.list.SetItems(todoItems(res.todos))
	if n := len(res.todos); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	done, pending := countDone(res.todos)
	m.list.Title = fmt.Sprintf("Todos  %s %d  • %d", boxChecked, done, pending)
	return m, cmd
}

// handleMutated always lists again, whatever the outcome.
func (m *Model) handleMutated(res mutated) (tea.Model, tea.Cmd) {
	m.notice = ""
	if res.err != nil {
		var apiErr *services.APIError
		if errors.As(res.err, &apiErr) {
			m.notice = fmt.Sprintf("%s failed: %s", res.op, apiErr.Error())
		} else {
			m.logger.Error("request failed", "op", res.op, "error", res.err)
		}
	}
	return m, m.fetch()
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.toggle):
		if todo, ok := m.selected(); ok {
			return m, m.update(todo.ID, todo.Item, !todo.Done)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if todo, ok := m.selected(); ok {
			return m, m.remove(todo.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetch()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		item := m.input.Value()
		m.closeInput()
		return m, m.add(item)
	case key.Matches(msg, m.keys.cancel):
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.input.Blur()
	m.input.SetValue("")
}

// selected returns the todo under the cursor as it was last rendered.
func (m *Model) selected() (models.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return models.Todo{}, false
	}
	return it.todo, true
}

func (m *Model) fetch() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.client.List(m.ctx)
		return listedMsg(todos, err)
	}
}

func (m *Model) add(item string) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg("add", m.client.Add(m.ctx, item))
	}
}

func (m *Model) update(id int64, item string, done bool) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg("update", m.client.Update(m.ctx, id, item, done))
	}
}

func (m *Model) remove(id int64) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg("remove", m.client.Remove(m.ctx, id))
	}
}

// View renders the rows, or the list error in their place, followed by the prompt and help.
func (m *Model) View() string {
	var b strings.Builder

	if m.err != "" {
		b.WriteString(styles.title.Render("Todos"))
		b.WriteString("\n\n")
		b.WriteString(styles.err.Render("Error: " + m.err))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(m.keys.inputHelp()))
		return b.String()
	}

	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}
