package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mooreolith/todo-docker/internal/models"
)

const (
	boxOpen    = "☐"
	boxChecked = "✔"
)

var (
	_ list.Item         = todoItem{}
	_ list.ItemDelegate = itemDelegate{}
)

// todoItem wraps [models.Todo] to implement [list.Item].
//
// It carries the full id, item and done triple as rendered, which is what a toggle submits.
type todoItem struct {
	todo models.Todo
}

func (i todoItem) FilterValue() string { return i.todo.Item }

func (i todoItem) indicator() string {
	if i.todo.Done {
		return boxChecked
	}
	return boxOpen
}

// itemDelegate renders one todo per line: cursor, indicator, text and id.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}

	box := styles.help.Render(it.indicator())
	text := it.todo.Item
	if it.todo.Done {
		box = styles.ok.Render(it.indicator())
		text = styles.done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = styles.selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, box, text, styles.help.Render(fmt.Sprintf("#%d", it.todo.ID)))
}

// newTodoList creates the list model with single-line rows and no filtering, so
// letter keys stay free for actions.
func newTodoList(width, height int) list.Model {
	l := list.New(nil, itemDelegate{}, width, height)
	l.Title = "Todos"
	l.Styles.Title = styles.title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("todo", "todos")
	l.DisableQuitKeybindings()
	return l
}

// todoItems converts todos to list items in store order.
func todoItems(todos []models.Todo) []list.Item {
	items := make([]list.Item, len(todos))
	for i, todo := range todos {
		items[i] = todoItem{todo: todo}
	}
	return items
}

func countDone(todos []models.Todo) (done, pending int) {
	for _, todo := range todos {
		if todo.Done {
			done++
		} else {
			pending++
		}
	}
	return done, pending
}
