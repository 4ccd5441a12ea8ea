// package formatter renders todo lists for the command line (plain text, JSON, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mooreolith/todo-docker/internal/models"
	"github.com/mooreolith/todo-docker/internal/shared"
)

// Supported output formats.
const (
	Text     = "text"
	JSON     = "json"
	CSV      = "csv"
	Markdown = "markdown"
)

// Formats lists every format accepted by [Format], in help-text order.
var Formats = []string{Text, JSON, CSV, Markdown}

// Format renders todos in the named format. Names are case-insensitive and "md" and "txt" are accepted.
func Format(todos []models.Todo, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", Text, "txt":
		return ToText(todos)
	case JSON:
		return ToJSON(todos)
	case CSV:
		return ToCSV(todos)
	case Markdown, "md":
		return ToMarkdown(todos)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ToCSV converts todos to CSV with columns: ID, Item, Done
func ToCSV(todos []models.Todo) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Item", "Done"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, todo := range todos {
		record := []string{
			strconv.FormatInt(todo.ID, 10),
			todo.Item,
			strconv.FormatBool(todo.Done),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToJSON renders todos as an indented JSON array, using the same field names as GET /list.
func ToJSON(todos []models.Todo) ([]byte, error) {
	if todos == nil {
		todos = []models.Todo{}
	}

	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal todos: %w", err)
	}
	return append(data, '\n'), nil
}

// ToMarkdown renders todos as a task list under a heading with a completion summary.
func ToMarkdown(todos []models.Todo) ([]byte, error) {
	var buf bytes.Buffer

	done := countDone(todos)
	buf.WriteString("# Todos\n\n")
	buf.WriteString(fmt.Sprintf("**Done**: %d/%d\n\n", done, len(todos)))

	for _, todo := range todos {
		box := " "
		if todo.Done {
			box = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s (#%d)\n", box, escapeMarkdown(todo.Item), todo.ID))
	}

	return buf.Bytes(), nil
}

// ToText renders one numbered line per todo.
func ToText(todos []models.Todo) ([]byte, error) {
	var buf bytes.Buffer

	if len(todos) == 0 {
		buf.WriteString("No todos.\n")
		return buf.Bytes(), nil
	}

	width := len(strconv.FormatInt(maxID(todos), 10))
	for _, todo := range todos {
		box := "[ ]"
		if todo.Done {
			box = "[x]"
		}
		buf.WriteString(fmt.Sprintf("%*d. %s %s\n", width, todo.ID, box, todo.Item))
	}
	buf.WriteString(fmt.Sprintf("\n%d todos, %d done\n", len(todos), countDone(todos)))

	return buf.Bytes(), nil
}

// WriteExport renders todos in format and writes them to path.
func WriteExport(todos []models.Todo, format, path string) error {
	data, err := Format(todos, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func countDone(todos []models.Todo) int {
	n := 0
	for _, todo := range todos {
		if todo.Done {
			n++
		}
	}
	return n
}

func maxID(todos []models.Todo) int64 {
	var m int64
	for _, todo := range todos {
		m = max(m, todo.ID)
	}
	return m
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
