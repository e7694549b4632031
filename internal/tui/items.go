package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/idilsaglam/tododash/internal/model"
	"github.com/idilsaglam/tododash/internal/ui"
)

// listItem adapts a Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
	now  time.Time
}

func (i listItem) Title() string { return i.todo.Title }
func (i listItem) Description() string {
	return describe(i.todo, i.now)
}
func (i listItem) FilterValue() string { return i.todo.Title + " " + i.todo.Category }

// describe is the muted part of a row: priority, category, age and the
// creation date, or the completion date once the todo is done.
func describe(t model.Todo, now time.Time) string {
	parts := []string{"[" + model.PriorityLabel(t.Priority) + "]"}
	if t.Category != "" {
		parts = append(parts, t.Category)
	}
	if !t.CreatedAt.IsZero() {
		parts = append(parts,
			humanize.RelTime(t.CreatedAt, now, "ago", "from now"),
			model.FormatDate(t.CreatedAt))
	}
	if t.Done && t.DoneAt != nil {
		parts = append(parts, "done "+model.FormatDate(*t.DoneAt))
	}
	return strings.Join(parts, " · ")
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	th := ui.Current()

	box := th.Muted.Render(th.BoxUnchecked)
	title := it.todo.Title
	if title == "" {
		title = th.Muted.Render("(untitled)")
	}
	if it.todo.Done {
		box = th.Success.Render(th.BoxChecked)
		title = th.Done.Render(title)
	}

	maxTitle := m.Width() - 40
	if maxTitle > 10 && !it.todo.Done {
		title = ui.Truncate(title, maxTitle)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = th.Selected.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, box, title, th.Muted.Render(it.Description()))
}
