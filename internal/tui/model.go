// Package tui is the interactive dashboard: the todo list, the new-todo
// form and the two analytics charts.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tododash/internal/chart"
	"github.com/idilsaglam/tododash/internal/model"
	"github.com/idilsaglam/tododash/internal/state"
	"github.com/idilsaglam/tododash/internal/syncer"
	"github.com/idilsaglam/tododash/internal/ui"
	"github.com/idilsaglam/tododash/internal/view"
)

// storeChangedMsg is sent by the store observer after every mutation.
type storeChangedMsg struct{ change state.Change }

// syncDoneMsg marks the end of a controller operation chain.
type syncDoneMsg struct{}

type Model struct {
	ctx    context.Context
	ctrl   *syncer.Controller
	store  *state.Store
	charts *chart.Terminal
	now    func() time.Time

	list   list.Model
	ti     textinput.Model // draft title
	adding bool            // true when the draft form has focus
	keys   keyMap
	help   help.Model

	width, height int
	inflight      int
}

// New builds the dashboard model. charts is the renderer the controller's
// chart board draws into.
func New(ctx context.Context, ctrl *syncer.Controller, charts *chart.Terminal) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.PaginationStyle = ui.Current().Help
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New todo title..."
	ti.CharLimit = 200

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		store:  ctrl.Store(),
		charts: charts,
		now:    time.Now,
		list:   l,
		ti:     ti,
		keys:   defaultKeys(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

// Init loads everything once, the mount event.
func (m Model) Init() tea.Cmd {
	return m.run(m.ctrl.LoadTodos)
}

// run executes a controller operation off the update loop. Failures are
// already logged by the controller and are not shown.
func (m Model) run(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = op(ctx)
		return syncDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case storeChangedMsg:
		return m, m.sync(msg.change)

	case syncDoneMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		return m, m.sync(state.TodosChanged)

	case tea.KeyMsg:
		if m.adding {
			return m.updateForm(msg)
		}
		if m.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			it, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			id := it.todo.ID
			m.inflight++
			return m, m.run(func(ctx context.Context) error { return m.ctrl.ToggleTodo(ctx, id) })
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.ti.SetValue(m.store.Draft().Title)
			m.ti.CursorEnd()
			m.resize()
			return m, m.ti.Focus()
		case key.Matches(msg, m.keys.Refresh):
			m.inflight++
			return m, m.run(m.ctrl.Refresh)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.store.Draft()
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.ti.Blur()
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.adding = false
		m.ti.Blur()
		m.resize()
		m.inflight++
		return m, m.run(m.ctrl.SubmitDraft)
	case key.Matches(msg, m.keys.NextCategory):
		d.Category = cycle(model.Categories, d.Category, 1)
		m.store.SetDraft(d)
		return m, nil
	case key.Matches(msg, m.keys.PrevCategory):
		d.Category = cycle(model.Categories, d.Category, -1)
		m.store.SetDraft(d)
		return m, nil
	case key.Matches(msg, m.keys.PriorityUp):
		d.Priority = min(d.Priority+1, 3)
		m.store.SetDraft(d)
		return m, nil
	case key.Matches(msg, m.keys.PriorityDown):
		d.Priority = max(d.Priority-1, 1)
		m.store.SetDraft(d)
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if v := m.ti.Value(); v != d.Title {
		d.Title = v
		m.store.SetDraft(d)
	}
	return m, cmd
}

// sync pulls the latest store contents into the widgets.
func (m *Model) sync(change state.Change) tea.Cmd {
	switch change {
	case state.DraftChanged:
		if t := m.store.Draft().Title; t != m.ti.Value() {
			m.ti.SetValue(t)
		}
		return nil
	case state.AnalyticsChanged:
		return nil
	}

	var selected string
	if it, ok := m.list.SelectedItem().(listItem); ok {
		selected = it.todo.ID
	}
	now := m.now()
	todos := m.store.DisplayTodos()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t, now: now})
	}
	cmd := m.list.SetItems(items)
	if i := slices.IndexFunc(todos, func(t model.Todo) bool { return t.ID == selected }); i >= 0 {
		m.list.Select(i)
	}
	return cmd
}

func (m *Model) resize() {
	chartW := max((m.width-8)/2, 20)
	m.charts.SetWidth(chartW)

	listH := m.height - 16
	if m.adding {
		listH -= 5
	}
	m.list.SetSize(m.width-4, max(listH, 3))
}

func (m Model) View() string {
	th := ui.Current()
	todos := m.store.Todos()
	a := m.store.Analytics()
	done, pending := view.Stats(todos)

	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), done,
		th.Pend.Render(th.SymPending), pending,
		th.Accent.Render("Total"), len(todos),
	)
	if m.inflight > 0 {
		header += "  " + th.Muted.Render("syncing…")
	}
	if d := describeDraft(m.store.Draft()); d != "" && !m.adding {
		header += "  " + th.Muted.Render(d)
	}

	sections := []string{header, m.list.View()}
	if m.adding {
		sections = append(sections, m.formView())
	}
	sections = append(sections, m.chartsView(a))

	helpKeys := m.keys.listHelp()
	if m.adding {
		helpKeys = m.keys.formHelp()
	}
	sections = append(sections, th.Help.Render(m.help.ShortHelpView(append(helpKeys, m.keys.Quit))))

	return ui.Panel(sections)
}

func (m Model) formView() string {
	th := ui.Current()
	d := m.store.Draft()
	bar := lipgloss.NewStyle().Border(th.Border).Padding(0, 1)
	if th.BorderColor != "" {
		bar = bar.BorderForeground(th.BorderColor)
	}
	meta := fmt.Sprintf("Category: %s   Priority: %s",
		th.Accent.Render("‹ "+d.Category+" ›"),
		th.Accent.Render(model.PriorityLabel(d.Priority)))
	return bar.Render(th.Title.Render("Add new todo") + "\n" + m.ti.View() + "\n" + meta)
}

func (m Model) chartsView(a model.Analytics) string {
	th := ui.Current()
	box := lipgloss.NewStyle().Padding(0, 1)

	completion := th.Title.Render("Completion") + "\n" + m.charts.View(chart.TargetCompletion)
	category := th.Title.Render("Tasks per Category") + "\n" + m.charts.View(chart.TargetCategory)

	stats := th.Muted.Render(fmt.Sprintf("completion rate %.0f%%   average time to done %s",
		a.CompletionRate, formatHours(a.AverageTime)))

	return lipgloss.JoinHorizontal(lipgloss.Top, box.Render(completion), box.Render(category)) +
		"\n" + stats
}

func formatHours(h float64) string {
	switch {
	case h <= 0:
		return "n/a"
	case h < 1:
		return fmt.Sprintf("%.0fm", h*60)
	case h < 48:
		return fmt.Sprintf("%.1fh", h)
	default:
		return fmt.Sprintf("%.1fd", h/24)
	}
}

// cycle returns the option step places away from cur, wrapping around.
// An unknown cur starts from the first option.
func cycle(options []string, cur string, step int) string {
	if len(options) == 0 {
		return cur
	}
	i := slices.Index(options, cur)
	if i < 0 {
		return options[0]
	}
	n := len(options)
	return options[((i+step)%n+n)%n]
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, ctrl *syncer.Controller, charts *chart.Terminal) error {
	m := New(ctx, ctrl, charts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Observers run on whichever goroutine mutated the store, which may be
	// the update loop itself, so Send must not block here.
	cancel := ctrl.Store().Subscribe(func(c state.Change) {
		go p.Send(storeChangedMsg{change: c})
	})
	defer cancel()

	_, err := p.Run()
	return err
}

// describeDraft summarises a draft left behind when the form was closed.
func describeDraft(d model.Draft) string {
	if strings.TrimSpace(d.Title) == "" {
		return ""
	}
	return fmt.Sprintf("draft: %q (%s, %s)", d.Title, d.Category, model.PriorityLabel(d.Priority))
}
