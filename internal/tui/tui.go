// Package tui is the interactive front end: it turns key presses into
// controller events and draws the screen the controller renders into.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
	"github.com/idilsaglam/todo/internal/view"
)

// Options tune the interactive program.
type Options struct {
	Logger *log.Logger
	// Changes, when set, signals that the collection was modified outside
	// this process.
	Changes <-chan struct{}
	// Program options passed to Bubble Tea (tests pass tea.WithInput etc).
	ProgramOptions []tea.ProgramOption
}

// listItem adapts a todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders items on a single line with the current theme.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	fmt.Fprint(w, ui.Entry(it.todo, index == m.Index()))
}

type keyMap struct {
	Add, Edit, Toggle, Remove, ClearCompleted, ToggleAll key.Binding
	All, Active, Completed, NextRoute, Quit              key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:           key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Toggle:         key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Remove:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		ClearCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		ToggleAll:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		All:            key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Active:         key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		Completed:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		NextRoute:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Remove, k.NextRoute}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Remove, k.ClearCompleted, k.ToggleAll, k.All, k.Active, k.Completed, k.NextRoute}
}

// externalChangeMsg reports a write to the collection by someone else.
type externalChangeMsg struct{}

type modelTUI struct {
	ctrl    *controller.Controller
	screen  *view.Screen
	log     *log.Logger
	keys    keyMap
	changes <-chan struct{}

	list list.Model
	ti   textinput.Model // shared text input (used for add & edit)

	adding bool   // inline add is active
	status string // last error or validation message

	width, height int
}

func newModel(ctrl *controller.Controller, screen *view.Screen, opts Options) modelTUI {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := modelTUI{
		ctrl:    ctrl,
		screen:  screen,
		log:     logger,
		keys:    keys,
		changes: opts.Changes,
		list:    l,
		ti:      ti,
		width:   80,
		height:  24,
	}
	m.sync()
	return m
}

// Run starts the interactive list on the controller's current route.
func Run(ctrl *controller.Controller, screen *view.Screen, opts Options) error {
	m := newModel(ctrl, screen, opts)
	popts := append([]tea.ProgramOption{tea.WithAltScreen()}, opts.ProgramOptions...)
	if _, err := tea.NewProgram(m, popts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m modelTUI) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return externalChangeMsg{}
	}
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case externalChangeMsg:
		m.do(m.ctrl.Refresh())
		return m, waitForChange(m.changes)
	}

	if m.adding {
		return m.updateAdding(msg)
	}
	if m.screen.Editing != nil {
		return m.updateEditing(msg)
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		m.status = ""
		switch {
		case key.Matches(kmsg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(kmsg, m.keys.Add):
			m.adding = true
			m.ti.SetValue(m.screen.NewTodo)
			m.ti.Placeholder = "New item title..."
			m.resize()
			return m, m.ti.Focus()
		case key.Matches(kmsg, m.keys.Edit):
			if t, ok := m.selected(); ok {
				m.do(m.ctrl.Handle(controller.ItemEdit{ID: t.ID}))
				if m.screen.Editing != nil {
					m.ti.SetValue(m.screen.Editing.Title)
					m.ti.CursorEnd()
					m.ti.Placeholder = "Edit item title..."
					m.resize()
					return m, m.ti.Focus()
				}
			}
			return m, nil
		case key.Matches(kmsg, m.keys.Toggle):
			if t, ok := m.selected(); ok {
				m.do(m.ctrl.Handle(controller.ItemToggle{ID: t.ID, Completed: !t.Completed}))
			}
			return m, nil
		case key.Matches(kmsg, m.keys.Remove):
			if t, ok := m.selected(); ok {
				m.do(m.ctrl.Handle(controller.ItemRemove{ID: t.ID}))
			}
			return m, nil
		case key.Matches(kmsg, m.keys.ClearCompleted):
			m.do(m.ctrl.Handle(controller.RemoveCompleted{}))
			return m, nil
		case key.Matches(kmsg, m.keys.ToggleAll):
			m.do(m.ctrl.Handle(controller.ToggleAll{Completed: !m.screen.AllChecked}))
			return m, nil
		case key.Matches(kmsg, m.keys.All):
			m.do(m.ctrl.SetView(model.All.Route()))
			return m, nil
		case key.Matches(kmsg, m.keys.Active):
			m.do(m.ctrl.SetView(model.Active.Route()))
			return m, nil
		case key.Matches(kmsg, m.keys.Completed):
			m.do(m.ctrl.SetView(model.Completed.Route()))
			return m, nil
		case key.Matches(kmsg, m.keys.NextRoute):
			next := (m.ctrl.ActiveRoute() + 1) % model.Filter(len(model.Filters()))
			m.do(m.ctrl.SetView(next.Route()))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			m.screen.NewTodo = m.ti.Value()
			m.do(m.ctrl.Handle(controller.NewTodo{Title: m.screen.NewTodo}))
			if strings.TrimSpace(m.screen.NewTodo) == "" {
				m.screen.NewTodo = ""
			}
			m.ti.SetValue(m.screen.NewTodo)
			m.stopInput()
			m.adding = false
			m.resize()
			return m, nil
		case "esc":
			m.screen.NewTodo = m.ti.Value()
			m.stopInput()
			m.adding = false
			m.resize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m modelTUI) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	id := m.screen.Editing.ID
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			m.do(m.ctrl.Handle(controller.ItemEditDone{ID: id, Title: m.ti.Value()}))
			m.leaveEdit()
			return m, nil
		case "esc":
			m.do(m.ctrl.Handle(controller.ItemEditCancel{ID: id}))
			m.leaveEdit()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.screen.Editing.Title = m.ti.Value()
	return m, cmd
}

// leaveEdit drops local edit state even if the controller could not
// finish, so a storage error never traps the user in the input.
func (m *modelTUI) leaveEdit() {
	m.screen.Editing = nil
	m.stopInput()
	m.ti.SetValue("")
	m.resize()
}

func (m *modelTUI) stopInput() {
	m.ti.Blur()
}

// do records the outcome of a controller call and redraws the list.
func (m *modelTUI) do(err error) {
	if err != nil {
		m.status = err.Error()
	}
	m.sync()
}

// sync rebuilds the list from the screen, keeping the cursor in range.
func (m *modelTUI) sync() {
	idx := m.list.Index()
	items := make([]list.Item, 0, len(m.screen.Entries))
	for _, t := range m.screen.Entries {
		items = append(items, listItem{todo: t})
	}
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m modelTUI) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m *modelTUI) resize() {
	h := m.height - 8
	if m.adding || m.screen.Editing != nil {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m modelTUI) View() string {
	th := ui.Current()
	var lines []string
	lines = append(lines, ui.Header(m.screen.ActiveCount, m.screen.CompletedCount))
	lines = append(lines, ui.FilterBar(m.screen.Filter))
	lines = append(lines, "")

	if m.screen.ContentVisible {
		lines = append(lines, m.list.View())
		footer := ui.ItemCounter(m.screen.ActiveCount)
		if m.screen.ClearVisible {
			footer += "   " + th.Accent.Render(ui.ClearCompletedButton(m.screen.CompletedCount)+" (c)")
		}
		if m.screen.AllChecked {
			footer += "   " + th.Success.Render(th.BoxChecked+" all done")
		}
		lines = append(lines, footer)
	} else {
		lines = append(lines, th.Muted.Render("Nothing to do. Press a to add an item."))
	}

	if m.adding || m.screen.Editing != nil {
		title := "Add new item"
		if m.screen.Editing != nil {
			title = "Edit item"
		}
		bar := lipgloss.NewStyle().Border(th.Border).BorderForeground(th.BorderColor).Padding(0, 1)
		lines = append(lines, bar.Render(title+"\n"+m.ti.View()))
	}
	if m.status != "" {
		lines = append(lines, th.Error.Render(m.status))
	}
	return ui.Panel(lines)
}
