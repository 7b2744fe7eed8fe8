package controller_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/store"
	"github.com/idilsaglam/todo/internal/todos"
)

// recorder is a View that keeps every command it is sent.
type recorder struct {
	cmds []controller.Command
}

func (r *recorder) Render(c controller.Command) { r.cmds = append(r.cmds, c) }

func (r *recorder) reset() { r.cmds = nil }

func (r *recorder) shows() []controller.ShowEntries {
	var out []controller.ShowEntries
	for _, c := range r.cmds {
		if s, ok := c.(controller.ShowEntries); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *recorder) last(match func(controller.Command) bool) (controller.Command, bool) {
	for i := len(r.cmds) - 1; i >= 0; i-- {
		if match(r.cmds[i]) {
			return r.cmds[i], true
		}
	}
	return nil, false
}

type fixture struct {
	ctrl  *controller.Controller
	model *todos.Model
	view  *recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	var tick int64
	clock := func() time.Time {
		tick++
		return time.UnixMilli(tick * 10)
	}
	s, err := store.Open(store.NewMemory(), "todos", store.WithClock(clock))
	require.NoError(t, err)
	m := todos.New(s)
	v := &recorder{}
	return fixture{ctrl: controller.New(m, v, nil), model: m, view: v}
}

func (f fixture) all(t *testing.T) []model.Todo {
	t.Helper()
	out, err := f.model.Read(model.All)
	require.NoError(t, err)
	return out
}

func (f fixture) add(t *testing.T, titles ...string) []model.Todo {
	t.Helper()
	for _, title := range titles {
		require.NoError(t, f.ctrl.Handle(controller.NewTodo{Title: title}))
	}
	return f.all(t)
}

func titles(ts []model.Todo) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Title)
	}
	return out
}

func TestSetViewRendersRouteAndCounts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.ctrl.SetView(""))

	assert.Equal(t, []controller.Command{
		controller.UpdateElementCount{Active: 0},
		controller.ClearCompletedButton{Completed: 0, Visible: false},
		controller.ToggleAllState{Checked: true},
		controller.ContentBlockVisibility{Visible: false},
		controller.ShowEntries{Entries: []model.Todo{}},
		controller.SetFilter{Route: model.All},
	}, f.view.cmds)
	assert.Equal(t, model.All, f.ctrl.ActiveRoute())
}

func TestSetViewParsesHashes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for hash, want := range map[string]model.Filter{
		"#/active":    model.Active,
		"#/completed": model.Completed,
		"#/":          model.All,
		"#/nonsense":  model.All,
	} {
		require.NoError(t, f.ctrl.SetView(hash))
		assert.Equal(t, want, f.ctrl.ActiveRoute(), hash)
	}
}

func TestAddItemClearsInputAndForcesRepaint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.ctrl.SetView(""))
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.NewTodo{Title: "Buy milk"}))

	assert.Equal(t, controller.ClearNewTodo{}, f.view.cmds[0])
	shows := f.view.shows()
	require.Len(t, shows, 1, "adding on All still repaints")
	assert.Equal(t, []string{"Buy milk"}, titles(shows[0].Entries))
}

func TestAddItemIgnoresBlankTitles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, title := range []string{"", "   ", "\t"} {
		require.NoError(t, f.ctrl.Handle(controller.NewTodo{Title: title}))
	}
	assert.Empty(t, f.view.cmds)
	assert.Empty(t, f.all(t))
}

func TestEditItemEntersEditMode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	todo := f.add(t, "Buy milk")[0]
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.ItemEdit{ID: todo.ID}))
	assert.Equal(t, []controller.Command{controller.EditItem{ID: todo.ID, Title: "Buy milk"}}, f.view.cmds)
}

func TestEditItemSaveTrimsAndStores(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	todo := f.add(t, "Buy milk")[0]
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.ItemEditDone{ID: todo.ID, Title: "  Buy oat milk  "}))

	assert.Equal(t, []controller.Command{controller.EditItemDone{ID: todo.ID, Title: "Buy oat milk"}}, f.view.cmds)
	assert.Equal(t, []string{"Buy oat milk"}, titles(f.all(t)))
}

func TestEditItemSaveBlankRemoves(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items := f.add(t, "Buy milk", "Walk dog")
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.ItemEditDone{ID: items[0].ID, Title: "   "}))

	assert.Equal(t, []string{"Walk dog"}, titles(f.all(t)))
	_, removed := f.view.last(func(c controller.Command) bool {
		r, ok := c.(controller.RemoveItem)
		return ok && r.ID == items[0].ID
	})
	assert.True(t, removed)
}

func TestEditItemCancelRestoresStoredTitle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	todo := f.add(t, "Buy milk")[0]
	require.NoError(t, f.ctrl.Handle(controller.ItemEdit{ID: todo.ID}))
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.ItemEditCancel{ID: todo.ID}))

	assert.Equal(t, []controller.Command{controller.EditItemDone{ID: todo.ID, Title: "Buy milk"}}, f.view.cmds)
	assert.Equal(t, []string{"Buy milk"}, titles(f.all(t)))
}

func TestStaleIDsAreSilent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.add(t, "Buy milk")
	before := f.all(t)
	f.view.reset()

	const ghost = int64(999_999)
	require.NoError(t, f.ctrl.Handle(controller.ItemEdit{ID: ghost}))
	require.NoError(t, f.ctrl.Handle(controller.ItemEditCancel{ID: ghost}))
	require.NoError(t, f.ctrl.Handle(controller.ItemRemove{ID: ghost}))
	require.NoError(t, f.ctrl.Handle(controller.ItemToggle{ID: ghost, Completed: true}))

	assert.Equal(t, before, f.all(t))
	_, edited := f.view.last(func(c controller.Command) bool {
		switch c.(type) {
		case controller.EditItem, controller.EditItemDone:
			return true
		}
		return false
	})
	assert.False(t, edited)
}

func TestRemoveItemTwice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items := f.add(t, "a", "b")

	require.NoError(t, f.ctrl.Handle(controller.ItemRemove{ID: items[0].ID}))
	after := f.all(t)
	require.NoError(t, f.ctrl.Handle(controller.ItemRemove{ID: items[0].ID}))
	assert.Equal(t, after, f.all(t))
	assert.Equal(t, []string{"b"}, titles(after))
}

func TestToggleOnActiveRouteRepaints(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items := f.add(t, "a", "b")
	require.NoError(t, f.ctrl.SetView("#/active"))
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.ItemToggle{ID: items[0].ID, Completed: true}))

	assert.Equal(t, controller.ElementComplete{ID: items[0].ID, Completed: true}, f.view.cmds[0])
	shows := f.view.shows()
	require.Len(t, shows, 1)
	assert.Equal(t, []string{"b"}, titles(shows[0].Entries))
}

func TestToggleOnAllRouteDoesNotRepaint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items := f.add(t, "a", "b")
	require.NoError(t, f.ctrl.SetView(""))
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.ItemToggle{ID: items[0].ID, Completed: true}))

	assert.Empty(t, f.view.shows())
	assert.Contains(t, f.view.cmds, controller.Command(controller.UpdateElementCount{Active: 1}))
	assert.Contains(t, f.view.cmds, controller.Command(controller.ClearCompletedButton{Completed: 1, Visible: true}))
}

func TestRouteChangesRepaint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to string
		repaint  bool
	}{
		{"", "", false},
		{"", "#/active", true},
		{"#/active", "", true},
		{"#/active", "#/active", true},
		{"#/active", "#/completed", true},
		{"#/completed", "#/active", true},
	}
	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.add(t, "a")
			require.NoError(t, f.ctrl.SetView(tc.from))
			f.view.reset()

			require.NoError(t, f.ctrl.SetView(tc.to))
			assert.Equal(t, tc.repaint, len(f.view.shows()) == 1)
		})
	}
}

func TestToggleAllBatchesRefilter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items := f.add(t, "a", "b", "c")
	require.NoError(t, f.ctrl.Handle(controller.ItemToggle{ID: items[2].ID, Completed: true}))
	require.NoError(t, f.ctrl.SetView("#/completed"))
	f.view.reset()

	require.NoError(t, f.ctrl.Handle(controller.ToggleAll{Completed: true}))

	for _, todo := range f.all(t) {
		assert.True(t, todo.Completed, todo.Title)
	}

	var toggled []int64
	showAt := -1
	for i, c := range f.view.cmds {
		switch c := c.(type) {
		case controller.ElementComplete:
			require.Equal(t, -1, showAt, "no repaint before the batch finishes")
			toggled = append(toggled, c.ID)
		case controller.ShowEntries:
			require.Equal(t, -1, showAt, "exactly one repaint")
			showAt = i
			assert.Equal(t, []string{"a", "b", "c"}, titles(c.Entries))
		}
	}
	assert.Equal(t, []int64{items[0].ID, items[1].ID}, toggled, "only the todos that were not completed")
	assert.NotEqual(t, -1, showAt)

	checked, ok := f.view.last(func(c controller.Command) bool {
		_, ok := c.(controller.ToggleAllState)
		return ok
	})
	require.True(t, ok)
	assert.Equal(t, controller.ToggleAllState{Checked: true}, checked)
}

func TestToggleAllOff(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.add(t, "a", "b")
	require.NoError(t, f.ctrl.Handle(controller.ToggleAll{Completed: true}))
	require.NoError(t, f.ctrl.Handle(controller.ToggleAll{Completed: false}))

	for _, todo := range f.all(t) {
		assert.False(t, todo.Completed, todo.Title)
	}
}

func TestRemoveCompletedScenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.ctrl.SetView(""))
	items := f.add(t, "Buy milk", "Walk dog")
	require.NoError(t, f.ctrl.Handle(controller.ItemToggle{ID: items[0].ID, Completed: true}))

	counts, err := f.model.Count()
	require.NoError(t, err)
	assert.Equal(t, model.Counts{Total: 2, Active: 1, Completed: 1}, counts)

	f.view.reset()
	require.NoError(t, f.ctrl.Handle(controller.RemoveCompleted{}))

	assert.Equal(t, []string{"Walk dog"}, titles(f.all(t)))

	removeAt, countAt := -1, -1
	for i, c := range f.view.cmds {
		switch c.(type) {
		case controller.RemoveItem:
			removeAt = i
		case controller.UpdateElementCount:
			require.Equal(t, -1, countAt, "a single trailing re-filter")
			countAt = i
		}
	}
	assert.Less(t, removeAt, countAt, "re-filter runs after every removal")
}

type brokenBackend struct{ *store.Memory }

var errBroken = errors.New("storage offline")

func (b brokenBackend) Put(string, []byte) error { return errBroken }

func TestStorageErrorsAreReturnedNotRendered(t *testing.T) {
	t.Parallel()

	backend := brokenBackend{store.NewMemory()}
	require.NoError(t, backend.Memory.Put("todos", []byte(`{"todos":[]}`)))
	s, err := store.Open(backend, "todos")
	require.NoError(t, err)

	v := &recorder{}
	ctrl := controller.New(todos.New(s), v, nil)

	err = ctrl.Handle(controller.NewTodo{Title: "Buy milk"})
	require.ErrorIs(t, err, errBroken)
	assert.Empty(t, v.cmds)
}
