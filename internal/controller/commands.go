package controller

import "github.com/idilsaglam/todo/internal/model"

// Command is a render instruction sent to the View.
// The set is closed: only the types in this file implement it.
type Command interface {
	command()
}

// View receives render commands. Implementations switch on the concrete type.
type View interface {
	Render(Command)
}

// ShowEntries replaces the whole rendered list.
type ShowEntries struct{ Entries []model.Todo }

// ClearNewTodo empties the new-todo input.
type ClearNewTodo struct{}

// EditItem puts an entry into edit mode with Title as the draft.
type EditItem struct {
	ID    int64
	Title string
}

// EditItemDone leaves edit mode and shows Title on the entry.
type EditItemDone struct {
	ID    int64
	Title string
}

// RemoveItem drops a single entry from the rendered list.
type RemoveItem struct{ ID int64 }

// ElementComplete marks a single rendered entry completed or not.
type ElementComplete struct {
	ID        int64
	Completed bool
}

// UpdateElementCount shows how many todos are left.
type UpdateElementCount struct{ Active int }

// ClearCompletedButton sets the clear-completed control.
type ClearCompletedButton struct {
	Completed int
	Visible   bool
}

// ToggleAllState sets the toggle-all checkbox.
type ToggleAllState struct{ Checked bool }

// ContentBlockVisibility shows or hides the list and footer.
type ContentBlockVisibility struct{ Visible bool }

// SetFilter highlights the selected route.
type SetFilter struct{ Route model.Filter }

func (ShowEntries) command()            {}
func (ClearNewTodo) command()           {}
func (EditItem) command()               {}
func (EditItemDone) command()           {}
func (RemoveItem) command()             {}
func (ElementComplete) command()        {}
func (UpdateElementCount) command()     {}
func (ClearCompletedButton) command()   {}
func (ToggleAllState) command()         {}
func (ContentBlockVisibility) command() {}
func (SetFilter) command()              {}
