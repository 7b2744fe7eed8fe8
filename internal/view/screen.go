// Package view holds what a todo front end displays, driven entirely by
// controller render commands.
package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/model"
)

// Editing is the entry in edit mode and its draft title.
type Editing struct {
	ID    int64
	Title string
}

// Screen is the displayed state. It implements controller.View.
type Screen struct {
	Entries        []model.Todo
	NewTodo        string
	Editing        *Editing
	ActiveCount    int
	CompletedCount int
	ClearVisible   bool
	AllChecked     bool
	ContentVisible bool
	Filter         model.Filter

	// Repaints counts ShowEntries commands, for front ends that rebuild
	// derived state only on a full repaint.
	Repaints int

	log *log.Logger
}

var _ controller.View = (*Screen)(nil)

func NewScreen(logger *log.Logger) *Screen {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Screen{log: logger}
}

// Render applies one command.
func (s *Screen) Render(cmd controller.Command) {
	switch c := cmd.(type) {
	case controller.ShowEntries:
		s.Entries = append([]model.Todo(nil), c.Entries...)
		s.Repaints++
	case controller.ClearNewTodo:
		s.NewTodo = ""
	case controller.EditItem:
		if s.index(c.ID) < 0 {
			return
		}
		s.Editing = &Editing{ID: c.ID, Title: c.Title}
	case controller.EditItemDone:
		if i := s.index(c.ID); i >= 0 {
			s.Entries[i].Title = c.Title
		}
		if s.Editing != nil && s.Editing.ID == c.ID {
			s.Editing = nil
		}
	case controller.RemoveItem:
		if i := s.index(c.ID); i >= 0 {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
		}
		if s.Editing != nil && s.Editing.ID == c.ID {
			s.Editing = nil
		}
	case controller.ElementComplete:
		if i := s.index(c.ID); i >= 0 {
			s.Entries[i].Completed = c.Completed
		}
	case controller.UpdateElementCount:
		s.ActiveCount = c.Active
	case controller.ClearCompletedButton:
		s.CompletedCount = c.Completed
		s.ClearVisible = c.Visible
	case controller.ToggleAllState:
		s.AllChecked = c.Checked
	case controller.ContentBlockVisibility:
		s.ContentVisible = c.Visible
	case controller.SetFilter:
		s.Filter = c.Route
	default:
		s.log.Warn("unknown render command", "command", fmt.Sprintf("%T", cmd))
	}
}

// Entry returns the displayed entry with id.
func (s *Screen) Entry(id int64) (model.Todo, bool) {
	if i := s.index(id); i >= 0 {
		return s.Entries[i], true
	}
	return model.Todo{}, false
}

func (s *Screen) index(id int64) int {
	for i, t := range s.Entries {
		if t.ID == id {
			return i
		}
	}
	return -1
}
