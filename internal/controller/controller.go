// Package controller turns front-end events into model calls and model
// results into render commands, and owns the active route.
package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todos"
)

// Controller sits between a todos.Model and a View.
//
// Every method runs to completion before returning: batch operations finish
// all of their per-item calls before their single trailing re-filter.
// Stale ids are silently ignored. Storage errors are logged and returned,
// never rendered.
type Controller struct {
	model *todos.Model
	view  View
	log   *log.Logger

	activeRoute     model.Filter
	lastActiveRoute model.Filter
	filtered        bool // lastActiveRoute is meaningful
}

func New(m *todos.Model, v View, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{model: m, view: v, log: logger, activeRoute: model.All}
}

// ActiveRoute is the route currently displayed.
func (c *Controller) ActiveRoute() model.Filter { return c.activeRoute }

// Handle dispatches a front-end event.
func (c *Controller) Handle(ev Event) error {
	var err error
	switch e := ev.(type) {
	case NewTodo:
		err = c.AddItem(e.Title)
	case ItemEdit:
		err = c.EditItem(e.ID)
	case ItemEditDone:
		err = c.EditItemSave(e.ID, e.Title)
	case ItemEditCancel:
		err = c.EditItemCancel(e.ID)
	case ItemRemove:
		err = c.RemoveItem(e.ID)
	case ItemToggle:
		err = c.ToggleComplete(e.ID, e.Completed, false)
	case RemoveCompleted:
		err = c.RemoveCompletedItems()
	case ToggleAll:
		err = c.ToggleAll(e.Completed)
	default:
		err = fmt.Errorf("unknown event %T", ev)
	}
	if err != nil {
		c.log.Error("event failed", "event", fmt.Sprintf("%T", ev), "err", err)
	}
	return err
}

// SetView switches to the route named by a location hash such as
// "#/active". Unknown or empty routes show everything.
func (c *Controller) SetView(hash string) error {
	c.activeRoute = model.ParseRoute(hash)
	c.log.Debug("route", "active", c.activeRoute)
	if err := c.filter(false); err != nil {
		return err
	}
	c.view.Render(SetFilter{Route: c.activeRoute})
	return nil
}

// Refresh recounts and repaints the active route, for when the collection
// changed outside this controller.
func (c *Controller) Refresh() error {
	return c.filter(true)
}

// AddItem creates a todo. Blank titles are ignored.
func (c *Controller) AddItem(title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	todo, ok, err := c.model.Create(title)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	c.log.Debug("added", "id", todo.ID)
	c.view.Render(ClearNewTodo{})
	return c.filter(true)
}

// EditItem puts the todo into edit mode with its stored title.
func (c *Controller) EditItem(id int64) error {
	found, err := c.model.ReadID(id)
	if err != nil || len(found) == 0 {
		return err
	}
	c.view.Render(EditItem{ID: id, Title: found[0].Title})
	return nil
}

// EditItemSave commits an edit. A title that is blank once trimmed removes
// the todo instead.
func (c *Controller) EditItemSave(id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return c.RemoveItem(id)
	}
	if err := c.model.Update(id, model.Update{Title: &title}); err != nil {
		return err
	}
	c.view.Render(EditItemDone{ID: id, Title: title})
	return nil
}

// EditItemCancel leaves edit mode showing the stored title. Nothing is written.
func (c *Controller) EditItemCancel(id int64) error {
	found, err := c.model.ReadID(id)
	if err != nil || len(found) == 0 {
		return err
	}
	c.view.Render(EditItemDone{ID: id, Title: found[0].Title})
	return nil
}

// RemoveItem deletes a todo and re-filters.
func (c *Controller) RemoveItem(id int64) error {
	if err := c.remove(id); err != nil {
		return err
	}
	return c.filter(false)
}

// RemoveCompletedItems deletes every completed todo, then re-filters once.
func (c *Controller) RemoveCompletedItems() error {
	done, err := c.model.Read(model.Completed)
	if err != nil {
		return err
	}
	for _, t := range done {
		if err := c.remove(t.ID); err != nil {
			return err
		}
	}
	return c.filter(false)
}

// ToggleComplete stores the completed state of one todo. A silent toggle
// skips the re-filter so a batch can do it once at the end.
func (c *Controller) ToggleComplete(id int64, completed, silent bool) error {
	if err := c.model.Update(id, model.Update{Completed: &completed}); err != nil {
		return err
	}
	c.view.Render(ElementComplete{ID: id, Completed: completed})
	if silent {
		return nil
	}
	return c.filter(false)
}

// ToggleAll sets every todo to completed, then re-filters once.
func (c *Controller) ToggleAll(completed bool) error {
	opposite := model.Active
	if !completed {
		opposite = model.Completed
	}
	pending, err := c.model.Read(opposite)
	if err != nil {
		return err
	}
	for _, t := range pending {
		if err := c.ToggleComplete(t.ID, completed, true); err != nil {
			return err
		}
	}
	return c.filter(false)
}

func (c *Controller) remove(id int64) error {
	found, err := c.model.ReadID(id)
	if err != nil {
		return err
	}
	if err := c.model.Remove(id); err != nil {
		return err
	}
	if len(found) > 0 {
		c.log.Debug("removed", "id", id)
	}
	c.view.Render(RemoveItem{ID: id})
	return nil
}

func (c *Controller) updateCount() error {
	counts, err := c.model.Count()
	if err != nil {
		return err
	}
	c.view.Render(UpdateElementCount{Active: counts.Active})
	c.view.Render(ClearCompletedButton{Completed: counts.Completed, Visible: counts.Completed > 0})
	c.view.Render(ToggleAllState{Checked: counts.Completed == counts.Total})
	c.view.Render(ContentBlockVisibility{Visible: counts.Total > 0})
	return nil
}

// filter recounts and, when needed, repaints the active route. The list is
// left alone only while staying on All, where incremental commands already
// keep it right. Any other route repaints, even when unchanged.
func (c *Controller) filter(force bool) error {
	if err := c.updateCount(); err != nil {
		return err
	}
	stayingOnAll := c.filtered && c.lastActiveRoute == model.All && c.activeRoute == model.All
	if force || !stayingOnAll {
		entries, err := c.model.Read(c.activeRoute)
		if err != nil {
			return err
		}
		c.view.Render(ShowEntries{Entries: entries})
	}
	c.lastActiveRoute = c.activeRoute
	c.filtered = true
	return nil
}
