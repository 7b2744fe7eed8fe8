// Package todos is the domain layer over a store: create, read by filter or
// id, update, remove and count.
package todos

import (
	"strings"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/store"
)

// Model speaks in todos and filters; the store speaks in queries.
type Model struct {
	store *store.Store
}

func New(s *store.Store) *Model {
	return &Model{store: s}
}

// Create stores a new, not completed todo. A title that is blank after
// trimming is ignored and ok is false.
func (m *Model) Create(title string) (todo model.Todo, ok bool, err error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, false, nil
	}
	out, err := m.store.Save(model.Update{Title: &title, Completed: model.Ptr(false)}, 0)
	if err != nil {
		return model.Todo{}, false, err
	}
	return out[0], true, nil
}

// Read returns the todos shown by f, in insertion order.
func (m *Model) Read(f model.Filter) ([]model.Todo, error) {
	return m.store.Find(f.Query())
}

// ReadID returns the todo with id, or nothing.
func (m *Model) ReadID(id int64) ([]model.Todo, error) {
	return m.store.Find(model.Query{ID: &id})
}

// Update applies the set fields of changes to the todo with id.
// An unknown id is ignored.
func (m *Model) Update(id int64, changes model.Update) error {
	_, err := m.store.Save(changes, id)
	return err
}

// Remove deletes the todo with id. An unknown id is ignored.
func (m *Model) Remove(id int64) error {
	_, err := m.store.Remove(id)
	return err
}

// RemoveAll empties the collection.
func (m *Model) RemoveAll() error {
	_, err := m.store.Drop()
	return err
}

// Count tallies the live collection.
func (m *Model) Count() (model.Counts, error) {
	all, err := m.store.FindAll()
	if err != nil {
		return model.Counts{}, err
	}
	return model.CountOf(all), nil
}
