// Package store keeps a named collection of todos durable on a Backend.
//
// Every call reads the collection from the backend, applies its change and
// writes the whole collection back before returning, so the backend is
// always the source of truth and changes made by another process between
// two calls are picked up. A Store is not safe for concurrent mutation.
package store

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
)

// Store is a named collection of todos on a Backend.
type Store struct {
	backend Backend
	name    string
	now     func() time.Time
	log     *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to allocate ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. A nil logger discards.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open initializes the collection called name on backend, creating it
// empty if it has never been stored. Opening an existing collection is a
// no-op that keeps its data.
func Open(backend Backend, name string, opts ...Option) (*Store, error) {
	if name == "" {
		return nil, errors.New("store: empty collection name")
	}
	s := &Store{
		backend: backend,
		name:    name,
		now:     time.Now,
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	_, err := backend.Get(name)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.Debug("creating collection", "name", name)
		if err := s.write(model.Collection{}); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read collection %q: %w", name, err)
	default:
		// Validates and resets a corrupt collection up front.
		if _, err := s.load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name is the collection name.
func (s *Store) Name() string { return s.name }

// Find returns the records matching q, in insertion order.
// The zero Query returns every record.
func (s *Store) Find(q model.Query) ([]model.Todo, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Todo, 0, len(c.Todos))
	for _, t := range c.Todos {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindAll returns every record in insertion order.
func (s *Store) FindAll() ([]model.Todo, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	return c.Todos, nil
}

// Save inserts or updates.
//
// With id == 0 a new record is built from the set fields of u, given a fresh
// id, appended and returned alone. Otherwise the set fields of u overwrite
// the record with that id and the whole collection is returned; an unknown
// id leaves the collection unchanged.
func (s *Store) Save(u model.Update, id int64) ([]model.Todo, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}

	if id == 0 {
		t := model.Todo{ID: nextID(s.now(), c.Todos)}
		u.Apply(&t)
		c.Todos = append(c.Todos, t)
		if err := s.write(c); err != nil {
			return nil, err
		}
		s.log.Debug("inserted", "collection", s.name, "id", t.ID)
		return []model.Todo{t}, nil
	}

	for i := range c.Todos {
		if c.Todos[i].ID == id {
			u.Apply(&c.Todos[i])
			break
		}
	}
	if err := s.write(c); err != nil {
		return nil, err
	}
	return c.Todos, nil
}

// Remove deletes every record with the given id and returns what is left.
// An unknown id is not an error.
func (s *Store) Remove(id int64) ([]model.Todo, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}

	var found bool
	for _, t := range c.Todos {
		if t.ID == id {
			found = true
			break
		}
	}
	if found {
		kept := c.Todos[:0]
		for _, t := range c.Todos {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		c.Todos = kept
	}

	if err := s.write(c); err != nil {
		return nil, err
	}
	return c.Todos, nil
}

// Drop empties the collection.
func (s *Store) Drop() ([]model.Todo, error) {
	c := model.Collection{Todos: []model.Todo{}}
	if err := s.write(c); err != nil {
		return nil, err
	}
	return c.Todos, nil
}

// load reads the collection. A collection that cannot be decoded is reset
// to empty rather than failing every later call.
func (s *Store) load() (model.Collection, error) {
	b, err := s.backend.Get(s.name)
	if errors.Is(err, ErrNotFound) {
		return model.Collection{Todos: []model.Todo{}}, nil
	}
	if err != nil {
		return model.Collection{}, fmt.Errorf("read collection %q: %w", s.name, err)
	}

	c, err := decodeCollection(s.name, b)
	if err != nil {
		s.log.Warn("resetting corrupt collection", "name", s.name, "err", err)
		empty := model.Collection{Todos: []model.Todo{}}
		if werr := s.write(empty); werr != nil {
			return model.Collection{}, werr
		}
		return empty, nil
	}
	return c, nil
}

func (s *Store) write(c model.Collection) error {
	b, err := encodeCollection(c)
	if err != nil {
		return err
	}
	if err := s.backend.Put(s.name, b); err != nil {
		return fmt.Errorf("write collection %q: %w", s.name, err)
	}
	return nil
}
