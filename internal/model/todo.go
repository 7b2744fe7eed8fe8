package model

// Todo is the domain model for a todo entry.
// ID is assigned by the store on insert and never changes afterwards.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Collection is the persisted shape of a named list of todos.
type Collection struct {
	Todos []Todo `json:"todos"`
}

// Update is a partial set of fields. Nil fields are left untouched.
type Update struct {
	Title     *string
	Completed *bool
}

// Apply copies the set fields of u onto t.
func (u Update) Apply(t *Todo) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
}

// Query matches records whose set fields are all equal to the record's.
// The zero Query matches everything.
type Query struct {
	ID        *int64
	Title     *string
	Completed *bool
}

// Match reports whether t satisfies every set field of q.
func (q Query) Match(t Todo) bool {
	if q.ID != nil && *q.ID != t.ID {
		return false
	}
	if q.Title != nil && *q.Title != t.Title {
		return false
	}
	if q.Completed != nil && *q.Completed != t.Completed {
		return false
	}
	return true
}

// Counts aggregates a collection by completion state.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// CountOf tallies todos. Total is always Active+Completed.
func CountOf(todos []Todo) Counts {
	var c Counts
	for _, t := range todos {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	c.Total = c.Active + c.Completed
	return c
}

// Ptr returns a pointer to v, for building an Update or Query inline.
func Ptr[T any](v T) *T { return &v }
