package model

import "strings"

// Filter is the display route: which slice of the collection is shown.
type Filter int

const (
	All Filter = iota
	Active
	Completed
)

// ParseRoute maps a navigation string to a Filter.
// It accepts "", "active", "completed", optionally prefixed with "#/" or "/".
// Anything unrecognised is All.
func ParseRoute(s string) Filter {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	s = strings.Trim(s, "/")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	switch strings.ToLower(s) {
	case "active":
		return Active
	case "completed":
		return Completed
	default:
		return All
	}
}

// Query translates the filter into a store query.
func (f Filter) Query() Query {
	switch f {
	case Active:
		return Query{Completed: Ptr(false)}
	case Completed:
		return Query{Completed: Ptr(true)}
	default:
		return Query{}
	}
}

// Route is the navigation string for f ("", "active" or "completed").
func (f Filter) Route() string {
	switch f {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

func (f Filter) String() string {
	switch f {
	case Active:
		return "Active"
	case Completed:
		return "Completed"
	default:
		return "All"
	}
}

// Filters lists every route in display order.
func Filters() []Filter { return []Filter{All, Active, Completed} }
