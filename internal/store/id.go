package store

import (
	"math"
	"time"

	"github.com/idilsaglam/todo/internal/model"
)

// nextID allocates a millisecond timestamp id, bumped past the largest id
// already in todos so two inserts in the same millisecond never collide.
// When the largest id is MaxInt64 there is nothing past it, so the smallest
// unused positive id is taken instead.
func nextID(now time.Time, todos []model.Todo) int64 {
	var highest int64
	for _, t := range todos {
		highest = max(highest, t.ID)
	}
	if highest == math.MaxInt64 {
		return lowestFreeID(todos)
	}
	return max(now.UnixMilli(), highest+1)
}

func lowestFreeID(todos []model.Todo) int64 {
	used := make(map[int64]bool, len(todos))
	for _, t := range todos {
		used[t.ID] = true
	}
	id := int64(1)
	for used[id] {
		id++
	}
	return id
}
