package domain

import (
	"cmp"
	"slices"
	"time"
)

// Task is the domain entity: a single to-do item owned by exactly one user.
// Does not depend on Gin, Postgres or Redis.
type Task struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	IsCompleted bool
	IsPinned    bool
	Priority    Priority

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompareForList orders tasks the way the list view shows them:
// pinned first, then higher priority, then incomplete before completed.
// Ties fall back to id so the order is deterministic.
func CompareForList(a, b Task) int {
	if a.IsPinned != b.IsPinned {
		if a.IsPinned {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if a.IsCompleted != b.IsCompleted {
		if a.IsCompleted {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortTasks sorts list in place with CompareForList.
func SortTasks(list []Task) {
	slices.SortStableFunc(list, CompareForList)
}
