package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortTasks_PinnedPriorityCompleted(t *testing.T) {
	list := []Task{
		{ID: 4, IsPinned: false, Priority: PriorityHigh, IsCompleted: true},
		{ID: 3, IsPinned: false, Priority: PriorityHigh, IsCompleted: false},
		{ID: 2, IsPinned: true, Priority: PriorityLow, IsCompleted: true},
		{ID: 1, IsPinned: true, Priority: PriorityHigh, IsCompleted: false},
	}

	SortTasks(list)

	got := make([]int64, len(list))
	for i, task := range list {
		got[i] = task.ID
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, got)
}

func TestSortTasks_PinnedBeatsPriority(t *testing.T) {
	list := []Task{
		{ID: 1, Priority: PriorityHigh},
		{ID: 2, Priority: PriorityLow, IsPinned: true},
	}
	SortTasks(list)
	assert.Equal(t, int64(2), list[0].ID)
}

func TestSortTasks_TiesKeepIDOrder(t *testing.T) {
	list := []Task{
		{ID: 9, Priority: PriorityMedium},
		{ID: 3, Priority: PriorityMedium},
		{ID: 5, Priority: PriorityMedium},
	}
	SortTasks(list)
	assert.Equal(t, []int64{3, 5, 9}, []int64{list[0].ID, list[1].ID, list[2].ID})
}
