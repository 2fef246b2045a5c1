package repo

import (
	"context"
	"testing"
	"time"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runTaskRepoContract exercises behaviour every TaskRepo backend must share.
// alice and bob must be ids of existing users.
func runTaskRepoContract(t *testing.T, newRepo func(t *testing.T) TaskRepo, alice, bob int64) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	newTask := func(owner int64, title string) dom.Task {
		return dom.Task{
			OwnerID:   owner,
			Title:     title,
			Priority:  dom.PriorityMedium,
			CreatedAt: created,
		}
	}

	t.Run("create and get", func(t *testing.T) {
		r := newRepo(t)
		in := newTask(alice, "Buy milk")
		in.Description = "2 litres"
		got, err := r.Create(ctx, in)
		require.NoError(t, err)
		assert.NotZero(t, got.ID)
		assert.Equal(t, alice, got.OwnerID)
		assert.Equal(t, "2 litres", got.Description)
		assert.True(t, created.Equal(got.CreatedAt), "created_at = %v", got.CreatedAt)

		found, err := r.GetByID(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.Equal(t, got.ID, found.ID)
		assert.Equal(t, dom.PriorityMedium, found.Priority)
	})

	t.Run("other owner sees not found", func(t *testing.T) {
		r := newRepo(t)
		got, err := r.Create(ctx, newTask(alice, "private"))
		require.NoError(t, err)

		_, err = r.GetByID(ctx, bob, got.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = r.Update(ctx, bob, got.ID, newTask(bob, "hijack"))
		assert.ErrorIs(t, err, ErrNotFound)

		for name, op := range map[string]func(context.Context, int64, int64) (bool, error){
			"delete":          r.Delete,
			"toggle complete": r.ToggleCompleted,
			"toggle pin":      r.TogglePinned,
		} {
			ok, err := op(ctx, bob, got.ID)
			require.NoError(t, err, name)
			assert.False(t, ok, name)
		}

		still, err := r.GetByID(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.Equal(t, "private", still.Title)
		assert.False(t, still.IsCompleted)
		assert.False(t, still.IsPinned)
	})

	t.Run("list is owner scoped and ordered", func(t *testing.T) {
		r := newRepo(t)
		specs := []struct {
			pinned    bool
			priority  dom.Priority
			completed bool
		}{
			{false, dom.PriorityHigh, true},
			{true, dom.PriorityLow, true},
			{false, dom.PriorityHigh, false},
			{true, dom.PriorityHigh, false},
		}
		for _, s := range specs {
			in := newTask(alice, "t")
			in.IsPinned, in.Priority, in.IsCompleted = s.pinned, s.priority, s.completed
			_, err := r.Create(ctx, in)
			require.NoError(t, err)
		}
		_, err := r.Create(ctx, newTask(bob, "bob's"))
		require.NoError(t, err)

		list, err := r.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, list, 4)
		type key struct {
			pinned    bool
			priority  dom.Priority
			completed bool
		}
		got := make([]key, len(list))
		for i, task := range list {
			assert.Equal(t, alice, task.OwnerID)
			got[i] = key{task.IsPinned, task.Priority, task.IsCompleted}
		}
		assert.Equal(t, []key{
			{true, dom.PriorityHigh, false},
			{true, dom.PriorityLow, true},
			{false, dom.PriorityHigh, false},
			{false, dom.PriorityHigh, true},
		}, got)
	})

	t.Run("update keeps owner and created_at", func(t *testing.T) {
		r := newRepo(t)
		got, err := r.Create(ctx, newTask(alice, "draft"))
		require.NoError(t, err)

		patch := dom.Task{
			OwnerID:     bob,
			Title:       "final",
			Description: "edited",
			IsCompleted: true,
			IsPinned:    true,
			Priority:    dom.PriorityHigh,
			CreatedAt:   created.Add(-48 * time.Hour),
		}
		updated, err := r.Update(ctx, alice, got.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, "final", updated.Title)
		assert.Equal(t, "edited", updated.Description)
		assert.True(t, updated.IsCompleted)
		assert.True(t, updated.IsPinned)
		assert.Equal(t, dom.PriorityHigh, updated.Priority)
		assert.Equal(t, alice, updated.OwnerID)
		assert.True(t, created.Equal(updated.CreatedAt))
	})

	t.Run("toggles flip one flag", func(t *testing.T) {
		r := newRepo(t)
		got, err := r.Create(ctx, newTask(alice, "flip"))
		require.NoError(t, err)

		ok, err := r.ToggleCompleted(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		after, err := r.GetByID(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.True(t, after.IsCompleted)
		assert.False(t, after.IsPinned)

		ok, err = r.TogglePinned(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = r.ToggleCompleted(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		after, err = r.GetByID(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.False(t, after.IsCompleted)
		assert.True(t, after.IsPinned)
		assert.Equal(t, "flip", after.Title)
		assert.True(t, created.Equal(after.CreatedAt))
	})

	t.Run("delete twice", func(t *testing.T) {
		r := newRepo(t)
		got, err := r.Create(ctx, newTask(alice, "gone"))
		require.NoError(t, err)

		ok, err := r.Delete(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = r.Delete(ctx, alice, got.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = r.GetByID(ctx, alice, got.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
