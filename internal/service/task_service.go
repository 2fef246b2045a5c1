package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/malusanacoza-ui/TodoListManager/internal/cache"
	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"
	"github.com/malusanacoza-ui/TodoListManager/internal/repo"

	"golang.org/x/sync/singleflight"
)

// TaskService owns the task rules. Every method is scoped by ownerID and
// never reads or writes a task belonging to another owner.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
	now   func() time.Time
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c, now: time.Now}
}

// listLoadTimeout bounds a shared list load, which no single caller can cancel.
const listLoadTimeout = 10 * time.Second

// List returns all tasks of ownerID, pinned first, then by priority
// (high to low), then incomplete before completed.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	if s.cache == nil {
		return s.load(ctx, ownerID)
	}
	ch := s.sf.DoChan(flightKey(ownerID), func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listLoadTimeout)
		defer cancel()
		return s.loadCached(fctx, ownerID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Callers sharing a flight must not share the backing array.
		return slices.Clone(res.Val.([]dom.Task)), nil
	}
}

func flightKey(ownerID int64) string {
	return "list:" + strconv.FormatInt(ownerID, 10)
}

// loadCached serves the list from Redis when the owner's generation has a
// cached copy, otherwise loads it and caches it under the generation read first.
func (s *TaskService) loadCached(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	gen, err := s.cache.Generation(ctx, ownerID)
	if err != nil {
		slog.Warn("task cache read failed", "owner_id", ownerID, "error", err)
		return s.load(ctx, ownerID)
	}
	list, ok, err := s.cache.GetList(ctx, ownerID, gen)
	if err != nil {
		slog.Warn("task cache read failed", "owner_id", ownerID, "error", err)
	}
	if ok {
		dom.SortTasks(list)
		return list, nil
	}
	list, err = s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetList(ctx, ownerID, gen, list); err != nil {
		slog.Warn("task cache write failed", "owner_id", ownerID, "error", err)
	}
	return list, nil
}

func (s *TaskService) load(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	list, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	dom.SortTasks(list)
	return list, nil
}

// Get returns the task, or ErrNotFound if it is missing or not owned by ownerID.
func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Create validates in and stores it for ownerID. OwnerID and CreatedAt in
// the input are ignored and stamped server side.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in dom.Task) (dom.Task, error) {
	t := normalizeTask(in)
	if err := validateTask(t, in); err != nil {
		return dom.Task{}, err
	}
	t.ID = 0
	t.OwnerID = ownerID
	t.CreatedAt = s.now().UTC()
	t.UpdatedAt = t.CreatedAt

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.invalidateCache(ctx, ownerID)
	return created, nil
}

// Edit replaces the mutable fields of task id with in. A non-zero in.ID that
// disagrees with id is treated as not found. Owner and creation time always
// come from the stored task.
func (s *TaskService) Edit(ctx context.Context, ownerID, id int64, in dom.Task) (dom.Task, error) {
	if in.ID != 0 && in.ID != id {
		return dom.Task{}, ErrNotFound
	}
	existing, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return dom.Task{}, err
	}

	t := normalizeTask(in)
	if err := validateTask(t, in); err != nil {
		return dom.Task{}, err
	}
	t.ID = existing.ID
	t.OwnerID = existing.OwnerID
	t.CreatedAt = existing.CreatedAt

	updated, err := s.repo.Update(ctx, ownerID, id, t)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, fmt.Errorf("update task: %w", err)
	}
	s.invalidateCache(ctx, ownerID)
	return updated, nil
}

// Delete removes the task. A missing task is not an error.
func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if deleted {
		s.invalidateCache(ctx, ownerID)
	}
	return nil
}

// ToggleComplete flips IsCompleted. A missing task is not an error.
func (s *TaskService) ToggleComplete(ctx context.Context, ownerID, id int64) error {
	changed, err := s.repo.ToggleCompleted(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("toggle complete: %w", err)
	}
	if changed {
		s.invalidateCache(ctx, ownerID)
	}
	return nil
}

// TogglePin flips IsPinned. A missing task is not an error.
func (s *TaskService) TogglePin(ctx context.Context, ownerID, id int64) error {
	changed, err := s.repo.TogglePinned(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("toggle pin: %w", err)
	}
	if changed {
		s.invalidateCache(ctx, ownerID)
	}
	return nil
}

// invalidateCache runs after a write has committed. Bumping the generation
// strands any list loaded before the write; forgetting the flight makes the
// next List start a fresh load instead of joining one that began earlier.
func (s *TaskService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	// The write has committed; a cancelled request must not skip the bump.
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), ownerID); err != nil {
		slog.Warn("task cache invalidation failed", "owner_id", ownerID, "error", err)
	}
	s.sf.Forget(flightKey(ownerID))
}
