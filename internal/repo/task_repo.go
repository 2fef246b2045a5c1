package repo

import (
	"context"
	"errors"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo is owner-scoped task persistence. Every method that addresses a
// single row takes both ownerID and id; a row owned by someone else is
// reported exactly like a missing one.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error)
	List(ctx context.Context, ownerID int64) ([]dom.Task, error)
	// Update writes the mutable fields only. owner_id and created_at are never touched.
	Update(ctx context.Context, ownerID, id int64, t dom.Task) (dom.Task, error)
	Delete(ctx context.Context, ownerID, id int64) (bool, error)
	ToggleCompleted(ctx context.Context, ownerID, id int64) (bool, error)
	TogglePinned(ctx context.Context, ownerID, id int64) (bool, error)
}

const taskColumns = `id, owner_id, title, description, is_completed, is_pinned, priority, created_at, updated_at`

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, title, description, is_completed, is_pinned, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + taskColumns
	row := r.db.QueryRow(ctx, query,
		t.OwnerID, t.Title, t.Description, t.IsCompleted, t.IsPinned, int16(t.Priority), t.CreatedAt)
	return scanTask(row)
}

func (r *PGTaskRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	return scanTask(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *PGTaskRepo) List(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE owner_id = $1
		ORDER BY is_pinned DESC, priority DESC, is_completed ASC, id ASC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, ownerID, id int64, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, is_completed = $5, is_pinned = $6, priority = $7, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns
	row := r.db.QueryRow(ctx, query,
		id, ownerID, t.Title, t.Description, t.IsCompleted, t.IsPinned, int16(t.Priority))
	return scanTask(row)
}

func (r *PGTaskRepo) Delete(ctx context.Context, ownerID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGTaskRepo) ToggleCompleted(ctx context.Context, ownerID, id int64) (bool, error) {
	return r.toggle(ctx, `UPDATE tasks SET is_completed = NOT is_completed, updated_at = NOW() WHERE id = $1 AND owner_id = $2`, ownerID, id)
}

func (r *PGTaskRepo) TogglePinned(ctx context.Context, ownerID, id int64) (bool, error) {
	return r.toggle(ctx, `UPDATE tasks SET is_pinned = NOT is_pinned, updated_at = NOW() WHERE id = $1 AND owner_id = $2`, ownerID, id)
}

func (r *PGTaskRepo) toggle(ctx context.Context, query string, ownerID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var (
		t        dom.Task
		priority int16
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.IsCompleted, &t.IsPinned,
		&priority, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	t.Priority = dom.Priority(priority)
	return t, nil
}
