package repo

import (
	"context"
	"errors"
	"time"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"

	"gorm.io/gorm"
)

// GormTaskRepo implements TaskRepo on top of GORM (SQLite for local runs and tests).
type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(db *gorm.DB) *GormTaskRepo {
	return &GormTaskRepo{db: db}
}

func (r *GormTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	row := taskRow{
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		IsPinned:    t.IsPinned,
		Priority:    int16(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return dom.Task{}, err
	}
	return row.toDomain(), nil
}

func (r *GormTaskRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	var row taskRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return row.toDomain(), nil
}

func (r *GormTaskRepo) List(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	var rows []taskRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("is_pinned DESC, priority DESC, is_completed ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	list := make([]dom.Task, len(rows))
	for i := range rows {
		list[i] = rows[i].toDomain()
	}
	return list, nil
}

func (r *GormTaskRepo) Update(ctx context.Context, ownerID, id int64, t dom.Task) (dom.Task, error) {
	res := r.db.WithContext(ctx).
		Model(&taskRow{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{
			"title":        t.Title,
			"description":  t.Description,
			"is_completed": t.IsCompleted,
			"is_pinned":    t.IsPinned,
			"priority":     int16(t.Priority),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return dom.Task{}, res.Error
	}
	if res.RowsAffected == 0 {
		return dom.Task{}, ErrNotFound
	}
	return r.GetByID(ctx, ownerID, id)
}

func (r *GormTaskRepo) Delete(ctx context.Context, ownerID, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&taskRow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormTaskRepo) ToggleCompleted(ctx context.Context, ownerID, id int64) (bool, error) {
	return r.toggle(ctx, "is_completed", ownerID, id)
}

func (r *GormTaskRepo) TogglePinned(ctx context.Context, ownerID, id int64) (bool, error) {
	return r.toggle(ctx, "is_pinned", ownerID, id)
}

// toggle flips column in a single UPDATE. column is always one of the two flag names above.
func (r *GormTaskRepo) toggle(ctx context.Context, column string, ownerID, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&taskRow{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{
			column:       gorm.Expr("NOT " + column),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
