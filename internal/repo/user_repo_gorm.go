package repo

import (
	"context"
	"errors"
	"time"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"

	"gorm.io/gorm"
)

// GormUserRepo implements UserRepo with GORM.
type GormUserRepo struct {
	db *gorm.DB
}

// NewGormUserRepo returns a new GormUserRepo.
func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

func (r *GormUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GormUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepo) Create(ctx context.Context, username, passwordHash string) (dom.User, error) {
	row := userRow{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return dom.User{}, err
	}
	return row.toDomain(), nil
}

func (r *GormUserRepo) first(ctx context.Context, query string, arg any) (dom.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return row.toDomain(), nil
}
