package repo

import (
	"fmt"
	"time"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// taskRow is the GORM model for the tasks table.
type taskRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"not null;index:idx_tasks_owner"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null;default:''"`
	IsCompleted bool      `gorm:"not null;default:false"`
	IsPinned    bool      `gorm:"not null;default:false"`
	Priority    int16     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (taskRow) TableName() string { return "tasks" }

func (r taskRow) toDomain() dom.Task {
	return dom.Task{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		IsCompleted: r.IsCompleted,
		IsPinned:    r.IsPinned,
		Priority:    dom.Priority(r.Priority),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// userRow is the GORM model for the users table.
type userRow struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toDomain() dom.User {
	return dom.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// AutoMigrate creates or updates the schema used by the GORM repositories.
// Postgres deployments use the goose migrations instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}, &taskRow{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the SQLite database at path and migrates it.
// SQLite allows one writer, so the pool is pinned to a single connection; this
// also keeps ":memory:" databases alive across calls.
func OpenSQLite(path string, verbose bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if verbose {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}
