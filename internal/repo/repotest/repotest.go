// Package repotest provides storage fixtures for tests in other packages.
package repotest

import (
	"testing"

	"github.com/malusanacoza-ui/TodoListManager/internal/repo"

	"gorm.io/gorm"
)

// NewSQLite returns a migrated in-memory database that is closed when the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := repo.OpenSQLite(":memory:", false)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
