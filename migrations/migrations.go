// Package migrations embeds the Postgres schema applied by goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Dir is the goose directory inside FS.
const Dir = "."

// Open points goose at the embedded schema and opens dsn through the pgx driver.
// The caller closes the returned handle.
func Open(dsn string) (*sql.DB, error) {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose dialect: %w", err)
	}
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("goose open db: %w", err)
	}
	return db, nil
}

// Up applies every pending migration.
func Up(dsn string) error {
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Up(db, Dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
