package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/malusanacoza-ui/TodoListManager/internal/config"
	"github.com/malusanacoza-ui/TodoListManager/internal/repo"
	"github.com/malusanacoza-ui/TodoListManager/migrations"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var errSQLiteOnlyUp = errors.New("sqlite schema is managed by auto-migration; only \"migrate up\" is supported")

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the database schema (DB_DRIVER, PG_DSN, SQLITE_PATH)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := config.LoadDB()
				if err != nil {
					return err
				}
				if err := migrateUp(db); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", db.Driver)
				return nil
			},
		},
		gooseCmd("down", "Roll back the most recent migration", goose.Down),
		gooseCmd("status", "Print applied and pending migrations", goose.Status),
	)
	return cmd
}

func migrateUp(db config.DBConfig) error {
	if db.Driver == config.DriverSQLite {
		gdb, err := repo.OpenSQLite(db.SQLitePath, false)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return migrations.Up(db.DSN)
}

// gooseCmd wraps a goose operation that only makes sense for Postgres.
func gooseCmd(use, short string, run func(db *sql.DB, dir string, opts ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			if cfg.Driver == config.DriverSQLite {
				return errSQLiteOnlyUp
			}
			db, err := migrations.Open(cfg.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := run(db, migrations.Dir); err != nil {
				return fmt.Errorf("goose %s: %w", use, err)
			}
			return nil
		},
	}
}
