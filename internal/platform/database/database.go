// Package database opens the connection the stores share and prepares the
// tables owned by the employee and department side of the schema.
package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-sqlx/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

const (
	SQLite   = "sqlite3"
	Postgres = "postgres"
)

var (
	//go:embed migrations/*
	migrations embed.FS
)

// Open connects to the database for driver.
// SQLite only gets one connection since an in-memory database only lives on the connection that created it.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case SQLite, Postgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if driver == SQLite {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate runs the embedded migrations for the db's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect := db.DriverName()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB, "migrations/"+dialect); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", dialect, err)
	}

	return nil
}

// gooseLogger sends goose's output through slog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	os.Exit(1)
}
