package db

import (
	"context"
	"database/sql"
	"fmt"
	"inventory-platform/config"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database selected by cfg.Driver and makes sure the
// items table exists.
func Open(ctx context.Context, cfg config.DbConfig) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch cfg.Driver {
	case DriverSQLite:
		conn, err = NewSQLite(cfg.SQLitePath)
	default:
		conn, err = NewPostgres(cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := InitSchema(ctx, conn, cfg.Driver); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func NewPostgres(cfg config.DbConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DbName,
		cfg.SSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

// NewSQLite opens path with the pure-Go driver. A single connection keeps
// ":memory:" databases shared and serializes writers.
func NewSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

var schema = map[string]string{
	DriverPostgres: `CREATE TABLE IF NOT EXISTS items (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		quantity BIGINT NOT NULL CHECK (quantity >= 0),
		category_id BIGINT NOT NULL
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		category_id INTEGER NOT NULL
	)`,
}

func InitSchema(ctx context.Context, db *sql.DB, driver string) error {
	ddl, ok := schema[driver]
	if !ok {
		return fmt.Errorf("unsupported db driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		slog.ErrorContext(ctx, "[InitSchema] ExecContext", "driver", driver, "error", err)
		return err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_items_category ON items (category_id)`); err != nil {
		slog.ErrorContext(ctx, "[InitSchema] ExecContext", "index", err)
		return err
	}
	return nil
}

// rebind rewrites "?" placeholders as "$n" for postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
