// Package storage wraps the shared *sql.DB pool with the SQL dialect it talks
// to. Queries are written with '?' placeholders and rebound for PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/c14220110/clinic-appointments/config"
	"github.com/c14220110/clinic-appointments/pkg/storage/mariadb"
	"github.com/c14220110/clinic-appointments/pkg/storage/postgres"
	"github.com/c14220110/clinic-appointments/pkg/storage/sqlite"
)

type Dialect string

const (
	MariaDB  Dialect = "mariadb"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

type DB struct {
	*sql.DB
	Dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// Open connects to the database selected by DB_DRIVER.
func Open(cfg *config.Config) (*DB, error) {
	switch Dialect(cfg.DBDriver) {
	case MariaDB, "mysql":
		db, err := mariadb.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return New(db, MariaDB), nil
	case Postgres, "postgresql":
		db, err := postgres.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return New(db, Postgres), nil
	case SQLite, "sqlite3":
		db, err := sqlite.Connect(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return New(db, SQLite), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Rebind rewrites '?' placeholders into $1, $2, ... for PostgreSQL.
func (db *DB) Rebind(query string) string {
	if db.Dialect != Postgres {
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

func (db *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Rebind(query), args...)
}

func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Rebind(query), args...)
}

func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Rebind(query), args...)
}

// Insert runs an INSERT and returns the generated id. PostgreSQL has no
// LastInsertId so the statement gets a RETURNING clause there.
func (db *DB) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	if db.Dialect == Postgres {
		var id int64
		err := db.QueryRow(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
