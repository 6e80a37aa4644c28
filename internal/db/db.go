package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/HaBsawy/creiden-task/internal/db/migrations"
)

var (
	// ErrNotFound is returned when a lookup by id or key matches no row.
	ErrNotFound = errors.New("db: not found")
	// ErrDuplicate wraps unique constraint violations.
	ErrDuplicate = errors.New("db: duplicate")
	// ErrForeignKey wraps foreign key violations.
	ErrForeignKey = errors.New("db: foreign key violation")
)

type DB struct {
	*sql.DB
	driver string
	now    func() time.Time
}

// Init opens the database for driver, checks the connection and applies
// the embedded migrations for its dialect.
func Init(driver, dsn string) (*DB, error) {
	var root string
	switch {
	case isSQLite(driver):
		root = "sqlite"
	case driver == DriverPostgres:
		root = "postgres"
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsnWithPragmas(driver, dsn))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := applyMigrations(ctx, sqlDB, driver, migrations.FS, root); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{DB: sqlDB, driver: driver, now: time.Now}, nil
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) q(query string) string {
	return rebind(db.driver, query)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction and commits when fn returns nil.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// classify maps driver constraint errors onto ErrDuplicate and ErrForeignKey.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	default:
		return err
	}
}

func (db *DB) exists(ctx context.Context, q querier, table string, id int64) (bool, error) {
	var found int
	err := q.QueryRowContext(ctx, db.q("SELECT 1 FROM "+table+" WHERE id = ?"), id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// deleteByID deletes one row and reports ErrNotFound when nothing matched.
func (db *DB) deleteByID(ctx context.Context, q querier, table string, id int64) error {
	res, err := q.ExecContext(ctx, db.q("DELETE FROM "+table+" WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

// timestamp returns the current time truncated to the stored precision.
func (db *DB) timestamp() time.Time {
	return fromMillis(toMillis(db.now()))
}
