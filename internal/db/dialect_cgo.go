//go:build cgo

package db

import (
	"errors"

	mattnsqlite "github.com/mattn/go-sqlite3"
)

// mattnUniqueViolation reports matched=true when err came from the cgo
// SQLite driver, and ok=true when it is a unique or primary key violation.
func mattnUniqueViolation(err error) (ok, matched bool) {
	var sqliteErr mattnsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false, false
	}
	return sqliteErr.ExtendedCode == mattnsqlite.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == mattnsqlite.ErrConstraintPrimaryKey, true
}

func mattnForeignKeyViolation(err error) (ok, matched bool) {
	var sqliteErr mattnsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false, false
	}
	return sqliteErr.ExtendedCode == mattnsqlite.ErrConstraintForeignKey, true
}
