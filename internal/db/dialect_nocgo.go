//go:build !cgo

package db

// Without cgo the sqlite3 driver is a stub that never returns its own error
// type, so there is nothing to match.

func mattnUniqueViolation(error) (ok, matched bool)     { return false, false }
func mattnForeignKeyViolation(error) (ok, matched bool) { return false, false }
