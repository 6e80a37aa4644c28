package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/HaBsawy/creiden-task/internal/models"
)

// Admins and users share a row shape but live in separate tables, one per
// realm, so emails are unique per realm only. Emails are stored lower-cased
// and every lookup lower-cases its argument, so uniqueness and login ignore
// case.

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func accountTable(realm models.Realm) (string, error) {
	switch realm {
	case models.RealmAdmin:
		return "admins", nil
	case models.RealmUser:
		return "users", nil
	default:
		return "", fmt.Errorf("db: unknown realm %q", realm)
	}
}

// CreateAccount inserts a credential record into the realm's table and
// fills in its id and timestamps.
func (db *DB) CreateAccount(ctx context.Context, realm models.Realm, account *models.Account) error {
	table, err := accountTable(realm)
	if err != nil {
		return err
	}

	account.Email = normalizeEmail(account.Email)
	now := db.timestamp()
	err = db.QueryRowContext(ctx,
		db.q("INSERT INTO "+table+" (name, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		account.Name, account.Email, account.PasswordHash, toMillis(now), toMillis(now),
	).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("insert %s: %w", realm, classify(err))
	}
	account.CreatedAt, account.UpdatedAt = now, now
	return nil
}

func (db *DB) GetAccount(ctx context.Context, realm models.Realm, id int64) (*models.Account, error) {
	table, err := accountTable(realm)
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx,
		db.q("SELECT id, name, email, password, created_at, updated_at FROM "+table+" WHERE id = ?"), id)
	return scanAccount(row)
}

func (db *DB) GetAccountByEmail(ctx context.Context, realm models.Realm, email string) (*models.Account, error) {
	table, err := accountTable(realm)
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx,
		db.q("SELECT id, name, email, password, created_at, updated_at FROM "+table+" WHERE email = ?"), normalizeEmail(email))
	return scanAccount(row)
}

// AccountEmailTaken reports whether email is used by an account of realm
// other than exceptID. Pass 0 to check against every account.
func (db *DB) AccountEmailTaken(ctx context.Context, realm models.Realm, email string, exceptID int64) (bool, error) {
	table, err := accountTable(realm)
	if err != nil {
		return false, err
	}
	var found int
	err = db.QueryRowContext(ctx,
		db.q("SELECT 1 FROM "+table+" WHERE email = ? AND id <> ?"), normalizeEmail(email), exceptID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account              models.Account
		createdAt, updatedAt int64
	)
	err := row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	account.CreatedAt = fromMillis(createdAt)
	account.UpdatedAt = fromMillis(updatedAt)
	return &account, nil
}
