package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HaBsawy/creiden-task/internal/models"
)

// CreateToken stores a token record. token.Hash must already be set; the
// plaintext secret never reaches this layer.
func (db *DB) CreateToken(ctx context.Context, token *models.Token) error {
	now := db.timestamp()
	err := db.QueryRowContext(ctx,
		db.q("INSERT INTO access_tokens (realm, principal_id, token_hash, created_at, expires_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		string(token.Realm), token.PrincipalID, token.Hash, toMillis(now), nullMillis(token.ExpiresAt),
	).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("insert token: %w", classify(err))
	}
	token.CreatedAt = now
	return nil
}

func (db *DB) GetToken(ctx context.Context, id int64) (*models.Token, error) {
	var (
		token                 models.Token
		realm                 string
		createdAt             int64
		lastUsedAt, expiresAt sql.NullInt64
	)
	err := db.QueryRowContext(ctx,
		db.q("SELECT id, realm, principal_id, token_hash, created_at, last_used_at, expires_at FROM access_tokens WHERE id = ?"), id,
	).Scan(&token.ID, &realm, &token.PrincipalID, &token.Hash, &createdAt, &lastUsedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	token.Realm = models.Realm(realm)
	token.CreatedAt = fromMillis(createdAt)
	token.LastUsedAt = fromNullMillis(lastUsedAt)
	token.ExpiresAt = fromNullMillis(expiresAt)
	return &token, nil
}

func (db *DB) TouchToken(ctx context.Context, id int64, at time.Time) error {
	_, err := db.ExecContext(ctx, db.q("UPDATE access_tokens SET last_used_at = ? WHERE id = ?"), toMillis(at), id)
	return err
}

// DeleteToken removes exactly one token. Other tokens of the same
// principal are left alone.
func (db *DB) DeleteToken(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, db.DB, "access_tokens", id)
}
