package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HaBsawy/creiden-task/internal/models"
)

func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	account, err := db.GetAccount(ctx, models.RealmUser, id)
	if err != nil {
		return nil, err
	}
	return &models.User{Account: *account}, nil
}

func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	return db.exists(ctx, db.DB, "users", id)
}

// UpdateUser replaces name, email and password of an existing user.
func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	now := db.timestamp()
	res, err := db.ExecContext(ctx,
		db.q("UPDATE users SET name = ?, email = ?, password = ?, updated_at = ? WHERE id = ?"),
		user.Name, user.Email, user.PasswordHash, toMillis(now), user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	user.UpdatedAt = now
	return nil
}

// DeleteUser removes the user together with its tokens, storage and the
// items in that storage.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			db.q("DELETE FROM access_tokens WHERE realm = ? AND principal_id = ?"), string(models.RealmUser), id,
		); err != nil {
			return fmt.Errorf("delete user tokens: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			db.q("DELETE FROM items WHERE storage_id IN (SELECT id FROM storages WHERE user_id = ?)"), id,
		); err != nil {
			return fmt.Errorf("delete user items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, db.q("DELETE FROM storages WHERE user_id = ?"), id); err != nil {
			return fmt.Errorf("delete user storage: %w", err)
		}
		return db.deleteByID(ctx, tx, "users", id)
	})
}

// ListUsers returns one page of users, each with its storage when it has one.
func (db *DB) ListUsers(ctx context.Context, page models.PageRequest) ([]models.User, int, error) {
	page = page.Normalize()

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := db.QueryContext(ctx, db.q(`
SELECT u.id, u.name, u.email, u.created_at, u.updated_at,
       s.id, s.created_at, s.updated_at
FROM users u
LEFT JOIN storages s ON s.user_id = u.id
ORDER BY u.id
LIMIT ? OFFSET ?`), page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			user                           models.User
			createdAt, updatedAt           int64
			storageID                      sql.NullInt64
			storageCreated, storageUpdated sql.NullInt64
		)
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &createdAt, &updatedAt,
			&storageID, &storageCreated, &storageUpdated); err != nil {
			return nil, 0, err
		}
		user.CreatedAt = fromMillis(createdAt)
		user.UpdatedAt = fromMillis(updatedAt)
		if storageID.Valid {
			user.Storage = &models.Storage{
				ID:        storageID.Int64,
				UserID:    user.ID,
				CreatedAt: fromMillis(storageCreated.Int64),
				UpdatedAt: fromMillis(storageUpdated.Int64),
			}
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}
