package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HaBsawy/creiden-task/internal/models"
)

func (db *DB) CreateStorage(ctx context.Context, storage *models.Storage) error {
	now := db.timestamp()
	err := db.QueryRowContext(ctx,
		db.q("INSERT INTO storages (user_id, created_at, updated_at) VALUES (?, ?, ?) RETURNING id"),
		storage.UserID, toMillis(now), toMillis(now),
	).Scan(&storage.ID)
	if err != nil {
		return fmt.Errorf("insert storage: %w", classify(err))
	}
	storage.CreatedAt, storage.UpdatedAt = now, now
	return nil
}

func (db *DB) GetStorage(ctx context.Context, id int64) (*models.Storage, error) {
	row := db.QueryRowContext(ctx,
		db.q("SELECT id, user_id, created_at, updated_at FROM storages WHERE id = ?"), id)
	return scanStorage(row)
}

// GetStorageByUserID returns the storage owned by userID.
func (db *DB) GetStorageByUserID(ctx context.Context, userID int64) (*models.Storage, error) {
	row := db.QueryRowContext(ctx,
		db.q("SELECT id, user_id, created_at, updated_at FROM storages WHERE user_id = ?"), userID)
	return scanStorage(row)
}

func (db *DB) StorageExists(ctx context.Context, id int64) (bool, error) {
	return db.exists(ctx, db.DB, "storages", id)
}

// StorageUserTaken reports whether userID already owns a storage other
// than exceptID. Pass 0 to check against every storage.
func (db *DB) StorageUserTaken(ctx context.Context, userID, exceptID int64) (bool, error) {
	var found int
	err := db.QueryRowContext(ctx,
		db.q("SELECT 1 FROM storages WHERE user_id = ? AND id <> ?"), userID, exceptID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) UpdateStorage(ctx context.Context, storage *models.Storage) error {
	now := db.timestamp()
	res, err := db.ExecContext(ctx,
		db.q("UPDATE storages SET user_id = ?, updated_at = ? WHERE id = ?"),
		storage.UserID, toMillis(now), storage.ID,
	)
	if err != nil {
		return fmt.Errorf("update storage: %w", classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	storage.UpdatedAt = now
	return nil
}

// DeleteStorage removes the storage and every item in it.
func (db *DB) DeleteStorage(ctx context.Context, id int64) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.q("DELETE FROM items WHERE storage_id = ?"), id); err != nil {
			return fmt.Errorf("delete storage items: %w", err)
		}
		return db.deleteByID(ctx, tx, "storages", id)
	})
}

// ListStorages returns one page of storages with their owning user.
func (db *DB) ListStorages(ctx context.Context, page models.PageRequest) ([]models.Storage, int, error) {
	page = page.Normalize()

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM storages").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count storages: %w", err)
	}

	rows, err := db.QueryContext(ctx, db.q(`
SELECT s.id, s.user_id, s.created_at, s.updated_at,
       u.name, u.email, u.created_at, u.updated_at
FROM storages s
JOIN users u ON u.id = s.user_id
ORDER BY s.id
LIMIT ? OFFSET ?`), page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list storages: %w", err)
	}
	defer rows.Close()

	var storages []models.Storage
	for rows.Next() {
		var (
			storage                  models.Storage
			user                     models.User
			createdAt, updatedAt     int64
			userCreated, userUpdated int64
		)
		if err := rows.Scan(&storage.ID, &storage.UserID, &createdAt, &updatedAt,
			&user.Name, &user.Email, &userCreated, &userUpdated); err != nil {
			return nil, 0, err
		}
		storage.CreatedAt = fromMillis(createdAt)
		storage.UpdatedAt = fromMillis(updatedAt)
		user.ID = storage.UserID
		user.CreatedAt = fromMillis(userCreated)
		user.UpdatedAt = fromMillis(userUpdated)
		storage.User = &user
		storages = append(storages, storage)
	}
	return storages, total, rows.Err()
}

func scanStorage(row rowScanner) (*models.Storage, error) {
	var (
		storage              models.Storage
		createdAt, updatedAt int64
	)
	err := row.Scan(&storage.ID, &storage.UserID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	storage.CreatedAt = fromMillis(createdAt)
	storage.UpdatedAt = fromMillis(updatedAt)
	return &storage, nil
}
