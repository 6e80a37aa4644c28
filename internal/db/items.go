package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HaBsawy/creiden-task/internal/models"
)

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	now := db.timestamp()
	err := db.QueryRowContext(ctx,
		db.q("INSERT INTO items (storage_id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		item.StorageID, item.Name, item.Description, toMillis(now), toMillis(now),
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert item: %w", classify(err))
	}
	item.CreatedAt, item.UpdatedAt = now, now
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var (
		item                 models.Item
		createdAt, updatedAt int64
	)
	err := db.QueryRowContext(ctx,
		db.q("SELECT id, storage_id, name, description, created_at, updated_at FROM items WHERE id = ?"), id,
	).Scan(&item.ID, &item.StorageID, &item.Name, &item.Description, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	item.CreatedAt = fromMillis(createdAt)
	item.UpdatedAt = fromMillis(updatedAt)
	return &item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	now := db.timestamp()
	res, err := db.ExecContext(ctx,
		db.q("UPDATE items SET storage_id = ?, name = ?, description = ?, updated_at = ? WHERE id = ?"),
		item.StorageID, item.Name, item.Description, toMillis(now), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	item.UpdatedAt = now
	return nil
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, db.DB, "items", id)
}

// ListItems returns one page of items with their storage and its user.
func (db *DB) ListItems(ctx context.Context, page models.PageRequest) ([]models.Item, int, error) {
	page = page.Normalize()

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	rows, err := db.QueryContext(ctx, db.q(`
SELECT i.id, i.storage_id, i.name, i.description, i.created_at, i.updated_at,
       s.user_id, s.created_at, s.updated_at,
       u.name, u.email, u.created_at, u.updated_at
FROM items i
JOIN storages s ON s.id = i.storage_id
JOIN users u ON u.id = s.user_id
ORDER BY i.id
LIMIT ? OFFSET ?`), page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var (
			item                           models.Item
			storage                        models.Storage
			user                           models.User
			createdAt, updatedAt           int64
			storageCreated, storageUpdated int64
			userCreated, userUpdated       int64
		)
		if err := rows.Scan(&item.ID, &item.StorageID, &item.Name, &item.Description, &createdAt, &updatedAt,
			&storage.UserID, &storageCreated, &storageUpdated,
			&user.Name, &user.Email, &userCreated, &userUpdated); err != nil {
			return nil, 0, err
		}
		item.CreatedAt = fromMillis(createdAt)
		item.UpdatedAt = fromMillis(updatedAt)
		storage.ID = item.StorageID
		storage.CreatedAt = fromMillis(storageCreated)
		storage.UpdatedAt = fromMillis(storageUpdated)
		user.ID = storage.UserID
		user.CreatedAt = fromMillis(userCreated)
		user.UpdatedAt = fromMillis(userUpdated)
		storage.User = &user
		item.Storage = &storage
		items = append(items, item)
	}
	return items, total, rows.Err()
}
