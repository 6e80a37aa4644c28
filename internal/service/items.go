package service

import (
	"context"
	"errors"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/db"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/validation"
)

// ErrNoStorage is the validation failure for a user creating an item before
// a storage was assigned to them.
var ErrNoStorage = apperr.Validation("The user does not have a storage.")

type ItemService struct {
	store Store
}

func NewItemService(store Store) *ItemService {
	return &ItemService{store: store}
}

func itemFields() []validation.Field {
	return []validation.Field{
		validation.F("name", validation.Required(), validation.String(), validation.Between(3, 255)),
		validation.F("description", validation.Required(), validation.String(), validation.Min(3)),
	}
}

func (s *ItemService) List(ctx context.Context, req models.PageRequest) (models.Page[models.Item], error) {
	req = req.Normalize()
	items, total, err := s.store.ListItems(ctx, req)
	if err != nil {
		return models.Page[models.Item]{}, apperr.Unexpected("list items", err)
	}
	return models.NewPage(req, items, total), nil
}

// Create stores a new item on behalf of principal. Admins choose the
// storage with storage_id. Users always create in their own storage and any
// storage_id they send is ignored.
func (s *ItemService) Create(ctx context.Context, principal models.Principal, in validation.Input) (*models.Item, error) {
	var storageID int64
	switch {
	case principal.IsUser():
		if err := validation.Check(ctx, in, itemFields()...); err != nil {
			return nil, err
		}
		storage, err := s.store.GetStorageByUserID(ctx, principal.ID)
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNoStorage
		}
		if err != nil {
			return nil, apperr.Unexpected("load user storage", err)
		}
		storageID = storage.ID
	case principal.IsAdmin():
		fields := append([]validation.Field{
			validation.F("storage_id", validation.Required(), validation.Exists(s.store.StorageExists)),
		}, itemFields()...)
		if err := validation.Check(ctx, in, fields...); err != nil {
			return nil, err
		}
		storageID, _ = in.ID("storage_id")
	default:
		return nil, apperr.Unauthenticated(errors.New("no principal"))
	}

	item := &models.Item{
		StorageID:   storageID,
		Name:        in.String("name"),
		Description: in.String("description"),
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, writeErr("create item", "storage_id", err)
	}
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, lookupErr("get item", err)
	}
	return item, nil
}

// Update replaces name and description. storage_id may be sent to move the
// item; when absent the item stays where it is.
func (s *ItemService) Update(ctx context.Context, id int64, in validation.Input) (*models.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := append([]validation.Field{
		validation.F("storage_id", validation.Exists(s.store.StorageExists)),
	}, itemFields()...)
	if err := validation.Check(ctx, in, fields...); err != nil {
		return nil, err
	}

	if in.Has("storage_id") {
		item.StorageID, _ = in.ID("storage_id")
	}
	item.Name = in.String("name")
	item.Description = in.String("description")
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, writeErr("update item", "storage_id", err)
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return lookupErr("delete item", err)
	}
	return nil
}
