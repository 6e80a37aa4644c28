package service

import (
	"context"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/validation"
)

type StorageService struct {
	store Store
}

func NewStorageService(store Store) *StorageService {
	return &StorageService{store: store}
}

// rules checks user_id. A user owns at most one storage; the storage being
// updated may keep its own user.
func (s *StorageService) rules(exceptID int64) validation.Field {
	return validation.F("user_id",
		validation.Required(),
		validation.Exists(s.store.UserExists),
		validation.UniqueID(func(ctx context.Context, userID int64) (bool, error) {
			return s.store.StorageUserTaken(ctx, userID, exceptID)
		}),
	)
}

func (s *StorageService) List(ctx context.Context, req models.PageRequest) (models.Page[models.Storage], error) {
	req = req.Normalize()
	storages, total, err := s.store.ListStorages(ctx, req)
	if err != nil {
		return models.Page[models.Storage]{}, apperr.Unexpected("list storages", err)
	}
	return models.NewPage(req, storages, total), nil
}

func (s *StorageService) Create(ctx context.Context, in validation.Input) (*models.Storage, error) {
	if err := validation.Check(ctx, in, s.rules(0)); err != nil {
		return nil, err
	}
	userID, _ := in.ID("user_id")
	storage := &models.Storage{UserID: userID}
	if err := s.store.CreateStorage(ctx, storage); err != nil {
		return nil, storageWriteErr("create storage", err)
	}
	return storage, nil
}

func (s *StorageService) Get(ctx context.Context, id int64) (*models.Storage, error) {
	storage, err := s.store.GetStorage(ctx, id)
	if err != nil {
		return nil, lookupErr("get storage", err)
	}
	return storage, nil
}

func (s *StorageService) Update(ctx context.Context, id int64, in validation.Input) (*models.Storage, error) {
	storage, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Check(ctx, in, s.rules(storage.ID)); err != nil {
		return nil, err
	}
	storage.UserID, _ = in.ID("user_id")
	if err := s.store.UpdateStorage(ctx, storage); err != nil {
		return nil, storageWriteErr("update storage", err)
	}
	return storage, nil
}

// Delete removes the storage and every item in it.
func (s *StorageService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteStorage(ctx, id); err != nil {
		return lookupErr("delete storage", err)
	}
	return nil
}

func storageWriteErr(what string, err error) error {
	return writeErr(what, "user_id", err)
}
