// Package service holds the auth flows and the resource CRUD operations.
// Every method validates its input, talks to the store and returns either a
// model or an *apperr.Error the HTTP layer knows how to render.
package service

import (
	"context"
	"errors"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/db"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/validation"
)

// Store is the persistence the services need. *db.DB implements it.
type Store interface {
	CreateAccount(ctx context.Context, realm models.Realm, account *models.Account) error
	GetAccount(ctx context.Context, realm models.Realm, id int64) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, realm models.Realm, email string) (*models.Account, error)
	AccountEmailTaken(ctx context.Context, realm models.Realm, email string, exceptID int64) (bool, error)

	GetUser(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, page models.PageRequest) ([]models.User, int, error)

	CreateStorage(ctx context.Context, storage *models.Storage) error
	GetStorage(ctx context.Context, id int64) (*models.Storage, error)
	GetStorageByUserID(ctx context.Context, userID int64) (*models.Storage, error)
	StorageExists(ctx context.Context, id int64) (bool, error)
	StorageUserTaken(ctx context.Context, userID, exceptID int64) (bool, error)
	UpdateStorage(ctx context.Context, storage *models.Storage) error
	DeleteStorage(ctx context.Context, id int64) error
	ListStorages(ctx context.Context, page models.PageRequest) ([]models.Storage, int, error)

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	ListItems(ctx context.Context, page models.PageRequest) ([]models.Item, int, error)
}

// TokenIssuer is implemented by *security.TokenIssuer.
type TokenIssuer interface {
	Issue(ctx context.Context, realm models.Realm, principalID int64) (string, error)
	Revoke(ctx context.Context, tokenID int64) error
}

// Rule sets shared by the account flows.
func nameRules() validation.Field {
	return validation.F("name", validation.Required(), validation.String(), validation.Between(3, 255))
}

func emailTaken(store Store, realm models.Realm, exceptID int64) func(context.Context, string) (bool, error) {
	return func(ctx context.Context, email string) (bool, error) {
		return store.AccountEmailTaken(ctx, realm, email, exceptID)
	}
}

// lookupErr maps a store read failure. Missing rows become not found.
func lookupErr(what string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return apperr.NotFound(err)
	}
	return apperr.Unexpected(what, err)
}

// writeErr maps a store write failure. Constraint violations that raced
// past validation get the same message validation would have given.
func writeErr(what, field string, err error) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return apperr.NotFound(err)
	case errors.Is(err, db.ErrDuplicate):
		return &apperr.Error{Kind: apperr.KindValidation, Message: validation.TakenMessage(validation.Label(field)), Cause: err}
	case errors.Is(err, db.ErrForeignKey):
		return &apperr.Error{Kind: apperr.KindValidation, Message: validation.InvalidMessage(validation.Label(field)), Cause: err}
	default:
		return apperr.Unexpected(what, err)
	}
}
