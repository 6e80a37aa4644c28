package service

import (
	"context"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/security"
	"github.com/HaBsawy/creiden-task/internal/validation"
)

type UserService struct {
	store      Store
	bcryptCost int
}

func NewUserService(store Store, bcryptCost int) *UserService {
	return &UserService{store: store, bcryptCost: bcryptCost}
}

func (s *UserService) rules(exceptID int64) []validation.Field {
	return []validation.Field{
		nameRules(),
		validation.F("email", validation.Required(), validation.Email(),
			validation.Unique(emailTaken(s.store, models.RealmUser, exceptID))),
		validation.F("password", validation.Required(), validation.String(), validation.Min(8)),
	}
}

// List returns one page of users with their storages.
func (s *UserService) List(ctx context.Context, req models.PageRequest) (models.Page[models.User], error) {
	req = req.Normalize()
	users, total, err := s.store.ListUsers(ctx, req)
	if err != nil {
		return models.Page[models.User]{}, apperr.Unexpected("list users", err)
	}
	return models.NewPage(req, users, total), nil
}

func (s *UserService) Create(ctx context.Context, in validation.Input) (*models.User, error) {
	if err := validation.Check(ctx, in, s.rules(0)...); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(in.String("password"), s.bcryptCost)
	if err != nil {
		return nil, apperr.Unexpected("hash password", err)
	}
	user := &models.User{Account: models.Account{
		Name:         in.String("name"),
		Email:        in.String("email"),
		PasswordHash: hash,
	}}
	if err := s.store.CreateAccount(ctx, models.RealmUser, &user.Account); err != nil {
		return nil, writeErr("create user", "email", err)
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, lookupErr("get user", err)
	}
	return user, nil
}

// Update replaces every field of the user. The user may keep its own email.
func (s *UserService) Update(ctx context.Context, id int64, in validation.Input) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Check(ctx, in, s.rules(user.ID)...); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(in.String("password"), s.bcryptCost)
	if err != nil {
		return nil, apperr.Unexpected("hash password", err)
	}
	user.Name = in.String("name")
	user.Email = in.String("email")
	user.PasswordHash = hash
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, writeErr("update user", "email", err)
	}
	return user, nil
}

// Delete removes the user along with its tokens, storage and items.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return lookupErr("delete user", err)
	}
	return nil
}
