package service

import (
	"context"
	"errors"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/db"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/security"
	"github.com/HaBsawy/creiden-task/internal/validation"
)

var errBadCredentials = errors.New("bad credentials")

// AuthService runs register, login and logout for one realm.
type AuthService struct {
	realm      models.Realm
	store      Store
	tokens     TokenIssuer
	bcryptCost int
}

func NewAuthService(realm models.Realm, store Store, tokens TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{realm: realm, store: store, tokens: tokens, bcryptCost: bcryptCost}
}

func (s *AuthService) Realm() models.Realm {
	return s.realm
}

// Register creates an account in the service's realm and logs it in.
func (s *AuthService) Register(ctx context.Context, in validation.Input) (*models.Credentials, error) {
	err := validation.Check(ctx, in,
		nameRules(),
		validation.F("email", validation.Required(), validation.Email(),
			validation.Unique(emailTaken(s.store, s.realm, 0))),
		validation.F("password", validation.Required(), validation.String(), validation.Min(8), validation.Confirmed()),
	)
	if err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.String("password"), s.bcryptCost)
	if err != nil {
		return nil, apperr.Unexpected("hash password", err)
	}
	account := &models.Account{
		Name:         in.String("name"),
		Email:        in.String("email"),
		PasswordHash: hash,
	}
	if err := s.store.CreateAccount(ctx, s.realm, account); err != nil {
		return nil, writeErr("create "+string(s.realm), "email", err)
	}
	return s.credentials(ctx, account)
}

// Login checks email and password and issues a new token. Unknown emails
// and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, in validation.Input) (*models.Credentials, error) {
	err := validation.Check(ctx, in,
		validation.F("email", validation.Required(), validation.Email()),
		validation.F("password", validation.Required(), validation.String()),
	)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccountByEmail(ctx, s.realm, in.String("email"))
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.Unauthenticated(errBadCredentials)
	}
	if err != nil {
		return nil, apperr.Unexpected("load "+string(s.realm), err)
	}
	if !security.ComparePasswords(account.PasswordHash, in.String("password")) {
		return nil, apperr.Unauthenticated(errBadCredentials)
	}
	return s.credentials(ctx, account)
}

// Logout revokes the token the principal authenticated with. Other tokens
// of the same principal stay valid.
func (s *AuthService) Logout(ctx context.Context, principal models.Principal) error {
	if principal.Realm != s.realm {
		return apperr.Unauthenticated(errors.New("logout from another realm"))
	}
	err := s.tokens.Revoke(ctx, principal.TokenID)
	if err != nil && apperr.KindOf(err) != apperr.KindUnauthenticated {
		return apperr.Unexpected("revoke token", err)
	}
	return err
}

func (s *AuthService) credentials(ctx context.Context, account *models.Account) (*models.Credentials, error) {
	token, err := s.tokens.Issue(ctx, s.realm, account.ID)
	if err != nil {
		return nil, apperr.Unexpected("issue token", err)
	}
	return &models.Credentials{Name: account.Name, Email: account.Email, Token: token}, nil
}
