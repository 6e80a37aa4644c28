package security

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/db"
	"github.com/HaBsawy/creiden-task/internal/models"
)

const (
	secretLength   = 40
	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	errMalformedToken = errors.New("malformed token")
	errTokenMismatch  = errors.New("token secret mismatch")
	errTokenExpired   = errors.New("token expired")
	errUnknownToken   = errors.New("unknown token")
)

// TokenStore is the persistence the issuer needs.
type TokenStore interface {
	CreateToken(ctx context.Context, token *models.Token) error
	GetToken(ctx context.Context, id int64) (*models.Token, error)
	TouchToken(ctx context.Context, id int64, at time.Time) error
	DeleteToken(ctx context.Context, id int64) error
}

// TokenIssuer issues opaque bearer tokens of the form "<id>|<secret>" and
// resolves them back to a principal. Only sha256(secret) is persisted.
type TokenIssuer struct {
	store TokenStore
	ttl   time.Duration
	now   func() time.Time
}

// NewTokenIssuer returns an issuer backed by store. A zero ttl issues tokens
// that stay valid until revoked.
func NewTokenIssuer(store TokenStore, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{store: store, ttl: ttl, now: time.Now}
}

// Issue creates a token bound to (realm, principalID) and returns its
// plaintext. The plaintext cannot be recovered later.
func (t *TokenIssuer) Issue(ctx context.Context, realm models.Realm, principalID int64) (string, error) {
	if !realm.Valid() {
		return "", fmt.Errorf("issue token: invalid realm %q", realm)
	}
	secret, err := randomSecret(secretLength)
	if err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}

	token := &models.Token{
		Realm:       realm,
		PrincipalID: principalID,
		Hash:        hashSecret(secret),
	}
	if t.ttl > 0 {
		expires := t.now().Add(t.ttl)
		token.ExpiresAt = &expires
	}
	if err := t.store.CreateToken(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return strconv.FormatInt(token.ID, 10) + "|" + secret, nil
}

// Validate resolves plaintext to the principal it was issued for, provided
// the token belongs to realm. Every failure is reported as an
// unauthenticated error and leaves last_used_at alone.
func (t *TokenIssuer) Validate(ctx context.Context, plaintext string, realm models.Realm) (models.Principal, error) {
	id, secret, err := splitToken(plaintext)
	if err != nil {
		return models.Principal{}, apperr.Unauthenticated(err)
	}

	token, err := t.store.GetToken(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return models.Principal{}, apperr.Unauthenticated(errUnknownToken)
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("load token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(hashSecret(secret)), []byte(token.Hash)) != 1 {
		return models.Principal{}, apperr.Unauthenticated(errTokenMismatch)
	}
	now := t.now()
	if token.Expired(now) {
		return models.Principal{}, apperr.Unauthenticated(errTokenExpired)
	}
	if !token.Realm.Valid() || token.Realm != realm {
		return models.Principal{}, apperr.Unauthenticated(fmt.Errorf("token realm %q, want %q", token.Realm, realm))
	}

	if err := t.store.TouchToken(ctx, token.ID, now); err != nil {
		return models.Principal{}, fmt.Errorf("touch token: %w", err)
	}
	return models.Principal{Realm: token.Realm, ID: token.PrincipalID, TokenID: token.ID}, nil
}

// Revoke deletes exactly one token. Revoking an already removed token is
// reported as unauthenticated.
func (t *TokenIssuer) Revoke(ctx context.Context, tokenID int64) error {
	err := t.store.DeleteToken(ctx, tokenID)
	if errors.Is(err, db.ErrNotFound) {
		return apperr.Unauthenticated(errUnknownToken)
	}
	return err
}

func splitToken(plaintext string) (int64, string, error) {
	rawID, secret, ok := strings.Cut(plaintext, "|")
	if !ok || secret == "" {
		return 0, "", errMalformedToken
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", errMalformedToken
	}
	return id, secret, nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func randomSecret(n int) (string, error) {
	limit := big.NewInt(int64(len(secretAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = secretAlphabet[idx.Int64()]
	}
	return string(b), nil
}
