package security

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/db"
	"github.com/HaBsawy/creiden-task/internal/models"
)

func openTempStore(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.Init(db.DriverSQLite, filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "password", hash)
	assert.True(t, ComparePasswords(hash, "password"))
	assert.False(t, ComparePasswords(hash, "Password"))
	assert.False(t, ComparePasswords("not-a-hash", "password"))
}

func TestHashPasswordOutOfRangeCost(t *testing.T) {
	hash, err := HashPassword("password", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestIssueAndValidate(t *testing.T) {
	store := openTempStore(t)
	issuer := NewTokenIssuer(store, 0)
	ctx := context.Background()

	plaintext, err := issuer.Issue(ctx, models.RealmUser, 42)
	require.NoError(t, err)

	id, secret, ok := strings.Cut(plaintext, "|")
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.Len(t, secret, secretLength)

	principal, err := issuer.Validate(ctx, plaintext, models.RealmUser)
	require.NoError(t, err)
	assert.Equal(t, models.RealmUser, principal.Realm)
	assert.Equal(t, int64(42), principal.ID)
	assert.NotZero(t, principal.TokenID)

	stored, err := store.GetToken(ctx, principal.TokenID)
	require.NoError(t, err)
	assert.NotContains(t, stored.Hash, secret)
	assert.NotNil(t, stored.LastUsedAt)
	assert.Nil(t, stored.ExpiresAt)
}

func TestValidateRejects(t *testing.T) {
	store := openTempStore(t)
	issuer := NewTokenIssuer(store, 0)
	ctx := context.Background()

	plaintext, err := issuer.Issue(ctx, models.RealmAdmin, 1)
	require.NoError(t, err)
	id, _, _ := strings.Cut(plaintext, "|")

	for name, token := range map[string]string{
		"empty":        "",
		"no separator": "abc",
		"bad id":       "x|secret",
		"zero id":      "0|secret",
		"no secret":    id + "|",
		"wrong secret": id + "|" + strings.Repeat("a", secretLength),
		"unknown id":   "999|" + strings.Repeat("a", secretLength),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Validate(ctx, token, models.RealmAdmin)
			assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		})
	}
}

func TestValidateExpired(t *testing.T) {
	store := openTempStore(t)
	issuer := NewTokenIssuer(store, time.Hour)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }
	ctx := context.Background()

	plaintext, err := issuer.Issue(ctx, models.RealmUser, 1)
	require.NoError(t, err)

	_, err = issuer.Validate(ctx, plaintext, models.RealmUser)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = issuer.Validate(ctx, plaintext, models.RealmUser)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestValidateRejectsOtherRealm(t *testing.T) {
	store := openTempStore(t)
	issuer := NewTokenIssuer(store, 0)
	ctx := context.Background()

	plaintext, err := issuer.Issue(ctx, models.RealmUser, 7)
	require.NoError(t, err)
	id, _, _ := strings.Cut(plaintext, "|")
	tokenID, err := strconv.ParseInt(id, 10, 64)
	require.NoError(t, err)

	_, err = issuer.Validate(ctx, plaintext, models.RealmAdmin)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	stored, err := store.GetToken(ctx, tokenID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastUsedAt)

	_, err = issuer.Validate(ctx, plaintext, models.RealmUser)
	require.NoError(t, err)
	stored, err = store.GetToken(ctx, tokenID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastUsedAt)
}

func TestRevokeOnlyRemovesOneToken(t *testing.T) {
	store := openTempStore(t)
	issuer := NewTokenIssuer(store, 0)
	ctx := context.Background()

	first, err := issuer.Issue(ctx, models.RealmUser, 5)
	require.NoError(t, err)
	second, err := issuer.Issue(ctx, models.RealmUser, 5)
	require.NoError(t, err)

	principal, err := issuer.Validate(ctx, first, models.RealmUser)
	require.NoError(t, err)
	require.NoError(t, issuer.Revoke(ctx, principal.TokenID))

	_, err = issuer.Validate(ctx, first, models.RealmUser)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = issuer.Validate(ctx, second, models.RealmUser)
	assert.NoError(t, err)

	assert.ErrorIs(t, issuer.Revoke(ctx, principal.TokenID), apperr.ErrUnauthenticated)
}

func TestIssueRejectsUnknownRealm(t *testing.T) {
	issuer := NewTokenIssuer(openTempStore(t), 0)

	_, err := issuer.Issue(context.Background(), models.Realm("root"), 1)
	assert.Error(t, err)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	want := models.Principal{Realm: models.RealmAdmin, ID: 3, TokenID: 9}
	got, ok := PrincipalFrom(WithPrincipal(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
