package models

import "time"

// Realm is one of the two disjoint authentication namespaces.
type Realm string

const (
	RealmAdmin Realm = "admin"
	RealmUser  Realm = "user"
)

func (r Realm) Valid() bool {
	return r == RealmAdmin || r == RealmUser
}

// Principal is the identity resolved from a bearer token. ID lives in the
// id space of Realm: an admin id and a user id are never comparable.
type Principal struct {
	Realm   Realm
	ID      int64
	TokenID int64
}

func (p Principal) IsAdmin() bool { return p.Realm == RealmAdmin }
func (p Principal) IsUser() bool  { return p.Realm == RealmUser }

// Token is a persisted access token. Only the hash of the secret is kept.
type Token struct {
	ID          int64
	Realm       Realm
	PrincipalID int64
	Hash        string
	CreatedAt   time.Time
	LastUsedAt  *time.Time
	ExpiresAt   *time.Time
}

func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
