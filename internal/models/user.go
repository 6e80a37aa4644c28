package models

import "time"

// Account is the credential record shared by both realms.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Don't expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type User struct {
	Account

	// Storage is only populated by listings that eager-load it.
	Storage *Storage `json:"storage,omitempty"`
}

type Storage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
}

type Item struct {
	ID          int64     `json:"id"`
	StorageID   int64     `json:"storage_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Storage *Storage `json:"storage,omitempty"`
}

// Credentials is the public result of a register or login call. Token is
// the plaintext bearer token and is only ever returned here.
type Credentials struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}
