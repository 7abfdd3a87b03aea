package model

import "database/sql"

// User is the persisted user record. The password hash and the currently
// active refresh token never leave the service layer.
type User struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone"`
	PasswordHash []byte         `json:"-"`
	RefreshToken sql.NullString `json:"-"`
}

// UserProfile is the outward projection of a User: no secrets.
type UserProfile struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Profile projects the user record to its public shape.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Phone: u.Phone,
	}
}

// CachedProfile is the wire format for profile entries in the cache.
// The version field lets a newer process reject entries written with an
// older schema instead of silently mis-decoding them.
type CachedProfile struct {
	Version int          `json:"v"`
	Profile *UserProfile `json:"profile"`
}

// CachedProfileVersion is the schema version written by this process.
const CachedProfileVersion = 1
