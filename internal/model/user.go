// Package model defines domain entities for the application.
package model

// User represents an account that owns posts.
// Password is stored as given and never serialized in API responses.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// CachedUser represents user data stored in a Redis hash.
// Uses string types for Redis hash compatibility. The password is
// deliberately not cached.
type CachedUser struct {
	Username string `redis:"username"`
	Email    string `redis:"email"`
}

// ToUser converts CachedUser to the User domain model.
// The ID comes from the cache key, not the hash.
func (c *CachedUser) ToUser(id int64) *User {
	return &User{
		ID:       id,
		Username: c.Username,
		Email:    c.Email,
	}
}

// ToCachedUser converts a User to its cached representation.
func (u *User) ToCachedUser() *CachedUser {
	return &CachedUser{
		Username: u.Username,
		Email:    u.Email,
	}
}
