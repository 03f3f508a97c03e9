package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never exposed in API responses
}

// PublicUser is the only user shape that leaves the server.
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
