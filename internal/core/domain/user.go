package domain

import "time"

// InitialTokenVersion is the version every account starts with. A successful
// login raises it by one, which invalidates every token minted earlier.
const InitialTokenVersion int64 = 1

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TokenVersion int64     `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the identity resolved from a valid session token.
type Principal struct {
	UserID       string
	Email        string
	Name         string
	TokenVersion int64
}
