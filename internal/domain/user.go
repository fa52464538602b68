// internal/domain/user.go
package domain

import "time"

// User represents a registered account. The password only ever exists here as
// a bcrypt hash; raw credentials are handled by the auth layer.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"` // Unique
	Email          string    `db:"email" json:"email"`       // Unique
	HashedPassword string    `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance with an already-hashed password.
func NewUser(username, email, hashedPassword string) *User {
	now := time.Now().UTC()
	return &User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
