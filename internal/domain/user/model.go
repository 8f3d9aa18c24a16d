package user

import "time"

// User maps to the users table.
type User struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Valid clinical roles.
var validRoles = map[string]bool{
	"nurse":     true,
	"physician": true,
	"admin":     true,
}
