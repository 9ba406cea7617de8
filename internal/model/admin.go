package model

import "time"

// Admin mirrors the `admins` table.  PasswordHash holds a bcrypt digest and
// is never serialized.
type Admin struct {
	ID           int64     `json:"id"`       // admins.id
	Username     string    `json:"username"` // admins.username
	PasswordHash string    `json:"-"`        // admins.password_hash
	CreatedAt    time.Time `json:"-"`        // admins.created_at
}
