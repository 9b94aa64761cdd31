package models

import "time"

// User is a registered account holder.
type User struct {
	ID           string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	UserName     string    `json:"user_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
