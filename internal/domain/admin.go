package domain

import "time"

// Admin is a back-office operator allowed to moderate profiles.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
