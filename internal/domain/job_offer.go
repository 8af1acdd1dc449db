package domain

import "time"

// JobOffer is a published position searched through the public job search.
type JobOffer struct {
	ID            string
	CompanyUserID string
	Title         string
	Description   string
	Skills        []string
	City          string
	Country       string
	Budget        *float64
	Currency      string
	Published     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
