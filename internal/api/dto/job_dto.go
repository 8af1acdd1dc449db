package dto

import "time"

// JobOfferSummary is the public projection of a job offer.
type JobOfferSummary struct {
	ID            string    `json:"id"`
	CompanyUserID string    `json:"company_user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Skills        []string  `json:"skills"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Budget        *float64  `json:"budget,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
