package domain

import "time"

// CompanyProfile is the moderation-bearing profile of a recruiting company.
type CompanyProfile struct {
	UserID      string
	Designation string
	City        string
	Country     string
	Approved    bool
	InReview    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
