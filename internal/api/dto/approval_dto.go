package dto

import (
	"time"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// ApprovalTypes carries the tri-state capability decision. Omitted fields
// decode to nil.
type ApprovalTypes struct {
	Talent    *bool `json:"talent"`
	Mentor    *bool `json:"mentor"`
	Recruiter *bool `json:"recruiter"`
}

// ApproveTalentRequest payload for POST /api/talents/approve.
type ApproveTalentRequest struct {
	UserID        string        `json:"userId"`
	ApprovalTypes ApprovalTypes `json:"approvalTypes"`
	ReferralCode  *string       `json:"referral_code"`
}

// UserIDRequest payload for single-profile moderation routes.
type UserIDRequest struct {
	UserID string `json:"userId"`
}

// ModerationResponse is returned by every moderation route.
type ModerationResponse struct {
	Message          string                                `json:"message"`
	UserID           string                                `json:"userId"`
	Statuses         map[domain.Role]domain.ApprovalStatus `json:"statuses,omitempty"`
	ReferralCredited bool                                  `json:"referralCredited"`
}

// TalentSummary is the public/admin projection of a talent profile.
type TalentSummary struct {
	UserID    string    `json:"userId"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Title     string    `json:"title"`
	Skills    []string  `json:"skills"`
	Approved  bool      `json:"approved"`
	InReview  bool      `json:"inReview"`
	Talent    bool      `json:"talent"`
	Mentor    bool      `json:"mentor"`
	Recruiter bool      `json:"recruiter"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanySummary is the admin projection of a company profile.
type CompanySummary struct {
	UserID      string    `json:"userId"`
	Designation string    `json:"designation"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Approved    bool      `json:"approved"`
	InReview    bool      `json:"inReview"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTalentSummary maps a domain profile.
func NewTalentSummary(t domain.TalentProfile) TalentSummary {
	skills := t.Skills
	if skills == nil {
		skills = []string{}
	}
	return TalentSummary{
		UserID:    t.UserID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Title:     t.Title,
		Skills:    skills,
		Approved:  t.Approved,
		InReview:  t.InReview,
		Talent:    t.Talent,
		Mentor:    t.Mentor,
		Recruiter: t.Recruiter,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewCompanySummary maps a domain profile.
func NewCompanySummary(c domain.CompanyProfile) CompanySummary {
	return CompanySummary{
		UserID:      c.UserID,
		Designation: c.Designation,
		City:        c.City,
		Country:     c.Country,
		Approved:    c.Approved,
		InReview:    c.InReview,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ModerationEntry is one row of a user's moderation audit trail.
type ModerationEntry struct {
	ID         string                                `json:"id"`
	Kind       string                                `json:"kind"`
	Transition string                                `json:"transition"`
	ActorType  string                                `json:"actor_type,omitempty"`
	ActorID    *string                               `json:"actor_id,omitempty"`
	Before     map[domain.Role]domain.ApprovalStatus `json:"before"`
	After      map[domain.Role]domain.ApprovalStatus `json:"after"`
	CreatedAt  time.Time                             `json:"created_at"`
}
