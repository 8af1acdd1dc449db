package events

import (
	"time"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTalentApproved  EventType = "talent_approved"
	EventCompanyApproved EventType = "company_approved"
	EventProfileRejected EventType = "profile_rejected"
	EventReviewRequested EventType = "review_requested"
)

// ProfileKind tells talent and company moderation apart.
type ProfileKind string

const (
	ProfileTalent  ProfileKind = "talent"
	ProfileCompany ProfileKind = "company"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type,omitempty"`
	AdminID *string            `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted after a moderation commit.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TalentApprovedPayload payload.
type TalentApprovedPayload struct {
	Statuses         map[domain.Role]domain.ApprovalStatus `json:"statuses"`
	ReferralCode     *string                               `json:"referral_code,omitempty"`
	ReferralCredited bool                                  `json:"referral_credited"`
}

// CompanyApprovedPayload payload.
type CompanyApprovedPayload struct {
	Designation string `json:"designation"`
}

// ProfileRejectedPayload payload.
type ProfileRejectedPayload struct {
	Kind ProfileKind `json:"kind"`
}

// ReviewRequestedPayload payload.
type ReviewRequestedPayload struct {
	Kind ProfileKind `json:"kind"`
}
