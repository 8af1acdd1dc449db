package domain

import "time"

// ModerationEntry is the audit row written with every moderation transition.
type ModerationEntry struct {
	ID         string
	UserID     string
	Kind       string
	Transition string
	ActorType  SubjectType
	ActorID    *string
	Before     map[Role]ApprovalStatus
	After      map[Role]ApprovalStatus
	CreatedAt  time.Time
}
