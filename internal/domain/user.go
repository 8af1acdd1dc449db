package domain

import "time"

// ApprovalStatus is the per-role moderation state surfaced to the UI.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusInReview ApprovalStatus = "in_review"
	StatusApproved ApprovalStatus = "approved"
)

// Valid reports whether s is one of the known statuses.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInReview, StatusApproved:
		return true
	}
	return false
}

// Role names a capability a user can be approved for.
type Role string

const (
	RoleTalent    Role = "talent"
	RoleMentor    Role = "mentor"
	RoleRecruiter Role = "recruiter"
)

// User is the platform identity row holding per-role statuses.
type User struct {
	UserID          string
	Email           string
	WalletAddress   *string
	TalentStatus    ApprovalStatus
	MentorStatus    ApprovalStatus
	RecruiterStatus ApprovalStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Status returns the status stored for role.
func (u *User) Status(role Role) ApprovalStatus {
	switch role {
	case RoleTalent:
		return u.TalentStatus
	case RoleMentor:
		return u.MentorStatus
	case RoleRecruiter:
		return u.RecruiterStatus
	}
	return ""
}
