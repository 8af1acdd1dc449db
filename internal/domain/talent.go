package domain

import "time"

// TalentProfile is the moderation-bearing profile of a talent. A single
// profile may hold any combination of the talent, mentor and recruiter
// capabilities.
type TalentProfile struct {
	UserID    string
	FirstName string
	LastName  string
	Title     string
	Skills    []string
	Approved  bool
	InReview  bool
	Talent    bool
	Mentor    bool
	Recruiter bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApprovalFlags carries the tri-state capability decision of an admin.
// A nil field means the admin made no decision for that role.
type ApprovalFlags struct {
	Talent    *bool
	Mentor    *bool
	Recruiter *bool
}

// For returns the flag for role.
func (f ApprovalFlags) For(role Role) *bool {
	switch role {
	case RoleTalent:
		return f.Talent
	case RoleMentor:
		return f.Mentor
	case RoleRecruiter:
		return f.Recruiter
	}
	return nil
}

// StatusFor maps a flag to the user status it implies. The second value is
// false when the flag is absent and the current status must be kept.
func (f ApprovalFlags) StatusFor(role Role) (ApprovalStatus, bool) {
	flag := f.For(role)
	if flag == nil {
		return "", false
	}
	if *flag {
		return StatusApproved, true
	}
	return StatusPending, true
}

// TalentRoles lists the roles a talent profile can carry, in column order.
var TalentRoles = []Role{RoleTalent, RoleMentor, RoleRecruiter}
