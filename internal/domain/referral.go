package domain

import "time"

// Referral records which referred users were approved for a referring wallet.
type Referral struct {
	WalletAddress   string
	ReferralCode    string
	ApprovedTalents []string
	CreatedAt       time.Time
}

// HasApproved reports whether userID was already credited.
func (r *Referral) HasApproved(userID string) bool {
	for _, id := range r.ApprovedTalents {
		if id == userID {
			return true
		}
	}
	return false
}
