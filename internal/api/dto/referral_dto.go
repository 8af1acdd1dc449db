package dto

import "time"

// CreateReferralRequest payload for POST /api/referrals.
type CreateReferralRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// ReferralResponse exposes a referral code and its credits.
type ReferralResponse struct {
	WalletAddress   string    `json:"wallet_address"`
	ReferralCode    string    `json:"referral_code"`
	ApprovedTalents []string  `json:"approved_talents"`
	CreatedAt       time.Time `json:"created_at"`
}
