package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// ReferralRepository stores referral codes and their approval credits.
type ReferralRepository interface {
	Create(ctx context.Context, referral *domain.Referral) error
	GetByCode(ctx context.Context, code string) (*domain.Referral, error)
	GetByWallet(ctx context.Context, wallet string) (*domain.Referral, error)
	// CreditApproval appends userID to approved_talents once. It reports
	// whether the id was newly appended and returns pgx.ErrNoRows for an
	// unknown code.
	CreditApproval(ctx context.Context, code, userID string) (bool, error)
}

type referralRepository struct {
	db DBTX
}

// NewReferralRepository instantiates the repository.
func NewReferralRepository(db DBTX) ReferralRepository {
	return &referralRepository{db: db}
}

const referralColumns = `wallet_address, referral_code, approved_talents, created_at`

func (r *referralRepository) Create(ctx context.Context, referral *domain.Referral) error {
	const query = `
        INSERT INTO referrals (wallet_address, referral_code)
        VALUES ($1, $2)
        RETURNING approved_talents, created_at`
	return r.db.QueryRow(ctx, query, referral.WalletAddress, referral.ReferralCode).
		Scan(&referral.ApprovedTalents, &referral.CreatedAt)
}

func (r *referralRepository) GetByCode(ctx context.Context, code string) (*domain.Referral, error) {
	return scanReferral(r.db.QueryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE referral_code=$1`, code))
}

func (r *referralRepository) GetByWallet(ctx context.Context, wallet string) (*domain.Referral, error) {
	return scanReferral(r.db.QueryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE wallet_address=$1`, wallet))
}

func (r *referralRepository) CreditApproval(ctx context.Context, code, userID string) (bool, error) {
	const lock = `SELECT ` + referralColumns + ` FROM referrals WHERE referral_code=$1 FOR UPDATE`
	referral, err := scanReferral(r.db.QueryRow(ctx, lock, code))
	if err != nil {
		return false, err
	}
	if referral.HasApproved(userID) {
		return false, nil
	}

	const query = `UPDATE referrals SET approved_talents = array_append(approved_talents, $1::uuid) WHERE referral_code=$2`
	cmd, err := r.db.Exec(ctx, query, userID, code)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, pgx.ErrNoRows
	}
	return true, nil
}

func scanReferral(row pgx.Row) (*domain.Referral, error) {
	var ref domain.Referral
	if err := row.Scan(
		&ref.WalletAddress,
		&ref.ReferralCode,
		&ref.ApprovedTalents,
		&ref.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ref, nil
}
