package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/repository"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

const (
	referralCodePrefix     = "GH-"
	referralCodeConstraint = "referrals_referral_code_key"
	maxReferralCodeRetries = 3
	uniqueViolation        = "23505"
)

// ReferralService issues referral codes to wallets.
type ReferralService struct {
	referrals repository.ReferralRepository
	logger    *zap.Logger
	newCode   func() string
}

// NewReferralService builds the service.
func NewReferralService(referrals repository.ReferralRepository, logger *zap.Logger) *ReferralService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferralService{referrals: referrals, logger: logger, newCode: generateReferralCode}
}

// GetOrCreate returns the referral of wallet, creating one on first use. The
// boolean reports whether a new code was issued.
func (s *ReferralService) GetOrCreate(ctx context.Context, wallet string) (*domain.Referral, bool, error) {
	address, err := normalizeWallet(wallet)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.referrals.GetByWallet(ctx, address)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error("load referral", zap.String("wallet", address), zap.Error(err))
		return nil, false, apperrors.NewPersistenceError("unable to load referral", err)
	}

	for attempt := 0; attempt < maxReferralCodeRetries; attempt++ {
		referral := &domain.Referral{WalletAddress: address, ReferralCode: s.newCode()}
		err := s.referrals.Create(ctx, referral)
		if err == nil {
			s.logger.Info("referral created", zap.String("wallet", address), zap.String("code", referral.ReferralCode))
			return referral, true, nil
		}

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			s.logger.Error("create referral", zap.String("wallet", address), zap.Error(err))
			return nil, false, apperrors.NewPersistenceError("unable to create referral", err)
		}
		if pgErr.ConstraintName == referralCodeConstraint {
			continue
		}
		// Another request created the wallet's referral first.
		existing, err := s.referrals.GetByWallet(ctx, address)
		if err != nil {
			return nil, false, apperrors.NewPersistenceError("unable to load referral", err)
		}
		return existing, false, nil
	}
	return nil, false, apperrors.NewInternalError(errors.New("referral code space exhausted"))
}

// GetByCode resolves a referral code.
func (s *ReferralService) GetByCode(ctx context.Context, code string) (*domain.Referral, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewValidationError("referral code is required", map[string]any{"field": "code"})
	}
	referral, err := s.referrals.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("referral", map[string]any{"code": code})
		}
		return nil, apperrors.NewPersistenceError("unable to load referral", err)
	}
	return referral, nil
}

// normalizeWallet validates an EVM address and returns its checksum form.
func normalizeWallet(wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if !common.IsHexAddress(wallet) {
		return "", apperrors.NewValidationError("wallet_address must be a hex encoded address", map[string]any{"field": "wallet_address"})
	}
	return common.HexToAddress(wallet).Hex(), nil
}

func generateReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return referralCodePrefix + strings.ToUpper(raw[:8])
}
