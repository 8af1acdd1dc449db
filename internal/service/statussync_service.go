package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/repository"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

// SyncReport summarises profile/user status disagreement. It is diagnostic
// only; nothing is repaired.
type SyncReport struct {
	Talents   repository.DriftCounts `json:"talents"`
	Companies repository.DriftCounts `json:"companies"`
}

// StatusSyncService runs the status-sync diagnostic.
type StatusSyncService struct {
	repo   repository.StatusSyncRepository
	logger *zap.Logger
}

// NewStatusSyncService builds the service.
func NewStatusSyncService(repo repository.StatusSyncRepository, logger *zap.Logger) *StatusSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusSyncService{repo: repo, logger: logger}
}

// Check counts drifted talent and company rows.
func (s *StatusSyncService) Check(ctx context.Context) (*SyncReport, error) {
	talents, err := s.repo.TalentDrift(ctx)
	if err != nil {
		s.logger.Error("talent drift query", zap.Error(err))
		return nil, apperrors.NewPersistenceError("unable to check status sync", err)
	}
	companies, err := s.repo.CompanyDrift(ctx)
	if err != nil {
		s.logger.Error("company drift query", zap.Error(err))
		return nil, apperrors.NewPersistenceError("unable to check status sync", err)
	}

	report := &SyncReport{Talents: talents, Companies: companies}
	if talents.Total()+companies.Total() > 0 {
		s.logger.Warn("status drift detected",
			zap.Int("talents", talents.Total()),
			zap.Int("companies", companies.Total()))
	}
	return report, nil
}
