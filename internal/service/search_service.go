package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/repository"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

// SearchService serves the public, rate limited read endpoints.
type SearchService struct {
	jobs    repository.JobOfferRepository
	talents repository.TalentRepository
	logger  *zap.Logger
}

// NewSearchService builds the service.
func NewSearchService(jobs repository.JobOfferRepository, talents repository.TalentRepository, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{jobs: jobs, talents: talents, logger: logger}
}

// SearchJobs lists published offers of approved companies.
func (s *SearchService) SearchJobs(ctx context.Context, filter repository.JobOfferFilter) ([]domain.JobOffer, error) {
	jobs, err := s.jobs.Search(ctx, filter)
	if err != nil {
		s.logger.Error("job search", zap.Error(err))
		return nil, apperrors.NewPersistenceError("unable to search jobs", err)
	}
	return jobs, nil
}

// ListTalents lists approved talent profiles.
func (s *SearchService) ListTalents(ctx context.Context, filter repository.TalentFilter) ([]domain.TalentProfile, error) {
	if filter.Role != nil {
		switch *filter.Role {
		case domain.RoleTalent, domain.RoleMentor, domain.RoleRecruiter:
		default:
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"field": "role"})
		}
	}
	talents, err := s.talents.ListApproved(ctx, filter)
	if err != nil {
		s.logger.Error("talent listing", zap.Error(err))
		return nil, apperrors.NewPersistenceError("unable to list talents", err)
	}
	return talents, nil
}
