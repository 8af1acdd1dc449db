package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/repository"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

type fakeJobs struct {
	jobs   []domain.JobOffer
	filter repository.JobOfferFilter
	err    error
}

func (f *fakeJobs) Create(_ context.Context, job *domain.JobOffer) error {
	f.jobs = append(f.jobs, *job)
	return nil
}

func (f *fakeJobs) Search(_ context.Context, filter repository.JobOfferFilter) ([]domain.JobOffer, error) {
	f.filter = filter
	return f.jobs, f.err
}

func TestSearchService_SearchJobs(t *testing.T) {
	jobs := &fakeJobs{jobs: []domain.JobOffer{{ID: "job-1", Title: "Solidity engineer"}}}
	svc := NewSearchService(jobs, nil, nil)

	skill := "solidity"
	got, err := svc.SearchJobs(context.Background(), repository.JobOfferFilter{Skill: &skill, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "solidity", *jobs.filter.Skill)

	jobs.err = errors.New("statement timeout")
	_, err = svc.SearchJobs(context.Background(), repository.JobOfferFilter{})
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
}

func TestSearchService_ListTalents(t *testing.T) {
	db := newMemDB()
	db.seedTalent(pendingUser(talentA), domain.TalentProfile{UserID: talentA, Approved: true})
	db.seedTalent(pendingUser(talentB), domain.TalentProfile{UserID: talentB, InReview: true})
	svc := NewSearchService(nil, db.committedRepos().Talents, nil)

	got, err := svc.ListTalents(context.Background(), repository.TalentFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, talentA, got[0].UserID)

	role := domain.Role("admin")
	_, err = svc.ListTalents(context.Background(), repository.TalentFilter{Role: &role})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
