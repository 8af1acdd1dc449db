package repository

import (
	"context"
	"fmt"
)

// DriftCounts holds the number of profile rows disagreeing with their user
// row under each drift predicate.
type DriftCounts struct {
	ApprovedNotSynced int `json:"approved_not_synced"`
	ReviewNotSynced   int `json:"review_not_synced"`
	StaleApproval     int `json:"stale_approval"`
}

// Total sums all predicates.
func (d DriftCounts) Total() int {
	return d.ApprovedNotSynced + d.ReviewNotSynced + d.StaleApproval
}

// StatusSyncRepository runs the read-only consistency queries.
type StatusSyncRepository interface {
	TalentDrift(ctx context.Context) (DriftCounts, error)
	CompanyDrift(ctx context.Context) (DriftCounts, error)
}

type statusSyncRepository struct {
	db DBTX
}

// NewStatusSyncRepository instantiates the repository.
func NewStatusSyncRepository(db DBTX) StatusSyncRepository {
	return &statusSyncRepository{db: db}
}

const driftQuery = `
        SELECT
            COUNT(*) FILTER (WHERE p.approved = TRUE AND u.%[2]s <> 'approved'),
            COUNT(*) FILTER (WHERE p.in_review = TRUE AND u.%[2]s NOT IN ('pending', 'in_review')),
            COUNT(*) FILTER (WHERE p.approved = FALSE AND p.in_review = FALSE AND u.%[2]s = 'approved')
        FROM %[1]s p
        JOIN users u ON u.user_id = p.user_id`

func (r *statusSyncRepository) TalentDrift(ctx context.Context) (DriftCounts, error) {
	return r.drift(ctx, "talents", "talent_status")
}

func (r *statusSyncRepository) CompanyDrift(ctx context.Context) (DriftCounts, error) {
	return r.drift(ctx, "companies", "recruiter_status")
}

func (r *statusSyncRepository) drift(ctx context.Context, table, statusColumn string) (DriftCounts, error) {
	var counts DriftCounts
	err := r.db.QueryRow(ctx, fmt.Sprintf(driftQuery, table, statusColumn)).Scan(
		&counts.ApprovedNotSynced,
		&counts.ReviewNotSynced,
		&counts.StaleApproval,
	)
	return counts, err
}
