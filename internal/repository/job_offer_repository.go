package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// JobOfferFilter captures public job search parameters.
type JobOfferFilter struct {
	SearchTerm *string
	Skill      *string
	City       *string
	Country    *string
	Limit      int
	Offset     int
}

// JobOfferRepository encapsulates job offer persistence.
type JobOfferRepository interface {
	Create(ctx context.Context, job *domain.JobOffer) error
	Search(ctx context.Context, filter JobOfferFilter) ([]domain.JobOffer, error)
}

type jobOfferRepository struct {
	db DBTX
}

// NewJobOfferRepository instantiates the repository.
func NewJobOfferRepository(db DBTX) JobOfferRepository {
	return &jobOfferRepository{db: db}
}

const jobOfferColumns = `id, company_user_id, title, description, skills, city, country, budget::float8, currency, published, created_at, updated_at`

func (r *jobOfferRepository) Create(ctx context.Context, job *domain.JobOffer) error {
	const query = `
        INSERT INTO job_offers (company_user_id, title, description, skills, city, country, budget, currency, published)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	skills := job.Skills
	if skills == nil {
		skills = []string{}
	}
	return r.db.QueryRow(ctx, query,
		job.CompanyUserID,
		job.Title,
		job.Description,
		skills,
		job.City,
		job.Country,
		job.Budget,
		job.Currency,
		job.Published,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

// Search only returns published offers whose company is approved.
func (r *jobOfferRepository) Search(ctx context.Context, filter JobOfferFilter) ([]domain.JobOffer, error) {
	base := `SELECT ` + prefixColumns("j", jobOfferColumns) + `
             FROM job_offers j JOIN companies c ON c.user_id = j.company_user_id`
	clauses := []string{"j.published=TRUE", "c.approved=TRUE"}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(j.title) LIKE %s OR LOWER(j.description) LIKE %s)", placeholder, placeholder))
	}
	if filter.Skill != nil && strings.TrimSpace(*filter.Skill) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Skill)))
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(j.skills) s WHERE LOWER(s) = $%d)", len(args)))
	}
	if filter.City != nil && *filter.City != "" {
		args = append(args, strings.ToLower(*filter.City))
		clauses = append(clauses, fmt.Sprintf("LOWER(j.city)=$%d", len(args)))
	}
	if filter.Country != nil && *filter.Country != "" {
		args = append(args, strings.ToLower(*filter.Country))
		clauses = append(clauses, fmt.Sprintf("LOWER(j.country)=$%d", len(args)))
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY j.created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobOffers(rows)
}

func scanJobOffers(rows pgx.Rows) ([]domain.JobOffer, error) {
	result := []domain.JobOffer{}
	for rows.Next() {
		var job domain.JobOffer
		if err := rows.Scan(
			&job.ID,
			&job.CompanyUserID,
			&job.Title,
			&job.Description,
			&job.Skills,
			&job.City,
			&job.Country,
			&job.Budget,
			&job.Currency,
			&job.Published,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
