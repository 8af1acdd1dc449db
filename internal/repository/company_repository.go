package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/goodhive/onboarding-service/internal/domain"
)

// CompanyRepository handles persistence for company profiles.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.CompanyProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.CompanyProfile, error)
	GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.CompanyProfile, error)
	SetModeration(ctx context.Context, userID string, approved, inReview bool) error
	ListPending(ctx context.Context, limit, offset int) ([]domain.CompanyProfile, error)
}

type companyRepository struct {
	db DBTX
}

// NewCompanyRepository instantiates the repository.
func NewCompanyRepository(db DBTX) CompanyRepository {
	return &companyRepository{db: db}
}

const companyColumns = `user_id, designation, city, country, approved, in_review, created_at, updated_at`

func (r *companyRepository) Create(ctx context.Context, company *domain.CompanyProfile) error {
	const query = `
        INSERT INTO companies (user_id, designation, city, country, approved, in_review)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		company.UserID,
		company.Designation,
		company.City,
		company.Country,
		company.Approved,
		company.InReview,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
}

func (r *companyRepository) GetByUserID(ctx context.Context, userID string) (*domain.CompanyProfile, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE user_id=$1`, userID))
}

func (r *companyRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.CompanyProfile, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE user_id=$1 FOR UPDATE`, userID))
}

func (r *companyRepository) SetModeration(ctx context.Context, userID string, approved, inReview bool) error {
	const query = `UPDATE companies SET approved=$1, in_review=$2, updated_at=NOW() WHERE user_id=$3`
	cmd, err := r.db.Exec(ctx, query, approved, inReview, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.CompanyProfile, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE in_review=TRUE ORDER BY updated_at ASC LIMIT %d OFFSET %d`,
		companyColumns, limit, offset)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.CompanyProfile{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func scanCompany(row pgx.Row) (*domain.CompanyProfile, error) {
	var c domain.CompanyProfile
	if err := row.Scan(
		&c.UserID,
		&c.Designation,
		&c.City,
		&c.Country,
		&c.Approved,
		&c.InReview,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
